package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ContentWatcher monitors a local content directory and invalidates served
// state when files change. Only used for file:// content sources; remote
// sources rely on webhooks and TTL expiry instead. onChange clears the
// shared cache and theme state and returns the number of evicted entries.
type ContentWatcher struct {
	root         string
	onChange     func() int
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	debounceTime time.Duration
}

// NewContentWatcher creates a watcher over root.
func NewContentWatcher(root string, onChange func() int) (*ContentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve content path: %w", err)
	}

	return &ContentWatcher{
		root:         absRoot,
		onChange:     onChange,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		debounceTime: 500 * time.Millisecond,
	}, nil
}

// Start watches the content tree and begins the event loop. Directories
// added later are picked up as their create events arrive.
func (cw *ContentWatcher) Start(ctx context.Context) error {
	err := filepath.WalkDir(cw.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != cw.root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return cw.watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch content tree %s: %w", cw.root, err)
	}

	slog.Info("Starting content watcher", "root", cw.root)
	go cw.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (cw *ContentWatcher) Stop(_ context.Context) error {
	slog.Info("Stopping content watcher")
	close(cw.stopChan)
	return cw.watcher.Close()
}

func (cw *ContentWatcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories must be added to the watch set.
				if err := cw.watcher.Add(event.Name); err == nil {
					slog.Debug("Watching new path", "path", event.Name)
				}
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			// Debounce editor save bursts into one invalidation.
			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(cw.debounceTime, func() {
				cw.invalidate(name)
			})
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Content watcher error", "error", err)
		}
	}
}

func (cw *ContentWatcher) invalidate(changed string) {
	cleared := cw.onChange()
	slog.Info("Content changed, cache invalidated", "path", changed, "cleared", cleared)
}
