package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/quillhost/quill/internal/daemon"
	"github.com/quillhost/quill/internal/metrics"
	"github.com/quillhost/quill/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	recorder := metrics.NewPrometheusRecorder(nil)
	st, err := buildStack(root.EnvFile, recorder, true)
	if err != nil {
		return err
	}
	if st.store != nil {
		defer func() {
			_ = st.store.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if n := st.engine.LoadCustomTemplates(ctx); n > 0 {
		slog.Info("Custom templates loaded", "count", n)
	}

	sweeper, err := daemon.NewSweeper(st.cache, st.settings.SweepInterval)
	if err != nil {
		return fmt.Errorf("create sweeper: %w", err)
	}
	if err := sweeper.Start(ctx); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer func() {
		if err := sweeper.Stop(ctx); err != nil {
			slog.Warn("Stop sweeper", "error", err)
		}
	}()

	if st.settings.IsLocalContent() {
		watcher, err := daemon.NewContentWatcher(st.settings.LocalPath(), func() int {
			cleared := st.cache.Clear()
			st.engine.Reset()
			return cleared
		})
		if err != nil {
			return fmt.Errorf("create content watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start content watcher: %w", err)
		}
		defer func() {
			if err := watcher.Stop(ctx); err != nil {
				slog.Warn("Stop content watcher", "error", err)
			}
		}()
	}

	srv := server.New(st.settings, st.cache, st.fetcher, st.renderer, st.engine, st.store, recorder)
	slog.Info("Starting quill",
		"content_repo", st.settings.ContentRepo,
		"ref", st.settings.ContentRef,
		"addr", st.settings.Addr,
		"cache_ttl", st.settings.CacheTTL)
	return srv.Start(ctx)
}
