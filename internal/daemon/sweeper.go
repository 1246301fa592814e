// Package daemon holds the background pieces of the serve command: the
// periodic cache sweep and the local content watcher.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/quillhost/quill/internal/cache"
)

// Sweeper periodically evicts expired cache entries so idle caches do not
// hold dead values until the next read touches them.
type Sweeper struct {
	scheduler gocron.Scheduler
	cache     *cache.Cache
	interval  time.Duration
}

// NewSweeper creates a sweeper over the shared cache.
func NewSweeper(c *cache.Cache, interval time.Duration) (*Sweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Sweeper{scheduler: s, cache: c, interval: interval}, nil
}

// Start registers the sweep job and begins the scheduler.
func (s *Sweeper) Start(_ context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
		gocron.WithName("cache-sweep"),
	)
	if err != nil {
		return fmt.Errorf("create sweep job: %w", err)
	}

	slog.Info("Starting cache sweeper", "interval", s.interval)
	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (s *Sweeper) Stop(_ context.Context) error {
	slog.Info("Stopping cache sweeper")
	return s.scheduler.Shutdown()
}

func (s *Sweeper) sweep() {
	if removed := s.cache.CleanupExpired(); removed > 0 {
		slog.Debug("Cache sweep", "removed", removed, "remaining", s.cache.Size())
	}
}
