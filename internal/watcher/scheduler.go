package watcher

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the polling period between reconciliation cycles.
const DefaultInterval = 60 * time.Second

// Scheduler drives the watcher: one cycle immediately, then one per tick
// until the context is cancelled. Cycles never overlap; a tick that arrives
// while a cycle is still running is skipped, not queued.
type Scheduler struct {
	log      *slog.Logger
	watcher  *Watcher
	interval time.Duration
	busy     sync.Mutex
}

func NewScheduler(log *slog.Logger, w *Watcher, interval time.Duration) *Scheduler {
	return &Scheduler{log: log, watcher: w, interval: interval}
}

// Run blocks until ctx is done. The first cycle runs synchronously so the
// ledger is seeded before the timer is armed.
func (s *Scheduler) Run(ctx context.Context) {
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			go s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.busy.TryLock() {
		s.log.Warn("previous check still running, skipping this tick")
		return
	}
	defer s.busy.Unlock()

	if err := s.watcher.CheckOnce(ctx); err != nil {
		s.log.Error("check failed", "error", err)
	}
}
