package scheduler

import (
	"context"
	"time"

	"ted-mirror/infrastructure/logger"
	"ted-mirror/usecase"
)

// Scheduler runs full sync cycles on a fixed interval. The first cycle
// starts immediately; subsequent cycles tick at the configured interval.
// Cycles run sequentially on one goroutine so they never overlap.
type Scheduler struct {
	syncUsecase usecase.ISyncUsecase
	interval    time.Duration
}

func New(syncUsecase usecase.ISyncUsecase, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	return &Scheduler{syncUsecase: syncUsecase, interval: interval}
}

// Run blocks until ctx is cancelled. Intended to be launched under an
// errgroup alongside the HTTP server.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.GetLogger().WithField("interval", s.interval.String()).Info("Sync scheduler started")

	s.syncUsecase.SyncAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.GetLogger().Info("Sync scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.syncUsecase.SyncAll(ctx)
		}
	}
}
