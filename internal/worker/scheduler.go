package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/lmeadows/billfold/internal/jobs"
	"github.com/lmeadows/billfold/internal/repository"
)

// Scheduler periodically enqueues the maintenance sweeps. Run exactly one
// scheduler per deployment; the sweeps themselves are safe to repeat.
type Scheduler struct {
	queries  repository.Querier
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a maintenance job scheduler. interval defaults to
// one hour.
func NewScheduler(queries repository.Querier, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		queries:  queries,
		interval: interval,
		logger:   logger,
	}
}

// Start enqueues one round immediately, then once per interval until the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler starting", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.enqueueRound(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.enqueueRound(ctx)
		}
	}
}

func (s *Scheduler) enqueueRound(ctx context.Context) {
	if err := jobs.EnqueueSweepOverdue(ctx, s.queries); err != nil {
		s.logger.Error("failed to enqueue overdue sweep", "error", err)
	}
	if err := jobs.EnqueueProcessDue(ctx, s.queries); err != nil {
		s.logger.Error("failed to enqueue recurring sweep", "error", err)
	}
}
