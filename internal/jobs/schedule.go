package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lmeadows/billfold/internal/repository"
)

// Job type constants for scheduled maintenance jobs
const (
	JobTypeSweepOverdue = "invoice:sweep_overdue"
	JobTypeProcessDue   = "recurring:process_due"
)

// EnqueueSweepOverdue enqueues a run of the overdue invoice sweeper.
func EnqueueSweepOverdue(ctx context.Context, q repository.Querier) error {
	_, err := q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeSweepOverdue,
		Queue:          "maintenance",
		Payload:        []byte("{}"),
		Priority:       10,
		MaxRetries:     1,
		ScheduledAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
		TimeoutSeconds: 300,
	})
	return err
}

// EnqueueProcessDue enqueues a run of the recurring invoice generator.
func EnqueueProcessDue(ctx context.Context, q repository.Querier) error {
	_, err := q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeProcessDue,
		Queue:          "maintenance",
		Payload:        []byte("{}"),
		Priority:       10,
		MaxRetries:     1,
		ScheduledAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
		TimeoutSeconds: 300,
	})
	return err
}

// IsMaintenanceJob checks if a job type is a scheduled maintenance job
func IsMaintenanceJob(jobType string) bool {
	switch jobType {
	case JobTypeSweepOverdue, JobTypeProcessDue:
		return true
	}
	return false
}

// UnknownJobError reports an unroutable job type.
func UnknownJobError(jobType string) error {
	return fmt.Errorf("unknown job type: %s", jobType)
}
