package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const jobColumns = `id, job_type, queue, payload, status, priority, max_retries,
       retry_count, scheduled_at, started_at, completed_at, worker_id,
       error_message, timeout_seconds, created_at, updated_at`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID,
		&j.JobType,
		&j.Queue,
		&j.Payload,
		&j.Status,
		&j.Priority,
		&j.MaxRetries,
		&j.RetryCount,
		&j.ScheduledAt,
		&j.StartedAt,
		&j.CompletedAt,
		&j.WorkerID,
		&j.ErrorMessage,
		&j.TimeoutSeconds,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}

const enqueueJob = `
INSERT INTO jobs (job_type, queue, payload, priority, max_retries, scheduled_at, timeout_seconds)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + jobColumns

type EnqueueJobParams struct {
	JobType        string
	Queue          string
	Payload        []byte
	Priority       int32
	MaxRetries     int32
	ScheduledAt    pgtype.Timestamptz
	TimeoutSeconds int32
}

func (q *Queries) EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error) {
	row := q.db.QueryRow(ctx, enqueueJob,
		arg.JobType,
		arg.Queue,
		arg.Payload,
		arg.Priority,
		arg.MaxRetries,
		arg.ScheduledAt,
		arg.TimeoutSeconds,
	)
	return scanJob(row)
}

// claimNextJob picks the highest-priority due job and marks it running in
// one statement. SKIP LOCKED keeps concurrent workers off each other's
// claims without blocking.
const claimNextJob = `
UPDATE jobs
SET status = 'running',
    started_at = now(),
    worker_id = $2,
    updated_at = now()
WHERE id = (
    SELECT id
    FROM jobs
    WHERE status = 'pending'
      AND ($1::text = '' OR queue = $1)
      AND scheduled_at <= now()
    ORDER BY priority DESC, scheduled_at
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING ` + jobColumns

type ClaimNextJobParams struct {
	Queue    string
	WorkerID string
}

func (q *Queries) ClaimNextJob(ctx context.Context, arg ClaimNextJobParams) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, claimNextJob, arg.Queue, arg.WorkerID))
}

const completeJob = `
UPDATE jobs
SET status = 'completed',
    completed_at = now(),
    updated_at = now()
WHERE id = $1
`

func (q *Queries) CompleteJob(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, completeJob, id)
	return err
}

// failJob either reschedules with a caller-supplied backoff or, once
// retries are exhausted, parks the job as failed.
const failJob = `
UPDATE jobs
SET retry_count = retry_count + 1,
    error_message = $2,
    status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
    scheduled_at = CASE WHEN retry_count + 1 >= max_retries THEN scheduled_at
                        ELSE now() + make_interval(secs => $3) END,
    started_at = NULL,
    worker_id = NULL,
    updated_at = now()
WHERE id = $1
RETURNING ` + jobColumns

type FailJobParams struct {
	ID           pgtype.UUID
	ErrorMessage pgtype.Text
	BackoffSecs  float64
}

func (q *Queries) FailJob(ctx context.Context, arg FailJobParams) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, failJob, arg.ID, arg.ErrorMessage, arg.BackoffSecs))
}
