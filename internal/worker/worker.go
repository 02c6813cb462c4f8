package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/email"
	"github.com/lmeadows/billfold/internal/jobs"
	"github.com/lmeadows/billfold/internal/repository"
	"github.com/lmeadows/billfold/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often to check for new jobs
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs to process concurrently
	MaxConcurrency int

	// Queue name to process (empty string = all queues)
	Queue string
}

// Worker processes background jobs: queued emails and the scheduled
// maintenance sweeps (overdue marking, recurring generation).
type Worker struct {
	config       Config
	queries      repository.Querier
	emailService *email.Service
	invoices     domain.InvoiceService
	recurring    domain.RecurringService
	metrics      *telemetry.BusinessMetrics
	logger       *slog.Logger

	wg sync.WaitGroup
}

// NewWorker creates a new background job worker. metrics may be nil.
func NewWorker(
	queries repository.Querier,
	emailService *email.Service,
	invoices domain.InvoiceService,
	recurring domain.RecurringService,
	metrics *telemetry.BusinessMetrics,
	config Config,
	logger *slog.Logger,
) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}

	return &Worker{
		config:       config,
		queries:      queries,
		emailService: emailService,
		invoices:     invoices,
		recurring:    recurring,
		metrics:      metrics,
		logger:       logger,
	}
}

// Start begins processing jobs until the context is cancelled. In-flight
// jobs get to finish before Start returns.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"queue", w.config.Queue,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.config.MaxConcurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			w.wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			select {
			case sem <- struct{}{}:
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()
					// Drain the queue rather than one job per tick.
					for w.claimAndProcess(ctx) {
					}
				}()
			default:
				// At max concurrency, skip this poll
			}
		}
	}
}

// claimAndProcess claims and processes a single job. Returns true when a
// job was claimed, so the caller can immediately poll again.
func (w *Worker) claimAndProcess(ctx context.Context) bool {
	job, err := w.queries.ClaimNextJob(ctx, repository.ClaimNextJobParams{
		Queue:    w.config.Queue,
		WorkerID: w.config.WorkerID,
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) && ctx.Err() == nil {
			w.logger.Error("failed to claim job", "error", err)
		}
		return false
	}

	w.logger.Info("processing job",
		"job_id", job.ID.String(),
		"job_type", job.JobType,
		"retry_count", job.RetryCount,
	)

	started := time.Now()
	err = w.processJob(ctx, &job)
	if w.metrics != nil {
		w.metrics.JobDuration.WithLabelValues(job.JobType).Observe(time.Since(started).Seconds())
		if jobs.IsEmailJob(job.JobType) {
			if err != nil {
				w.metrics.EmailFailed.WithLabelValues(job.JobType).Inc()
			} else {
				w.metrics.EmailSent.WithLabelValues(job.JobType).Inc()
			}
		}
	}
	if err != nil {
		w.logger.Error("job failed",
			"job_id", job.ID.String(),
			"job_type", job.JobType,
			"error", err,
		)
		if w.metrics != nil {
			w.metrics.JobsFailed.WithLabelValues(job.JobType).Inc()
		}
		if _, failErr := w.queries.FailJob(ctx, repository.FailJobParams{
			ID:           job.ID,
			ErrorMessage: pgtype.Text{String: err.Error(), Valid: true},
			BackoffSecs:  retryBackoff(job.RetryCount),
		}); failErr != nil {
			w.logger.Error("failed to record job failure",
				"job_id", job.ID.String(),
				"error", failErr,
			)
		}
		return true
	}

	w.logger.Info("job completed",
		"job_id", job.ID.String(),
		"job_type", job.JobType,
	)
	if w.metrics != nil {
		w.metrics.JobsProcessed.WithLabelValues(job.JobType).Inc()
	}

	if err := w.queries.CompleteJob(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job completed",
			"job_id", job.ID.String(),
			"error", err,
		)
	}
	return true
}

// retryBackoff returns exponential backoff in seconds: 30s, 60s, 120s, ...
// capped at one hour.
func retryBackoff(retryCount int32) float64 {
	backoff := 30 * math.Pow(2, float64(retryCount))
	return math.Min(backoff, 3600)
}

// processJob dispatches a claimed job to its handler under the job's own
// timeout.
func (w *Worker) processJob(ctx context.Context, job *repository.Job) error {
	timeout := time.Duration(job.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if jobs.IsEmailJob(job.JobType) {
		return jobs.ProcessEmailJob(jobCtx, job, w.emailService, w.queries)
	}
	if jobs.IsMaintenanceJob(job.JobType) {
		return w.processMaintenanceJob(jobCtx, job)
	}
	return jobs.UnknownJobError(job.JobType)
}

// processMaintenanceJob runs one of the scheduled sweeps.
func (w *Worker) processMaintenanceJob(ctx context.Context, job *repository.Job) error {
	switch job.JobType {
	case jobs.JobTypeSweepOverdue:
		count, err := w.invoices.SweepOverdue(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("overdue sweep failed: %w", err)
		}
		if w.metrics != nil {
			w.metrics.OverdueSweeps.Inc()
			w.metrics.OverdueMarked.Add(float64(count))
		}
		w.logger.Info("marked invoices overdue", "count", count)
		return nil

	case jobs.JobTypeProcessDue:
		result, err := w.recurring.ProcessDue(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("recurring sweep failed: %w", err)
		}
		if w.metrics != nil {
			w.metrics.RecurringGenerated.Add(float64(result.Generated))
			w.metrics.RecurringFailed.Add(float64(result.Failed))
		}
		// Individual template failures were already isolated and logged;
		// the job itself succeeded.
		return nil

	default:
		return jobs.UnknownJobError(job.JobType)
	}
}
