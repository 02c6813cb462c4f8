package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Invoice lifecycle
	InvoicesCreated    *prometheus.CounterVec
	InvoicesSent       *prometheus.CounterVec
	InvoicesViewed     prometheus.Counter
	InvoicesCancelled  prometheus.Counter
	InvoicesDeleted    prometheus.Counter
	InvoicesDuplicated prometheus.Counter
	InvoiceTotalValue  *prometheus.HistogramVec

	// Payments
	PaymentsRecorded *prometheus.CounterVec
	PaymentsFailed   *prometheus.CounterVec
	RefundsIssued    prometheus.Counter
	RevenueCollected *prometheus.CounterVec

	// Recurring generation
	RecurringGenerated prometheus.Counter
	RecurringFailed    prometheus.Counter

	// Overdue sweep
	OverdueMarked prometheus.Counter
	OverdueSweeps prometheus.Counter

	// Background jobs
	JobsProcessed *prometheus.CounterVec
	JobsFailed    *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec

	// Email delivery
	EmailSent   *prometheus.CounterVec
	EmailFailed *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "billfold"
	}

	subsystem := "business"

	return &BusinessMetrics{
		InvoicesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_created_total",
				Help:      "Total invoices created",
			},
			[]string{"source"}, // source: manual, recurring, duplicate
		),
		InvoicesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_sent_total",
				Help:      "Total invoices sent to clients",
			},
			[]string{"email_delivered"},
		),
		InvoicesViewed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_viewed_total",
				Help:      "Share-link invoice views",
			},
		),
		InvoicesCancelled: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_cancelled_total",
				Help:      "Total invoices cancelled",
			},
		),
		InvoicesDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_deleted_total",
				Help:      "Total invoices deleted",
			},
		),
		InvoicesDuplicated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoices_duplicated_total",
				Help:      "Total invoices duplicated as new drafts",
			},
		),
		InvoiceTotalValue: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invoice_total_value",
				Help:      "Distribution of invoice totals at creation",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"currency"},
		),

		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_recorded_total",
				Help:      "Total payments recorded against invoices",
			},
			[]string{"method"},
		),
		PaymentsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_failed_total",
				Help:      "Total failed payment attempts",
			},
			[]string{"method"},
		),
		RefundsIssued: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refunds_issued_total",
				Help:      "Total refunds issued",
			},
		),
		RevenueCollected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "revenue_collected_total",
				Help:      "Sum of completed payment amounts",
			},
			[]string{"currency"},
		),

		RecurringGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recurring_generated_total",
				Help:      "Invoices generated from recurring templates",
			},
		),
		RecurringFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recurring_failed_total",
				Help:      "Recurring generation failures",
			},
		),

		OverdueMarked: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "overdue_marked_total",
				Help:      "Invoices transitioned to overdue by the sweeper",
			},
		),
		OverdueSweeps: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "overdue_sweeps_total",
				Help:      "Overdue sweep executions",
			},
		),

		JobsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_processed_total",
				Help:      "Background jobs completed successfully",
			},
			[]string{"job_type"},
		),
		JobsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_failed_total",
				Help:      "Background job failures, including retries",
			},
			[]string{"job_type"},
		),
		JobDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_duration_seconds",
				Help:      "Background job execution time",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"job_type"},
		),

		EmailSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "email_sent_total",
				Help:      "Email jobs completed",
			},
			[]string{"template"},
		),
		EmailFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "email_failed_total",
				Help:      "Email jobs that failed",
			},
			[]string{"template"},
		),
	}
}
