package domain

import (
	"context"
	"time"

	"github.com/lmeadows/billfold/internal/repository"
	"github.com/shopspring/decimal"
)

// Frequency is a recurring template's billing cadence.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// TemplateStatus is the lifecycle state of a recurring template.
// active <-> paused; cancelled is terminal.
type TemplateStatus string

const (
	TemplateActive    TemplateStatus = "active"
	TemplatePaused    TemplateStatus = "paused"
	TemplateCancelled TemplateStatus = "cancelled"
)

// Recurring-template domain errors.
var (
	ErrTemplateNotFound       = &Error{Code: ENOTFOUND, Message: "Recurring template not found"}
	ErrTemplateNotActive      = &Error{Code: ECONFLICT, Message: "Recurring template is not active"}
	ErrTemplateNotDue         = &Error{Code: ECONFLICT, Message: "Recurring template is not due to run yet"}
	ErrTemplateEnded          = &Error{Code: ECONFLICT, Message: "Recurring template end date has passed"}
	ErrTemplateMaxOccurrences = &Error{Code: ECONFLICT, Message: "Recurring template reached its maximum occurrences"}
	ErrTemplateCancelled      = &Error{Code: ECONFLICT, Message: "Recurring template is cancelled"}
	ErrInvalidFrequency       = &Error{Code: EINVALID, Message: "Invalid recurrence frequency"}
	ErrInvalidInterval        = &Error{Code: EINVALID, Message: "Recurrence interval must be a positive integer"}
)

// RecurringService owns recurring templates and materializes invoices
// from them when due.
type RecurringService interface {
	CreateTemplate(ctx context.Context, params CreateTemplateParams) (*TemplateDetail, error)
	GetTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error)
	ListTemplates(ctx context.Context, userID string, limit, offset int32) ([]repository.RecurringInvoice, error)
	UpdateTemplate(ctx context.Context, params UpdateTemplateParams) (*TemplateDetail, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error

	// PauseTemplate and ResumeTemplate toggle active <-> paused. A cancelled
	// template can never be resumed.
	PauseTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error)
	ResumeTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error)

	// CancelTemplate is terminal.
	CancelTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error)

	// RunNow materializes an invoice immediately, bypassing the due-time
	// check but honoring every other guard (status, end date, occurrence
	// limit, plan quota).
	RunNow(ctx context.Context, userID, templateID string) (*InvoiceDetail, error)

	// ProcessDue generates invoices for all active templates whose next run
	// time has passed. Each template is processed independently; one
	// failure never aborts the batch.
	ProcessDue(ctx context.Context, now time.Time) (*ProcessDueResult, error)
}

// CreateTemplateParams contains parameters for creating a recurring template.
type CreateTemplateParams struct {
	UserID         string
	ClientID       string
	Items          []InvoiceItemInput
	Frequency      Frequency
	Interval       int32 // defaults to 1
	StartDate      time.Time
	EndDate        *time.Time
	MaxOccurrences *int32
	DueInDays      *int32 // overrides the user's default payment terms
	AutoSend       bool
	Currency       string
	TaxRate        decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   DiscountType
	Notes          string
}

// UpdateTemplateParams contains a partial template update. Nil pointers
// leave fields untouched; non-nil Items replaces the item template.
type UpdateTemplateParams struct {
	UserID         string
	TemplateID     string
	ClientID       *string
	Items          []InvoiceItemInput
	Frequency      *Frequency
	Interval       *int32
	EndDate        *time.Time
	MaxOccurrences *int32
	DueInDays      *int32
	AutoSend       *bool
	TaxRate        *decimal.Decimal
	Discount       *decimal.Decimal
	DiscountType   *DiscountType
	Notes          *string
}

// TemplateDetail aggregates a recurring template with its item template.
type TemplateDetail struct {
	Template repository.RecurringInvoice
	Items    []repository.RecurringInvoiceItem
}

// ProcessDueResult summarizes one due-recurrence sweep.
type ProcessDueResult struct {
	Processed int      `json:"processed"`
	Generated int      `json:"generated"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
