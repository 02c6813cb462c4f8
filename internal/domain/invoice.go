package domain

import (
	"context"
	"time"

	"github.com/lmeadows/billfold/internal/repository"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceSent          InvoiceStatus = "sent"
	InvoiceViewed        InvoiceStatus = "viewed"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoiceViewed, InvoicePartiallyPaid,
		InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// invoiceTransitions is the single source of truth for permitted status
// edges. paid -> sent and partially_paid -> sent exist for refunds;
// cancelled is terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:         {InvoiceSent, InvoiceViewed, InvoiceCancelled},
	InvoiceSent:          {InvoiceViewed, InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceViewed:        {InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoicePartiallyPaid: {InvoicePaid, InvoiceSent, InvoiceOverdue, InvoiceCancelled},
	InvoicePaid:          {InvoiceSent},
	InvoiceOverdue:       {InvoicePartiallyPaid, InvoicePaid, InvoiceSent, InvoiceCancelled},
	InvoiceCancelled:     {},
}

// CanTransition reports whether an invoice may move from one status to another.
func CanTransition(from, to InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DiscountType describes how an invoice discount is applied.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	return d == DiscountFixed || d == DiscountPercentage
}

// HistoryAction identifies the kind of event recorded in invoice history.
type HistoryAction string

const (
	HistoryCreated         HistoryAction = "created"
	HistoryUpdated         HistoryAction = "updated"
	HistorySent            HistoryAction = "sent"
	HistoryViewed          HistoryAction = "viewed"
	HistoryPaymentReceived HistoryAction = "payment_received"
	HistoryPaymentFailed   HistoryAction = "payment_failed"
	HistoryReminderSent    HistoryAction = "reminder_sent"
	HistoryStatusChanged   HistoryAction = "status_changed"
	HistoryCancelled       HistoryAction = "cancelled"
	HistoryDeleted         HistoryAction = "deleted"
	HistoryExported        HistoryAction = "exported"
)

// Invoice-related domain errors.
var (
	ErrInvoiceNotFound         = &Error{Code: ENOTFOUND, Message: "Invoice not found"}
	ErrClientNotFound          = &Error{Code: ENOTFOUND, Message: "Client not found"}
	ErrInvalidStatusTransition = &Error{Code: ECONFLICT, Message: "Invalid invoice status transition"}
	ErrInvoiceAlreadyPaid      = &Error{Code: ECONFLICT, Message: "Invoice already paid in full"}
	ErrInvoiceCancelled        = &Error{Code: ECONFLICT, Message: "Invoice is cancelled"}
	ErrInvoiceHasPayments      = &Error{Code: ECONFLICT, Message: "Invoice has recorded payments and cannot be deleted"}
	ErrInvoiceQuotaExceeded    = &Error{Code: ECONFLICT, Message: "Invoice limit reached for the current subscription plan"}
	ErrInvoiceNumberGeneration = &Error{Code: EINTERNAL, Message: "Failed to generate invoice number"}
	ErrNoInvoiceItems          = &Error{Code: EINVALID, Message: "Invoice must have at least one line item"}
)

// InvoiceService owns the invoice financial lifecycle: creation, status
// transitions, share links, bulk operations, and the overdue sweep.
type InvoiceService interface {
	// CreateInvoice validates line items, computes financial fields,
	// allocates an invoice number, and persists invoice + items + history
	// atomically. The plan quota is checked inside the same transaction.
	CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*InvoiceDetail, error)

	// GetInvoice retrieves an invoice by ID with items, payments, and history.
	GetInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error)

	// ListInvoices lists invoices with status/client/date/search filters.
	ListInvoices(ctx context.Context, params ListInvoicesParams) (*InvoicePage, error)

	// UpdateInvoice applies a partial update. When items are replaced, all
	// derived financial fields are recomputed against payments already applied.
	UpdateInvoice(ctx context.Context, params UpdateInvoiceParams) (*InvoiceDetail, error)

	// DeleteInvoice removes an invoice. Rejected if any payments exist.
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error

	// ChangeStatus validates the transition against the permitted edges and
	// applies it, setting transition timestamps as side effects.
	ChangeStatus(ctx context.Context, userID, invoiceID string, target InvoiceStatus) (*InvoiceDetail, error)

	// SendInvoice ensures a share link exists, transitions the invoice to
	// sent, and emails a copy best-effort. Delivery failure never blocks
	// the transition; the outcome is recorded in history.
	SendInvoice(ctx context.Context, userID, invoiceID string) (*SendOutcome, error)

	// DuplicateInvoice clones pricing and items into a new draft invoice
	// with a freshly allocated number and today's date.
	DuplicateInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error)

	// CancelInvoice transitions to cancelled. Refused when already paid.
	CancelInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error)

	// UpdateShare enables/disables public access or regenerates the share token.
	UpdateShare(ctx context.Context, params UpdateShareParams) (*InvoiceDetail, error)

	// GetSharedInvoice fetches an invoice by its public share token and marks
	// it viewed as a side effect. Idempotent: re-viewing is a no-op.
	GetSharedInvoice(ctx context.Context, shareID string) (*InvoiceDetail, error)

	// Bulk variants return a per-id outcome plus a summary; one id's failure
	// never aborts the rest.
	BulkSend(ctx context.Context, userID string, invoiceIDs []string) (*BulkOutcome, error)
	BulkChangeStatus(ctx context.Context, userID string, invoiceIDs []string, target InvoiceStatus) (*BulkOutcome, error)
	BulkMarkPaid(ctx context.Context, userID string, invoiceIDs []string) (*BulkOutcome, error)
	BulkDelete(ctx context.Context, userID string, invoiceIDs []string) (*BulkOutcome, error)

	// SweepOverdue transitions all sent/viewed invoices past their due date
	// to overdue in one transaction, then dispatches reminder notifications
	// per invoice independently. Returns the number of invoices transitioned.
	SweepOverdue(ctx context.Context, now time.Time) (int, error)

	// ListHistory returns the append-only audit trail for an invoice.
	ListHistory(ctx context.Context, userID, invoiceID string) ([]repository.InvoiceHistory, error)
}

// InvoiceItemInput is one line item supplied by the caller.
type InvoiceItemInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// CreateInvoiceParams contains parameters for creating an invoice.
type CreateInvoiceParams struct {
	UserID        string
	ClientID      string
	Items         []InvoiceItemInput
	InvoiceNumber string // optional - allocated from the user's sequence if empty
	Status        InvoiceStatus
	Currency      string
	TaxRate       decimal.Decimal
	Discount      decimal.Decimal
	DiscountType  DiscountType
	Notes         string
	InvoiceDate   time.Time // zero value means today
	DueDate       time.Time
}

// UpdateInvoiceParams contains a partial invoice update. Nil pointers leave
// the corresponding field untouched; a non-nil Items replaces all line items.
type UpdateInvoiceParams struct {
	UserID       string
	InvoiceID    string
	ClientID     *string
	Items        []InvoiceItemInput
	TaxRate      *decimal.Decimal
	Discount     *decimal.Decimal
	DiscountType *DiscountType
	Notes        *string
	DueDate      *time.Time
	Currency     *string
}

// ListInvoicesParams filters and paginates invoice listings.
type ListInvoicesParams struct {
	UserID   string
	Status   InvoiceStatus // optional
	ClientID string        // optional
	DateFrom time.Time     // optional, inclusive invoice_date lower bound
	DateTo   time.Time     // optional, inclusive invoice_date upper bound
	Search   string        // optional, matches invoice number and notes
	Limit    int32
	Offset   int32
}

// UpdateShareParams toggles or rotates an invoice's public share link.
type UpdateShareParams struct {
	UserID     string
	InvoiceID  string
	Enabled    bool
	Regenerate bool
}

// InvoiceDetail aggregates an invoice with its items, payments, and history.
type InvoiceDetail struct {
	Invoice  repository.Invoice
	Items    []repository.InvoiceItem
	Payments []repository.Payment
	History  []repository.InvoiceHistory
}

// InvoicePage is one page of an invoice listing.
type InvoicePage struct {
	Invoices []repository.Invoice
	Total    int64
	Limit    int32
	Offset   int32
}

// SendOutcome reports a send operation. EmailSent is a soft signal: the
// invoice is sent either way, per the best-effort delivery contract.
type SendOutcome struct {
	Invoice   *InvoiceDetail
	EmailSent bool
}

// BulkResultOutcome classifies one id's result within a bulk operation.
type BulkResultOutcome string

const (
	BulkOutcomeOK       BulkResultOutcome = "sent"
	BulkOutcomeSkipped  BulkResultOutcome = "skipped"
	BulkOutcomeFailed   BulkResultOutcome = "failed"
	BulkOutcomeNotFound BulkResultOutcome = "not_found"
)

// BulkResult is the per-id outcome of a bulk operation.
type BulkResult struct {
	InvoiceID string            `json:"invoice_id"`
	Outcome   BulkResultOutcome `json:"outcome"`
	Error     string            `json:"error,omitempty"`
}

// BulkSummary aggregates bulk operation outcomes.
type BulkSummary struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	NotFound  int `json:"not_found"`
}

// BulkOutcome is the full result of a bulk operation.
type BulkOutcome struct {
	Results []BulkResult `json:"results"`
	Summary BulkSummary  `json:"summary"`
}
