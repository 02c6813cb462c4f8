package domain

import (
	"context"
	"time"

	"github.com/lmeadows/billfold/internal/repository"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a single payment attempt.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// Payment-related domain errors.
var (
	ErrPaymentNotFound       = &Error{Code: ENOTFOUND, Message: "Payment not found"}
	ErrPaymentAmountInvalid  = &Error{Code: EINVALID, Message: "Payment amount must be positive"}
	ErrPaymentExceedsBalance = &Error{Code: EINVALID, Message: "Payment amount exceeds invoice balance"}
	ErrPaymentNotRefundable  = &Error{Code: ECONFLICT, Message: "Only completed payments can be refunded"}
	ErrRefundExceedsPayment  = &Error{Code: EINVALID, Message: "Refund amount exceeds the original payment"}
	ErrGatewayDeclined       = &Error{Code: EPAYMENT, Message: "Payment authorization was declined"}
)

// PaymentService records payments and refunds against invoices and keeps
// the invoice paid/balance/status triplet consistent with them.
type PaymentService interface {
	// RecordPayment records a manual payment. Fails if the amount exceeds
	// the remaining balance across completed payments (overpayment guard).
	RecordPayment(ctx context.Context, params RecordPaymentParams) (*PaymentResult, error)

	// ProcessPayment performs a gateway authorization first. On decline it
	// persists a failed payment row without touching the invoice and
	// returns ErrGatewayDeclined; on success it proceeds as RecordPayment.
	ProcessPayment(ctx context.Context, params ProcessPaymentParams) (*PaymentResult, error)

	// RefundPayment creates a negative-amount refunded payment row linked
	// to the source payment and reopens the invoice for collection.
	RefundPayment(ctx context.Context, params RefundPaymentParams) (*PaymentResult, error)

	// ListInvoicePayments returns all payments recorded against an invoice.
	ListInvoicePayments(ctx context.Context, userID, invoiceID string) ([]repository.Payment, error)

	// ListPayments lists a user's payments with optional status filtering.
	ListPayments(ctx context.Context, params ListPaymentsParams) ([]repository.Payment, error)

	// PaymentStats aggregates collected totals, monthly totals, and
	// pending/failed counts for a user.
	PaymentStats(ctx context.Context, userID string) (*PaymentStats, error)
}

// RecordPaymentParams contains parameters for recording a manual payment.
type RecordPaymentParams struct {
	UserID        string
	InvoiceID     string
	Amount        decimal.Decimal
	Method        string // "bank_transfer", "check", "cash", "card", ...
	TransactionID string // optional external reference
	PaymentDate   time.Time
	Notes         string
}

// ProcessPaymentParams contains parameters for a gateway-backed payment.
type ProcessPaymentParams struct {
	UserID      string
	InvoiceID   string
	Amount      decimal.Decimal
	Method      string
	CardToken   string // gateway payment method token
	PaymentDate time.Time
}

// RefundPaymentParams contains parameters for refunding a payment.
// A zero Amount refunds the full remaining refundable amount.
type RefundPaymentParams struct {
	UserID    string
	PaymentID string
	Amount    decimal.Decimal
	Notes     string
}

// ListPaymentsParams filters payment listings.
type ListPaymentsParams struct {
	UserID string
	Status PaymentStatus // optional
	Limit  int32
	Offset int32
}

// PaymentResult bundles a payment row with the invoice state it produced.
type PaymentResult struct {
	Payment repository.Payment
	Invoice repository.Invoice
}

// MonthlyTotal is one month's collected payment volume.
type MonthlyTotal struct {
	Month time.Time       `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// PaymentStats aggregates payment figures for a user.
type PaymentStats struct {
	TotalCollected decimal.Decimal `json:"total_collected"`
	TotalRefunded  decimal.Decimal `json:"total_refunded"`
	PendingCount   int64           `json:"pending_count"`
	FailedCount    int64           `json:"failed_count"`
	Monthly        []MonthlyTotal  `json:"monthly"`
}
