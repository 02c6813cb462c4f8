package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// User carries the plan- and sequence-relevant projection of an account.
// invoice_start_number is the next sequence value to allocate; it is only
// ever advanced by the atomic NextInvoiceNumber statement.
type User struct {
	ID                 pgtype.UUID
	Email              string
	Name               pgtype.Text
	SubscriptionPlan   string
	InvoiceLimit       int32
	InvoicePrefix      string
	InvoiceStartNumber int64
	PaymentTermsDays   int32
	NotifyPayments     bool
	NotifyReminders    bool
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

// Client is the billing target of invoices.
type Client struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	Name      string
	Email     pgtype.Text
	Company   pgtype.Text
	Address   pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// Invoice is a billing document. total_amount, paid_amount, and balance_due
// are stored denormalized and updated only inside single-invoice
// transactions.
type Invoice struct {
	ID            pgtype.UUID
	UserID        pgtype.UUID
	ClientID      pgtype.UUID
	InvoiceNumber string
	Status        string
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	Discount      decimal.Decimal
	DiscountType  string
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	BalanceDue    decimal.Decimal
	Currency      string
	Notes         pgtype.Text
	InvoiceDate   pgtype.Date
	DueDate       pgtype.Date
	SentAt        pgtype.Timestamptz
	ViewedAt      pgtype.Timestamptz
	PaidAt        pgtype.Timestamptz
	CancelledAt   pgtype.Timestamptz
	ShareID       pgtype.Text
	ShareEnabled  bool
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

// InvoiceItem is one line item, owned exclusively by its invoice.
// Items are replaced wholesale on edit.
type InvoiceItem struct {
	ID          pgtype.UUID
	InvoiceID   pgtype.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Position    int32
	CreatedAt   pgtype.Timestamptz
}

// Payment is one monetary movement against an invoice. Refunds are stored
// as separate rows with a negative amount, linked via refund_of_id.
type Payment struct {
	ID            pgtype.UUID
	InvoiceID     pgtype.UUID
	UserID        pgtype.UUID
	Amount        decimal.Decimal
	NetAmount     decimal.Decimal
	Status        string
	PaymentMethod string
	TransactionID pgtype.Text
	RefundOfID    pgtype.UUID
	PaymentDate   pgtype.Timestamptz
	Notes         pgtype.Text
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

// InvoiceHistory is an append-only audit row. actor_id is null for
// system-triggered actions.
type InvoiceHistory struct {
	ID          pgtype.UUID
	InvoiceID   pgtype.UUID
	Action      string
	Description string
	ActorID     pgtype.UUID
	CreatedAt   pgtype.Timestamptz
}

// RecurringInvoice is a saved invoice blueprint plus its schedule.
type RecurringInvoice struct {
	ID               pgtype.UUID
	UserID           pgtype.UUID
	ClientID         pgtype.UUID
	Frequency        string
	Interval         int32
	StartDate        pgtype.Date
	EndDate          pgtype.Date
	MaxOccurrences   pgtype.Int4
	OccurrencesCount int32
	NextRunAt        pgtype.Timestamptz
	LastRunAt        pgtype.Timestamptz
	Status           string
	AutoSend         bool
	DueInDays        pgtype.Int4
	Currency         string
	TaxRate          decimal.Decimal
	Discount         decimal.Decimal
	DiscountType     string
	Notes            pgtype.Text
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

// RecurringInvoiceItem is one line of a template's fixed item set. Each
// generation copies values into independent invoice items.
type RecurringInvoiceItem struct {
	ID                 pgtype.UUID
	RecurringInvoiceID pgtype.UUID
	Description        string
	Quantity           decimal.Decimal
	Rate               decimal.Decimal
	Position           int32
	CreatedAt          pgtype.Timestamptz
}

// Job is one background job row in the DB-backed queue.
type Job struct {
	ID             pgtype.UUID
	JobType        string
	Queue          string
	Payload        []byte
	Status         string
	Priority       int32
	MaxRetries     int32
	RetryCount     int32
	ScheduledAt    pgtype.Timestamptz
	StartedAt      pgtype.Timestamptz
	CompletedAt    pgtype.Timestamptz
	WorkerID       pgtype.Text
	ErrorMessage   pgtype.Text
	TimeoutSeconds int32
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}
