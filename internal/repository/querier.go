package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Querier is the full query surface of the repository. Services depend on
// this interface so tests can substitute a mock.
type Querier interface {
	// Users and clients
	GetUserByID(ctx context.Context, id pgtype.UUID) (User, error)
	NextInvoiceNumber(ctx context.Context, userID pgtype.UUID) (NextInvoiceNumberRow, error)
	CountActiveInvoices(ctx context.Context, userID pgtype.UUID) (int64, error)
	GetClient(ctx context.Context, arg GetClientParams) (Client, error)

	// Invoices
	CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error)
	GetInvoice(ctx context.Context, arg GetInvoiceParams) (Invoice, error)
	GetInvoiceForUpdate(ctx context.Context, arg GetInvoiceParams) (Invoice, error)
	GetInvoiceByShareID(ctx context.Context, shareID string) (Invoice, error)
	ListInvoices(ctx context.Context, arg ListInvoicesParams) ([]Invoice, error)
	CountInvoices(ctx context.Context, arg CountInvoicesParams) (int64, error)
	UpdateInvoice(ctx context.Context, arg UpdateInvoiceParams) (Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error)
	UpdateInvoicePaymentState(ctx context.Context, arg UpdateInvoicePaymentStateParams) (Invoice, error)
	UpdateInvoiceShare(ctx context.Context, arg UpdateInvoiceShareParams) (Invoice, error)
	DeleteInvoice(ctx context.Context, arg DeleteInvoiceParams) error
	ListOverdueInvoices(ctx context.Context, asOf pgtype.Date) ([]Invoice, error)

	// Invoice items
	CreateInvoiceItem(ctx context.Context, arg CreateInvoiceItemParams) (InvoiceItem, error)
	GetInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceItem, error)
	DeleteInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) error

	// Payments
	CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error)
	GetPayment(ctx context.Context, arg GetPaymentParams) (Payment, error)
	GetInvoicePayments(ctx context.Context, invoiceID pgtype.UUID) ([]Payment, error)
	SumSettledPayments(ctx context.Context, invoiceID pgtype.UUID) (decimal.Decimal, error)
	SumRefundsForPayment(ctx context.Context, paymentID pgtype.UUID) (decimal.Decimal, error)
	CountPaymentsForInvoice(ctx context.Context, invoiceID pgtype.UUID) (int64, error)
	UpdatePaymentStatus(ctx context.Context, arg UpdatePaymentStatusParams) (Payment, error)
	ListPayments(ctx context.Context, arg ListPaymentsParams) ([]Payment, error)
	GetPaymentTotals(ctx context.Context, userID pgtype.UUID) (GetPaymentTotalsRow, error)
	GetMonthlyPaymentTotals(ctx context.Context, arg GetMonthlyPaymentTotalsParams) ([]GetMonthlyPaymentTotalsRow, error)

	// History
	CreateInvoiceHistory(ctx context.Context, arg CreateInvoiceHistoryParams) (InvoiceHistory, error)
	GetInvoiceHistory(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceHistory, error)

	// Recurring invoices
	CreateRecurringInvoice(ctx context.Context, arg CreateRecurringInvoiceParams) (RecurringInvoice, error)
	GetRecurringInvoice(ctx context.Context, arg GetRecurringInvoiceParams) (RecurringInvoice, error)
	GetRecurringInvoiceForUpdate(ctx context.Context, id pgtype.UUID) (RecurringInvoice, error)
	ListRecurringInvoices(ctx context.Context, arg ListRecurringInvoicesParams) ([]RecurringInvoice, error)
	UpdateRecurringInvoice(ctx context.Context, arg UpdateRecurringInvoiceParams) (RecurringInvoice, error)
	UpdateRecurringStatus(ctx context.Context, arg UpdateRecurringStatusParams) (RecurringInvoice, error)
	AdvanceRecurringSchedule(ctx context.Context, arg AdvanceRecurringScheduleParams) (RecurringInvoice, error)
	DeleteRecurringInvoice(ctx context.Context, arg DeleteRecurringInvoiceParams) error
	ListDueRecurringInvoices(ctx context.Context, arg ListDueRecurringInvoicesParams) ([]RecurringInvoice, error)
	CreateRecurringInvoiceItem(ctx context.Context, arg CreateRecurringInvoiceItemParams) (RecurringInvoiceItem, error)
	GetRecurringInvoiceItems(ctx context.Context, recurringInvoiceID pgtype.UUID) ([]RecurringInvoiceItem, error)
	DeleteRecurringInvoiceItems(ctx context.Context, recurringInvoiceID pgtype.UUID) error

	// Jobs
	EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error)
	ClaimNextJob(ctx context.Context, arg ClaimNextJobParams) (Job, error)
	CompleteJob(ctx context.Context, id pgtype.UUID) error
	FailJob(ctx context.Context, arg FailJobParams) (Job, error)
}

var _ Querier = (*Queries)(nil)
