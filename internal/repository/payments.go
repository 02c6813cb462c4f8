package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, invoice_id, user_id, amount, net_amount, status, payment_method,
       transaction_id, refund_of_id, payment_date, notes, created_at, updated_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID,
		&p.InvoiceID,
		&p.UserID,
		&p.Amount,
		&p.NetAmount,
		&p.Status,
		&p.PaymentMethod,
		&p.TransactionID,
		&p.RefundOfID,
		&p.PaymentDate,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const createPayment = `
INSERT INTO payments (
    invoice_id, user_id, amount, net_amount, status, payment_method,
    transaction_id, refund_of_id, payment_date, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + paymentColumns

type CreatePaymentParams struct {
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
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.InvoiceID,
		arg.UserID,
		arg.Amount,
		arg.NetAmount,
		arg.Status,
		arg.PaymentMethod,
		arg.TransactionID,
		arg.RefundOfID,
		arg.PaymentDate,
		arg.Notes,
	)
	return scanPayment(row)
}

const getPayment = `
SELECT ` + paymentColumns + `
FROM payments
WHERE id = $1 AND user_id = $2
`

type GetPaymentParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetPayment(ctx context.Context, arg GetPaymentParams) (Payment, error) {
	return scanPayment(q.db.QueryRow(ctx, getPayment, arg.ID, arg.UserID))
}

const getInvoicePayments = `
SELECT ` + paymentColumns + `
FROM payments
WHERE invoice_id = $1
ORDER BY payment_date DESC, created_at DESC
`

func (q *Queries) GetInvoicePayments(ctx context.Context, invoiceID pgtype.UUID) ([]Payment, error) {
	rows, err := q.db.Query(ctx, getInvoicePayments, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// sumSettledPayments nets an invoice's settled money movement. Refund
// rows carry negative amounts, and a fully refunded original keeps
// status 'refunded', so both statuses must count or the original's
// positive amount would leave the sum while its refund rows remain.
const sumSettledPayments = `
SELECT COALESCE(sum(amount), 0)
FROM payments
WHERE invoice_id = $1 AND status IN ('completed', 'refunded')
`

func (q *Queries) SumSettledPayments(ctx context.Context, invoiceID pgtype.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := q.db.QueryRow(ctx, sumSettledPayments, invoiceID).Scan(&sum)
	return sum, err
}

const sumRefundsForPayment = `
SELECT COALESCE(sum(-amount), 0)
FROM payments
WHERE refund_of_id = $1 AND status = 'completed'
`

func (q *Queries) SumRefundsForPayment(ctx context.Context, paymentID pgtype.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := q.db.QueryRow(ctx, sumRefundsForPayment, paymentID).Scan(&sum)
	return sum, err
}

const countPaymentsForInvoice = `
SELECT count(*)
FROM payments
WHERE invoice_id = $1
`

func (q *Queries) CountPaymentsForInvoice(ctx context.Context, invoiceID pgtype.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPaymentsForInvoice, invoiceID).Scan(&count)
	return count, err
}

const updatePaymentStatus = `
UPDATE payments
SET status = $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + paymentColumns

type UpdatePaymentStatusParams struct {
	ID     pgtype.UUID
	Status string
}

func (q *Queries) UpdatePaymentStatus(ctx context.Context, arg UpdatePaymentStatusParams) (Payment, error) {
	return scanPayment(q.db.QueryRow(ctx, updatePaymentStatus, arg.ID, arg.Status))
}

const listPayments = `
SELECT ` + paymentColumns + `
FROM payments
WHERE user_id = $1
  AND ($2::text = '' OR status = $2)
  AND ($3::timestamptz IS NULL OR payment_date >= $3)
  AND ($4::timestamptz IS NULL OR payment_date <= $4)
ORDER BY payment_date DESC, created_at DESC
LIMIT $5 OFFSET $6
`

type ListPaymentsParams struct {
	UserID   pgtype.UUID
	Status   string
	DateFrom pgtype.Timestamptz
	DateTo   pgtype.Timestamptz
	Limit    int32
	Offset   int32
}

func (q *Queries) ListPayments(ctx context.Context, arg ListPaymentsParams) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPayments,
		arg.UserID,
		arg.Status,
		arg.DateFrom,
		arg.DateTo,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

const getPaymentTotals = `
SELECT
    COALESCE(sum(amount) FILTER (WHERE status = 'completed' AND refund_of_id IS NULL), 0) AS total_collected,
    COALESCE(sum(-amount) FILTER (WHERE status = 'completed' AND refund_of_id IS NOT NULL), 0) AS total_refunded,
    count(*) FILTER (WHERE status IN ('pending', 'processing')) AS pending_count,
    count(*) FILTER (WHERE status = 'failed') AS failed_count
FROM payments
WHERE user_id = $1
`

type GetPaymentTotalsRow struct {
	TotalCollected decimal.Decimal
	TotalRefunded  decimal.Decimal
	PendingCount   int64
	FailedCount    int64
}

func (q *Queries) GetPaymentTotals(ctx context.Context, userID pgtype.UUID) (GetPaymentTotalsRow, error) {
	var r GetPaymentTotalsRow
	err := q.db.QueryRow(ctx, getPaymentTotals, userID).Scan(
		&r.TotalCollected,
		&r.TotalRefunded,
		&r.PendingCount,
		&r.FailedCount,
	)
	return r, err
}

const getMonthlyPaymentTotals = `
SELECT date_trunc('month', payment_date) AS month,
       COALESCE(sum(amount), 0) AS total
FROM payments
WHERE user_id = $1
  AND status = 'completed'
  AND payment_date >= $2
GROUP BY 1
ORDER BY 1
`

type GetMonthlyPaymentTotalsParams struct {
	UserID pgtype.UUID
	Since  pgtype.Timestamptz
}

type GetMonthlyPaymentTotalsRow struct {
	Month pgtype.Timestamptz
	Total decimal.Decimal
}

func (q *Queries) GetMonthlyPaymentTotals(ctx context.Context, arg GetMonthlyPaymentTotalsParams) ([]GetMonthlyPaymentTotalsRow, error) {
	rows, err := q.db.Query(ctx, getMonthlyPaymentTotals, arg.UserID, arg.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []GetMonthlyPaymentTotalsRow
	for rows.Next() {
		var r GetMonthlyPaymentTotalsRow
		if err := rows.Scan(&r.Month, &r.Total); err != nil {
			return nil, err
		}
		totals = append(totals, r)
	}
	return totals, rows.Err()
}
