package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `id, user_id, client_id, invoice_number, status, subtotal, tax_rate,
       tax_amount, discount, discount_type, total_amount, paid_amount,
       balance_due, currency, notes, invoice_date, due_date, sent_at,
       viewed_at, paid_at, cancelled_at, share_id, share_enabled,
       created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var i Invoice
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ClientID,
		&i.InvoiceNumber,
		&i.Status,
		&i.Subtotal,
		&i.TaxRate,
		&i.TaxAmount,
		&i.Discount,
		&i.DiscountType,
		&i.TotalAmount,
		&i.PaidAmount,
		&i.BalanceDue,
		&i.Currency,
		&i.Notes,
		&i.InvoiceDate,
		&i.DueDate,
		&i.SentAt,
		&i.ViewedAt,
		&i.PaidAt,
		&i.CancelledAt,
		&i.ShareID,
		&i.ShareEnabled,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createInvoice = `
INSERT INTO invoices (
    user_id, client_id, invoice_number, status, subtotal, tax_rate,
    tax_amount, discount, discount_type, total_amount, paid_amount,
    balance_due, currency, notes, invoice_date, due_date, sent_at,
    share_id, share_enabled
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING ` + invoiceColumns

type CreateInvoiceParams struct {
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
	ShareID       pgtype.Text
	ShareEnabled  bool
}

func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, createInvoice,
		arg.UserID,
		arg.ClientID,
		arg.InvoiceNumber,
		arg.Status,
		arg.Subtotal,
		arg.TaxRate,
		arg.TaxAmount,
		arg.Discount,
		arg.DiscountType,
		arg.TotalAmount,
		arg.PaidAmount,
		arg.BalanceDue,
		arg.Currency,
		arg.Notes,
		arg.InvoiceDate,
		arg.DueDate,
		arg.SentAt,
		arg.ShareID,
		arg.ShareEnabled,
	)
	return scanInvoice(row)
}

const getInvoice = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE id = $1 AND user_id = $2
`

type GetInvoiceParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetInvoice(ctx context.Context, arg GetInvoiceParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoice, arg.ID, arg.UserID))
}

// getInvoiceForUpdate locks the invoice row for the duration of the
// enclosing transaction. Payment application serializes on this lock so
// the paid/balance/status triplet is never updated from a stale read.
const getInvoiceForUpdate = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE id = $1 AND user_id = $2
FOR UPDATE
`

func (q *Queries) GetInvoiceForUpdate(ctx context.Context, arg GetInvoiceParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceForUpdate, arg.ID, arg.UserID))
}

const getInvoiceByShareID = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE share_id = $1 AND share_enabled = TRUE
`

func (q *Queries) GetInvoiceByShareID(ctx context.Context, shareID string) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceByShareID, shareID))
}

const listInvoices = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE user_id = $1
  AND ($2::text = '' OR status = $2)
  AND ($3::uuid IS NULL OR client_id = $3)
  AND ($4::date IS NULL OR invoice_date >= $4)
  AND ($5::date IS NULL OR invoice_date <= $5)
  AND ($6::text = '' OR invoice_number ILIKE '%' || $6 || '%' OR notes ILIKE '%' || $6 || '%')
ORDER BY invoice_date DESC, created_at DESC
LIMIT $7 OFFSET $8
`

type ListInvoicesParams struct {
	UserID   pgtype.UUID
	Status   string
	ClientID pgtype.UUID
	DateFrom pgtype.Date
	DateTo   pgtype.Date
	Search   string
	Limit    int32
	Offset   int32
}

func (q *Queries) ListInvoices(ctx context.Context, arg ListInvoicesParams) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoices,
		arg.UserID,
		arg.Status,
		arg.ClientID,
		arg.DateFrom,
		arg.DateTo,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, i)
	}
	return invoices, rows.Err()
}

const countInvoices = `
SELECT count(*)
FROM invoices
WHERE user_id = $1
  AND ($2::text = '' OR status = $2)
  AND ($3::uuid IS NULL OR client_id = $3)
  AND ($4::date IS NULL OR invoice_date >= $4)
  AND ($5::date IS NULL OR invoice_date <= $5)
  AND ($6::text = '' OR invoice_number ILIKE '%' || $6 || '%' OR notes ILIKE '%' || $6 || '%')
`

type CountInvoicesParams struct {
	UserID   pgtype.UUID
	Status   string
	ClientID pgtype.UUID
	DateFrom pgtype.Date
	DateTo   pgtype.Date
	Search   string
}

func (q *Queries) CountInvoices(ctx context.Context, arg CountInvoicesParams) (int64, error) {
	row := q.db.QueryRow(ctx, countInvoices,
		arg.UserID,
		arg.Status,
		arg.ClientID,
		arg.DateFrom,
		arg.DateTo,
		arg.Search,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateInvoice = `
UPDATE invoices
SET client_id = $2,
    currency = $3,
    notes = $4,
    due_date = $5,
    subtotal = $6,
    tax_rate = $7,
    tax_amount = $8,
    discount = $9,
    discount_type = $10,
    total_amount = $11,
    balance_due = $12,
    updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns

type UpdateInvoiceParams struct {
	ID           pgtype.UUID
	ClientID     pgtype.UUID
	Currency     string
	Notes        pgtype.Text
	DueDate      pgtype.Date
	Subtotal     decimal.Decimal
	TaxRate      decimal.Decimal
	TaxAmount    decimal.Decimal
	Discount     decimal.Decimal
	DiscountType string
	TotalAmount  decimal.Decimal
	BalanceDue   decimal.Decimal
}

func (q *Queries) UpdateInvoice(ctx context.Context, arg UpdateInvoiceParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, updateInvoice,
		arg.ID,
		arg.ClientID,
		arg.Currency,
		arg.Notes,
		arg.DueDate,
		arg.Subtotal,
		arg.TaxRate,
		arg.TaxAmount,
		arg.Discount,
		arg.DiscountType,
		arg.TotalAmount,
		arg.BalanceDue,
	)
	return scanInvoice(row)
}

// updateInvoiceStatus applies a transition. Transition timestamps are
// set-once: COALESCE keeps an existing value when present.
const updateInvoiceStatus = `
UPDATE invoices
SET status = $2,
    sent_at = COALESCE(sent_at, $3),
    viewed_at = COALESCE(viewed_at, $4),
    paid_at = COALESCE(paid_at, $5),
    cancelled_at = COALESCE(cancelled_at, $6),
    updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns

type UpdateInvoiceStatusParams struct {
	ID          pgtype.UUID
	Status      string
	SentAt      pgtype.Timestamptz
	ViewedAt    pgtype.Timestamptz
	PaidAt      pgtype.Timestamptz
	CancelledAt pgtype.Timestamptz
}

func (q *Queries) UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, updateInvoiceStatus,
		arg.ID,
		arg.Status,
		arg.SentAt,
		arg.ViewedAt,
		arg.PaidAt,
		arg.CancelledAt,
	)
	return scanInvoice(row)
}

// updateInvoicePaymentState assigns the paid/balance/status triplet
// directly. Unlike updateInvoiceStatus, paid_at is written as given so a
// refund can revert it to null.
const updateInvoicePaymentState = `
UPDATE invoices
SET paid_amount = $2,
    balance_due = $3,
    status = $4,
    paid_at = $5,
    updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns

type UpdateInvoicePaymentStateParams struct {
	ID         pgtype.UUID
	PaidAmount decimal.Decimal
	BalanceDue decimal.Decimal
	Status     string
	PaidAt     pgtype.Timestamptz
}

func (q *Queries) UpdateInvoicePaymentState(ctx context.Context, arg UpdateInvoicePaymentStateParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, updateInvoicePaymentState,
		arg.ID,
		arg.PaidAmount,
		arg.BalanceDue,
		arg.Status,
		arg.PaidAt,
	)
	return scanInvoice(row)
}

const updateInvoiceShare = `
UPDATE invoices
SET share_id = $2,
    share_enabled = $3,
    updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns

type UpdateInvoiceShareParams struct {
	ID           pgtype.UUID
	ShareID      pgtype.Text
	ShareEnabled bool
}

func (q *Queries) UpdateInvoiceShare(ctx context.Context, arg UpdateInvoiceShareParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, updateInvoiceShare, arg.ID, arg.ShareID, arg.ShareEnabled)
	return scanInvoice(row)
}

const deleteInvoice = `
DELETE FROM invoices
WHERE id = $1 AND user_id = $2
`

type DeleteInvoiceParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) DeleteInvoice(ctx context.Context, arg DeleteInvoiceParams) error {
	_, err := q.db.Exec(ctx, deleteInvoice, arg.ID, arg.UserID)
	return err
}

// listOverdueInvoices finds sweep candidates across all users: invoices
// still awaiting payment whose due date has passed.
const listOverdueInvoices = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE status IN ('sent', 'viewed') AND due_date < $1
ORDER BY due_date, created_at
`

func (q *Queries) ListOverdueInvoices(ctx context.Context, asOf pgtype.Date) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listOverdueInvoices, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, i)
	}
	return invoices, rows.Err()
}

const createInvoiceItem = `
INSERT INTO invoice_items (invoice_id, description, quantity, rate, amount, position)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, invoice_id, description, quantity, rate, amount, position, created_at
`

type CreateInvoiceItemParams struct {
	InvoiceID   pgtype.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Position    int32
}

func (q *Queries) CreateInvoiceItem(ctx context.Context, arg CreateInvoiceItemParams) (InvoiceItem, error) {
	row := q.db.QueryRow(ctx, createInvoiceItem,
		arg.InvoiceID,
		arg.Description,
		arg.Quantity,
		arg.Rate,
		arg.Amount,
		arg.Position,
	)
	var it InvoiceItem
	err := row.Scan(
		&it.ID,
		&it.InvoiceID,
		&it.Description,
		&it.Quantity,
		&it.Rate,
		&it.Amount,
		&it.Position,
		&it.CreatedAt,
	)
	return it, err
}

const getInvoiceItems = `
SELECT id, invoice_id, description, quantity, rate, amount, position, created_at
FROM invoice_items
WHERE invoice_id = $1
ORDER BY position
`

func (q *Queries) GetInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceItem, error) {
	rows, err := q.db.Query(ctx, getInvoiceItems, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(
			&it.ID,
			&it.InvoiceID,
			&it.Description,
			&it.Quantity,
			&it.Rate,
			&it.Amount,
			&it.Position,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const deleteInvoiceItems = `
DELETE FROM invoice_items
WHERE invoice_id = $1
`

func (q *Queries) DeleteInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteInvoiceItems, invoiceID)
	return err
}
