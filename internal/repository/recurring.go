package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const recurringColumns = `id, user_id, client_id, frequency, "interval", start_date, end_date,
       max_occurrences, occurrences_count, next_run_at, last_run_at,
       status, auto_send, due_in_days, currency, tax_rate, discount,
       discount_type, notes, created_at, updated_at`

func scanRecurringInvoice(row pgx.Row) (RecurringInvoice, error) {
	var r RecurringInvoice
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.ClientID,
		&r.Frequency,
		&r.Interval,
		&r.StartDate,
		&r.EndDate,
		&r.MaxOccurrences,
		&r.OccurrencesCount,
		&r.NextRunAt,
		&r.LastRunAt,
		&r.Status,
		&r.AutoSend,
		&r.DueInDays,
		&r.Currency,
		&r.TaxRate,
		&r.Discount,
		&r.DiscountType,
		&r.Notes,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

const createRecurringInvoice = `
INSERT INTO recurring_invoices (
    user_id, client_id, frequency, "interval", start_date, end_date,
    max_occurrences, next_run_at, status, auto_send, due_in_days,
    currency, tax_rate, discount, discount_type, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + recurringColumns

type CreateRecurringInvoiceParams struct {
	UserID         pgtype.UUID
	ClientID       pgtype.UUID
	Frequency      string
	Interval       int32
	StartDate      pgtype.Date
	EndDate        pgtype.Date
	MaxOccurrences pgtype.Int4
	NextRunAt      pgtype.Timestamptz
	Status         string
	AutoSend       bool
	DueInDays      pgtype.Int4
	Currency       string
	TaxRate        decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   string
	Notes          pgtype.Text
}

func (q *Queries) CreateRecurringInvoice(ctx context.Context, arg CreateRecurringInvoiceParams) (RecurringInvoice, error) {
	row := q.db.QueryRow(ctx, createRecurringInvoice,
		arg.UserID,
		arg.ClientID,
		arg.Frequency,
		arg.Interval,
		arg.StartDate,
		arg.EndDate,
		arg.MaxOccurrences,
		arg.NextRunAt,
		arg.Status,
		arg.AutoSend,
		arg.DueInDays,
		arg.Currency,
		arg.TaxRate,
		arg.Discount,
		arg.DiscountType,
		arg.Notes,
	)
	return scanRecurringInvoice(row)
}

const getRecurringInvoice = `
SELECT ` + recurringColumns + `
FROM recurring_invoices
WHERE id = $1 AND user_id = $2
`

type GetRecurringInvoiceParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetRecurringInvoice(ctx context.Context, arg GetRecurringInvoiceParams) (RecurringInvoice, error) {
	return scanRecurringInvoice(q.db.QueryRow(ctx, getRecurringInvoice, arg.ID, arg.UserID))
}

// getRecurringInvoiceForUpdate locks the template row so concurrent
// generation runs cannot both advance the same schedule.
const getRecurringInvoiceForUpdate = `
SELECT ` + recurringColumns + `
FROM recurring_invoices
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetRecurringInvoiceForUpdate(ctx context.Context, id pgtype.UUID) (RecurringInvoice, error) {
	return scanRecurringInvoice(q.db.QueryRow(ctx, getRecurringInvoiceForUpdate, id))
}

const listRecurringInvoices = `
SELECT ` + recurringColumns + `
FROM recurring_invoices
WHERE user_id = $1
  AND ($2::text = '' OR status = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`

type ListRecurringInvoicesParams struct {
	UserID pgtype.UUID
	Status string
	Limit  int32
	Offset int32
}

func (q *Queries) ListRecurringInvoices(ctx context.Context, arg ListRecurringInvoicesParams) ([]RecurringInvoice, error) {
	rows, err := q.db.Query(ctx, listRecurringInvoices, arg.UserID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []RecurringInvoice
	for rows.Next() {
		r, err := scanRecurringInvoice(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, r)
	}
	return templates, rows.Err()
}

const updateRecurringInvoice = `
UPDATE recurring_invoices
SET client_id = $2,
    frequency = $3,
    "interval" = $4,
    end_date = $5,
    max_occurrences = $6,
    next_run_at = $7,
    auto_send = $8,
    due_in_days = $9,
    currency = $10,
    tax_rate = $11,
    discount = $12,
    discount_type = $13,
    notes = $14,
    updated_at = now()
WHERE id = $1
RETURNING ` + recurringColumns

type UpdateRecurringInvoiceParams struct {
	ID             pgtype.UUID
	ClientID       pgtype.UUID
	Frequency      string
	Interval       int32
	EndDate        pgtype.Date
	MaxOccurrences pgtype.Int4
	NextRunAt      pgtype.Timestamptz
	AutoSend       bool
	DueInDays      pgtype.Int4
	Currency       string
	TaxRate        decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   string
	Notes          pgtype.Text
}

func (q *Queries) UpdateRecurringInvoice(ctx context.Context, arg UpdateRecurringInvoiceParams) (RecurringInvoice, error) {
	row := q.db.QueryRow(ctx, updateRecurringInvoice,
		arg.ID,
		arg.ClientID,
		arg.Frequency,
		arg.Interval,
		arg.EndDate,
		arg.MaxOccurrences,
		arg.NextRunAt,
		arg.AutoSend,
		arg.DueInDays,
		arg.Currency,
		arg.TaxRate,
		arg.Discount,
		arg.DiscountType,
		arg.Notes,
	)
	return scanRecurringInvoice(row)
}

const updateRecurringStatus = `
UPDATE recurring_invoices
SET status = $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + recurringColumns

type UpdateRecurringStatusParams struct {
	ID     pgtype.UUID
	Status string
}

func (q *Queries) UpdateRecurringStatus(ctx context.Context, arg UpdateRecurringStatusParams) (RecurringInvoice, error) {
	return scanRecurringInvoice(q.db.QueryRow(ctx, updateRecurringStatus, arg.ID, arg.Status))
}

// advanceRecurringSchedule records a generation run: bumps the occurrence
// count, stamps last_run_at, and moves (or clears) next_run_at.
const advanceRecurringSchedule = `
UPDATE recurring_invoices
SET occurrences_count = occurrences_count + 1,
    last_run_at = $2,
    next_run_at = $3,
    status = $4,
    updated_at = now()
WHERE id = $1
RETURNING ` + recurringColumns

type AdvanceRecurringScheduleParams struct {
	ID        pgtype.UUID
	LastRunAt pgtype.Timestamptz
	NextRunAt pgtype.Timestamptz
	Status    string
}

func (q *Queries) AdvanceRecurringSchedule(ctx context.Context, arg AdvanceRecurringScheduleParams) (RecurringInvoice, error) {
	row := q.db.QueryRow(ctx, advanceRecurringSchedule, arg.ID, arg.LastRunAt, arg.NextRunAt, arg.Status)
	return scanRecurringInvoice(row)
}

const deleteRecurringInvoice = `
DELETE FROM recurring_invoices
WHERE id = $1 AND user_id = $2
`

type DeleteRecurringInvoiceParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) DeleteRecurringInvoice(ctx context.Context, arg DeleteRecurringInvoiceParams) error {
	_, err := q.db.Exec(ctx, deleteRecurringInvoice, arg.ID, arg.UserID)
	return err
}

const listDueRecurringInvoices = `
SELECT ` + recurringColumns + `
FROM recurring_invoices
WHERE status = 'active'
  AND next_run_at IS NOT NULL
  AND next_run_at <= $1
ORDER BY next_run_at
LIMIT $2
`

type ListDueRecurringInvoicesParams struct {
	AsOf  pgtype.Timestamptz
	Limit int32
}

func (q *Queries) ListDueRecurringInvoices(ctx context.Context, arg ListDueRecurringInvoicesParams) ([]RecurringInvoice, error) {
	rows, err := q.db.Query(ctx, listDueRecurringInvoices, arg.AsOf, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []RecurringInvoice
	for rows.Next() {
		r, err := scanRecurringInvoice(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, r)
	}
	return templates, rows.Err()
}

const createRecurringInvoiceItem = `
INSERT INTO recurring_invoice_items (recurring_invoice_id, description, quantity, rate, position)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, recurring_invoice_id, description, quantity, rate, position, created_at
`

type CreateRecurringInvoiceItemParams struct {
	RecurringInvoiceID pgtype.UUID
	Description        string
	Quantity           decimal.Decimal
	Rate               decimal.Decimal
	Position           int32
}

func (q *Queries) CreateRecurringInvoiceItem(ctx context.Context, arg CreateRecurringInvoiceItemParams) (RecurringInvoiceItem, error) {
	row := q.db.QueryRow(ctx, createRecurringInvoiceItem,
		arg.RecurringInvoiceID,
		arg.Description,
		arg.Quantity,
		arg.Rate,
		arg.Position,
	)
	var it RecurringInvoiceItem
	err := row.Scan(
		&it.ID,
		&it.RecurringInvoiceID,
		&it.Description,
		&it.Quantity,
		&it.Rate,
		&it.Position,
		&it.CreatedAt,
	)
	return it, err
}

const getRecurringInvoiceItems = `
SELECT id, recurring_invoice_id, description, quantity, rate, position, created_at
FROM recurring_invoice_items
WHERE recurring_invoice_id = $1
ORDER BY position
`

func (q *Queries) GetRecurringInvoiceItems(ctx context.Context, recurringInvoiceID pgtype.UUID) ([]RecurringInvoiceItem, error) {
	rows, err := q.db.Query(ctx, getRecurringInvoiceItems, recurringInvoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RecurringInvoiceItem
	for rows.Next() {
		var it RecurringInvoiceItem
		if err := rows.Scan(
			&it.ID,
			&it.RecurringInvoiceID,
			&it.Description,
			&it.Quantity,
			&it.Rate,
			&it.Position,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const deleteRecurringInvoiceItems = `
DELETE FROM recurring_invoice_items
WHERE recurring_invoice_id = $1
`

func (q *Queries) DeleteRecurringInvoiceItems(ctx context.Context, recurringInvoiceID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteRecurringInvoiceItems, recurringInvoiceID)
	return err
}
