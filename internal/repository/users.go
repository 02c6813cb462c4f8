package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getUserByID = `
SELECT id, email, name, subscription_plan, invoice_limit, invoice_prefix,
       invoice_start_number, payment_terms_days, notify_payments,
       notify_reminders, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.SubscriptionPlan,
		&u.InvoiceLimit,
		&u.InvoicePrefix,
		&u.InvoiceStartNumber,
		&u.PaymentTermsDays,
		&u.NotifyPayments,
		&u.NotifyReminders,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// nextInvoiceNumber allocates the next sequence value for a user in a
// single atomic statement. Two concurrent creations can never observe the
// same value: the row lock taken by UPDATE serializes them.
const nextInvoiceNumber = `
UPDATE users
SET invoice_start_number = invoice_start_number + 1,
    updated_at = now()
WHERE id = $1
RETURNING invoice_prefix, invoice_start_number - 1
`

type NextInvoiceNumberRow struct {
	InvoicePrefix string
	Sequence      int64
}

func (q *Queries) NextInvoiceNumber(ctx context.Context, userID pgtype.UUID) (NextInvoiceNumberRow, error) {
	row := q.db.QueryRow(ctx, nextInvoiceNumber, userID)
	var r NextInvoiceNumberRow
	err := row.Scan(&r.InvoicePrefix, &r.Sequence)
	return r, err
}

const countActiveInvoices = `
SELECT count(*)
FROM invoices
WHERE user_id = $1 AND status <> 'cancelled'
`

// CountActiveInvoices counts a user's non-cancelled invoices for the plan
// quota check.
func (q *Queries) CountActiveInvoices(ctx context.Context, userID pgtype.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countActiveInvoices, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getClient = `
SELECT id, user_id, name, email, company, address, created_at, updated_at
FROM clients
WHERE id = $1 AND user_id = $2
`

type GetClientParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetClient(ctx context.Context, arg GetClientParams) (Client, error) {
	row := q.db.QueryRow(ctx, getClient, arg.ID, arg.UserID)
	var c Client
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Email,
		&c.Company,
		&c.Address,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
