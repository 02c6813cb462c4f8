package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createInvoiceHistory = `
INSERT INTO invoice_history (invoice_id, action, description, actor_id)
VALUES ($1, $2, $3, $4)
RETURNING id, invoice_id, action, description, actor_id, created_at
`

type CreateInvoiceHistoryParams struct {
	InvoiceID   pgtype.UUID
	Action      string
	Description string
	ActorID     pgtype.UUID
}

func (q *Queries) CreateInvoiceHistory(ctx context.Context, arg CreateInvoiceHistoryParams) (InvoiceHistory, error) {
	row := q.db.QueryRow(ctx, createInvoiceHistory,
		arg.InvoiceID,
		arg.Action,
		arg.Description,
		arg.ActorID,
	)
	var h InvoiceHistory
	err := row.Scan(
		&h.ID,
		&h.InvoiceID,
		&h.Action,
		&h.Description,
		&h.ActorID,
		&h.CreatedAt,
	)
	return h, err
}

const getInvoiceHistory = `
SELECT id, invoice_id, action, description, actor_id, created_at
FROM invoice_history
WHERE invoice_id = $1
ORDER BY created_at DESC, id DESC
`

func (q *Queries) GetInvoiceHistory(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceHistory, error) {
	rows, err := q.db.Query(ctx, getInvoiceHistory, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []InvoiceHistory
	for rows.Next() {
		var h InvoiceHistory
		if err := rows.Scan(
			&h.ID,
			&h.InvoiceID,
			&h.Action,
			&h.Description,
			&h.ActorID,
			&h.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
