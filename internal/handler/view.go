package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

// View types shape API responses. Repository rows carry pgtype wrappers
// that make poor JSON, so every response passes through one of these.

type invoiceView struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountType  string          `json:"discount_type"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Currency      string          `json:"currency"`
	Notes         *string         `json:"notes,omitempty"`
	InvoiceDate   *string         `json:"invoice_date,omitempty"`
	DueDate       *string         `json:"due_date,omitempty"`
	SentAt        *time.Time      `json:"sent_at,omitempty"`
	ViewedAt      *time.Time      `json:"viewed_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	ShareID       *string         `json:"share_id,omitempty"`
	ShareEnabled  bool            `json:"share_enabled"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []itemView      `json:"items,omitempty"`
	Payments      []paymentView   `json:"payments,omitempty"`
	History       []historyView   `json:"history,omitempty"`
}

type itemView struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int32           `json:"position"`
}

type paymentView struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	RefundOfID    *string         `json:"refund_of_id,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type historyView struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorID     *string   `json:"actor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type templateView struct {
	ID               string          `json:"id"`
	ClientID         string          `json:"client_id"`
	Frequency        string          `json:"frequency"`
	Interval         int32           `json:"interval"`
	StartDate        *string         `json:"start_date,omitempty"`
	EndDate          *string         `json:"end_date,omitempty"`
	MaxOccurrences   *int32          `json:"max_occurrences,omitempty"`
	OccurrencesCount int32           `json:"occurrences_count"`
	NextRunAt        *time.Time      `json:"next_run_at,omitempty"`
	LastRunAt        *time.Time      `json:"last_run_at,omitempty"`
	Status           string          `json:"status"`
	AutoSend         bool            `json:"auto_send"`
	DueInDays        *int32          `json:"due_in_days,omitempty"`
	Currency         string          `json:"currency"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountType     string          `json:"discount_type"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Items            []itemView      `json:"items,omitempty"`
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

func uuidPtr(id pgtype.UUID) *string {
	if !id.Valid {
		return nil
	}
	s := uuid.UUID(id.Bytes).String()
	return &s
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func datePtr(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format("2006-01-02")
	return &s
}

func int4Ptr(i pgtype.Int4) *int32 {
	if !i.Valid {
		return nil
	}
	return &i.Int32
}

func toInvoiceView(inv repository.Invoice) invoiceView {
	return invoiceView{
		ID:            uuidString(inv.ID),
		ClientID:      uuidString(inv.ClientID),
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Discount:      inv.Discount,
		DiscountType:  inv.DiscountType,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		BalanceDue:    inv.BalanceDue,
		Currency:      inv.Currency,
		Notes:         textPtr(inv.Notes),
		InvoiceDate:   datePtr(inv.InvoiceDate),
		DueDate:       datePtr(inv.DueDate),
		SentAt:        timePtr(inv.SentAt),
		ViewedAt:      timePtr(inv.ViewedAt),
		PaidAt:        timePtr(inv.PaidAt),
		CancelledAt:   timePtr(inv.CancelledAt),
		ShareID:       textPtr(inv.ShareID),
		ShareEnabled:  inv.ShareEnabled,
		CreatedAt:     inv.CreatedAt.Time,
		UpdatedAt:     inv.UpdatedAt.Time,
	}
}

func toDetailView(detail *domain.InvoiceDetail) invoiceView {
	v := toInvoiceView(detail.Invoice)
	v.Items = make([]itemView, 0, len(detail.Items))
	for _, it := range detail.Items {
		v.Items = append(v.Items, itemView{
			ID:          uuidString(it.ID),
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
			Position:    it.Position,
		})
	}
	for _, p := range detail.Payments {
		v.Payments = append(v.Payments, toPaymentView(p))
	}
	for _, h := range detail.History {
		v.History = append(v.History, toHistoryView(h))
	}
	return v
}

func toPaymentView(p repository.Payment) paymentView {
	return paymentView{
		ID:            uuidString(p.ID),
		InvoiceID:     uuidString(p.InvoiceID),
		Amount:        p.Amount,
		NetAmount:     p.NetAmount,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: textPtr(p.TransactionID),
		RefundOfID:    uuidPtr(p.RefundOfID),
		PaymentDate:   timePtr(p.PaymentDate),
		Notes:         textPtr(p.Notes),
		CreatedAt:     p.CreatedAt.Time,
	}
}

func toHistoryView(h repository.InvoiceHistory) historyView {
	return historyView{
		ID:          uuidString(h.ID),
		Action:      h.Action,
		Description: h.Description,
		ActorID:     uuidPtr(h.ActorID),
		CreatedAt:   h.CreatedAt.Time,
	}
}

func toTemplateView(t repository.RecurringInvoice) templateView {
	return templateView{
		ID:               uuidString(t.ID),
		ClientID:         uuidString(t.ClientID),
		Frequency:        t.Frequency,
		Interval:         t.Interval,
		StartDate:        datePtr(t.StartDate),
		EndDate:          datePtr(t.EndDate),
		MaxOccurrences:   int4Ptr(t.MaxOccurrences),
		OccurrencesCount: t.OccurrencesCount,
		NextRunAt:        timePtr(t.NextRunAt),
		LastRunAt:        timePtr(t.LastRunAt),
		Status:           t.Status,
		AutoSend:         t.AutoSend,
		DueInDays:        int4Ptr(t.DueInDays),
		Currency:         t.Currency,
		TaxRate:          t.TaxRate,
		Discount:         t.Discount,
		DiscountType:     t.DiscountType,
		Notes:            textPtr(t.Notes),
		CreatedAt:        t.CreatedAt.Time,
	}
}

func toTemplateDetailView(detail *domain.TemplateDetail) templateView {
	v := toTemplateView(detail.Template)
	v.Items = make([]itemView, 0, len(detail.Items))
	for _, it := range detail.Items {
		v.Items = append(v.Items, itemView{
			ID:          uuidString(it.ID),
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Position:    it.Position,
		})
	}
	return v
}
