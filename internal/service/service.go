package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

// parseID parses a string UUID into pgtype.UUID, returning a validation
// error naming the offending field.
func parseID(field, s string) (pgtype.UUID, error) {
	var id pgtype.UUID
	if err := id.Scan(s); err != nil {
		return pgtype.UUID{}, &domain.Error{
			Code:    domain.EINVALID,
			Message: fmt.Sprintf("Invalid %s", field),
			Err:     err,
		}
	}
	return id, nil
}

// mapNotFound converts a row-not-found error into the given domain error
// and wraps anything else as internal.
func mapNotFound(err error, op string, notFoundErr error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	return domain.WrapError(err, domain.EINTERNAL, op, "Database error")
}

// sumItems totals the line item amounts. Each amount rounds to 2 decimal
// places before summing so the stored item amounts add up exactly.
func sumItems(items []domain.InvoiceItemInput) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.Rate).Round(2))
	}
	return subtotal
}

// deriveTotals computes discount, tax, and total from a subtotal. The
// discount is clamped to the subtotal and tax applies after discount.
func deriveTotals(subtotal, taxRate, discount decimal.Decimal, discountType domain.DiscountType) (discountAmount, taxAmount, total decimal.Decimal) {
	switch discountType {
	case domain.DiscountPercentage:
		discountAmount = subtotal.Mul(discount).Div(decimal.NewFromInt(100)).Round(2)
	default:
		discountAmount = discount.Round(2)
	}
	if discountAmount.GreaterThan(subtotal) {
		discountAmount = subtotal
	}

	taxable := subtotal.Sub(discountAmount)
	taxAmount = taxable.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total = taxable.Add(taxAmount)
	return discountAmount, taxAmount, total
}

// validateItems checks that at least one line item is present and every
// item is well formed.
func validateItems(items []domain.InvoiceItemInput) error {
	if len(items) == 0 {
		return domain.ErrNoInvoiceItems
	}
	fields := map[string]string{}
	for i, item := range items {
		if item.Description == "" {
			fields[fmt.Sprintf("items[%d].description", i)] = "description is required"
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be positive"
		}
		if item.Rate.IsNegative() {
			fields[fmt.Sprintf("items[%d].rate", i)] = "rate cannot be negative"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Op: "invoice.items", Fields: fields}
	}
	return nil
}

// generateShareID generates a cryptographically secure share token.
func generateShareID() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// formatInvoiceNumber renders an allocated sequence value as a
// user-visible invoice number, e.g. INV-00042.
func formatInvoiceNumber(prefix string, seq int64) string {
	if prefix == "" {
		prefix = "INV"
	}
	return fmt.Sprintf("%s-%05d", prefix, seq)
}

// checkInvoiceQuota enforces the subscription plan's cap on non-cancelled
// invoices. Call inside the creation transaction so two concurrent
// creations cannot both pass at the boundary.
func checkInvoiceQuota(ctx context.Context, q repository.Querier, user repository.User) error {
	plan := domain.SubscriptionPlan(user.SubscriptionPlan)
	if plan == domain.PlanEnterprise {
		return nil
	}

	limit := user.InvoiceLimit
	if limit <= 0 {
		limit = plan.InvoiceLimit()
	}
	if limit <= 0 {
		return nil
	}

	count, err := q.CountActiveInvoices(ctx, user.ID)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "invoice.quota", "Failed to count invoices")
	}
	if count >= int64(limit) {
		return domain.ErrInvoiceQuotaExceeded
	}
	return nil
}

func dateOf(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func tsOf(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textOf(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// displayName prefers the user's name and falls back to their email.
func displayName(user repository.User) string {
	if user.Name.Valid && user.Name.String != "" {
		return user.Name.String
	}
	return user.Email
}
