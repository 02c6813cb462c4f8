package gateway

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAPIKey is returned when the provider API key is invalid or missing.
	ErrInvalidAPIKey = errors.New("gateway: invalid or missing API key")

	// ErrCardDeclined is returned when the card issuer declines the charge.
	ErrCardDeclined = errors.New("gateway: card declined")

	// ErrChargeNotFound is returned when the referenced charge does not exist.
	ErrChargeNotFound = errors.New("gateway: charge not found")

	// ErrAmountTooSmall is returned when the amount is below the provider minimum.
	ErrAmountTooSmall = errors.New("gateway: amount too small (minimum $0.50 USD)")
)

// Provider defines the interface for charging cards and issuing refunds.
// Implementations can use Stripe, Square, Braintree, etc.
type Provider interface {
	// Charge attempts to capture a payment immediately.
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)

	// Refund returns funds from a previously captured charge.
	Refund(ctx context.Context, params RefundParams) (*RefundResult, error)
}

// ChargeParams contains parameters for a one-time card charge.
type ChargeParams struct {
	AmountCents int64
	Currency    string
	CardToken   string
	Description string
	Metadata    map[string]string
}

// ChargeResult is the provider's record of a captured charge.
type ChargeResult struct {
	TransactionID string
	Status        string
}

// RefundParams contains parameters for refunding a charge.
type RefundParams struct {
	TransactionID string
	AmountCents   int64 // 0 refunds the full remaining amount
	Reason        string
}

// RefundResult is the provider's record of an issued refund.
type RefundResult struct {
	RefundID string
	Status   string
}
