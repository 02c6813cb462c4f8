package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

// StripeProvider implements Provider using Stripe Payment Intents.
type StripeProvider struct {
	apiKey string
}

// NewStripeProvider creates a new Stripe payment provider.
func NewStripeProvider(apiKey string) (*StripeProvider, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	stripe.Key = apiKey
	return &StripeProvider{apiKey: apiKey}, nil
}

// Charge creates and confirms a payment intent in one call.
func (s *StripeProvider) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	piParams := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:  ctx,
			Metadata: params.Metadata,
		},
		Amount:        stripe.Int64(params.AmountCents),
		Currency:      stripe.String(params.Currency),
		PaymentMethod: stripe.String(params.CardToken),
		Description:   stripe.String(params.Description),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}

	pi, err := paymentintent.New(piParams)
	if err != nil {
		return nil, mapStripeError(err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent status %s", ErrCardDeclined, pi.Status)
	}

	return &ChargeResult{
		TransactionID: pi.ID,
		Status:        string(pi.Status),
	}, nil
}

// Refund issues a refund against a payment intent.
func (s *StripeProvider) Refund(ctx context.Context, params RefundParams) (*RefundResult, error) {
	refParams := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(params.TransactionID),
	}
	if params.AmountCents > 0 {
		refParams.Amount = stripe.Int64(params.AmountCents)
	}
	if params.Reason != "" {
		refParams.Reason = stripe.String(params.Reason)
	}

	ref, err := refund.New(refParams)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return &RefundResult{
		RefundID: ref.ID,
		Status:   string(ref.Status),
	}, nil
}

// mapStripeError translates Stripe SDK errors into gateway errors while
// preserving the original for logging.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return err
	}

	switch stripeErr.Code {
	case stripe.ErrorCodeCardDeclined, stripe.ErrorCodeExpiredCard, stripe.ErrorCodeIncorrectCVC:
		return fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Msg)
	case stripe.ErrorCodeAmountTooSmall:
		return ErrAmountTooSmall
	case stripe.ErrorCodeResourceMissing:
		return ErrChargeNotFound
	}

	if stripeErr.Type == stripe.ErrorTypeCard {
		return fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Msg)
	}
	// The SDK has no authentication error type; a rejected key surfaces
	// as a plain 401.
	if stripeErr.HTTPStatusCode == http.StatusUnauthorized {
		return ErrInvalidAPIKey
	}

	return err
}
