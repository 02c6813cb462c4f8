package gateway

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestMapStripeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "card declined code",
			err:  &stripe.Error{Code: stripe.ErrorCodeCardDeclined, Msg: "declined"},
			want: ErrCardDeclined,
		},
		{
			name: "card error type",
			err:  &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "bad card"},
			want: ErrCardDeclined,
		},
		{
			name: "amount too small",
			err:  &stripe.Error{Code: stripe.ErrorCodeAmountTooSmall},
			want: ErrAmountTooSmall,
		},
		{
			name: "missing charge",
			err:  &stripe.Error{Code: stripe.ErrorCodeResourceMissing},
			want: ErrChargeNotFound,
		},
		{
			name: "rejected API key",
			err:  &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusUnauthorized},
			want: ErrInvalidAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapStripeError(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("non-stripe error passes through", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Equal(t, plain, mapStripeError(plain))
	})
}
