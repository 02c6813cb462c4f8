package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MockProvider is a mock payment provider for testing.
// Simulates successful charge and refund flows without calling a real API.
type MockProvider struct {
	// ChargeFunc allows customizing charge behavior
	ChargeFunc func(ctx context.Context, params ChargeParams) (*ChargeResult, error)

	// RefundFunc allows customizing refund behavior
	RefundFunc func(ctx context.Context, params RefundParams) (*RefundResult, error)

	// Charges stores captured charges by transaction ID
	Charges map[string]ChargeParams

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Charges: make(map[string]ChargeParams),
		CallLog: []string{},
	}
}

// Charge captures a mock charge.
func (m *MockProvider) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Charge(%d, %s)", params.AmountCents, params.Currency))

	if m.ChargeFunc != nil {
		return m.ChargeFunc(ctx, params)
	}

	id := "pi_" + uuid.New().String()
	m.Charges[id] = params
	return &ChargeResult{TransactionID: id, Status: "succeeded"}, nil
}

// Refund issues a mock refund.
func (m *MockProvider) Refund(ctx context.Context, params RefundParams) (*RefundResult, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Refund(%s, %d)", params.TransactionID, params.AmountCents))

	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, params)
	}

	if _, ok := m.Charges[params.TransactionID]; !ok {
		return nil, ErrChargeNotFound
	}
	return &RefundResult{RefundID: "re_" + uuid.New().String(), Status: "succeeded"}, nil
}
