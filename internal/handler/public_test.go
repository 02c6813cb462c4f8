package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

type fakePaymentService struct {
	domain.PaymentService

	processFn func(ctx context.Context, params domain.ProcessPaymentParams) (*domain.PaymentResult, error)
}

func (f *fakePaymentService) ProcessPayment(ctx context.Context, params domain.ProcessPaymentParams) (*domain.PaymentResult, error) {
	return f.processFn(ctx, params)
}

func TestPublicHandler_SharedInvoice_HidesPrivateData(t *testing.T) {
	detail := testDetail()
	detail.Payments = []repository.Payment{{Amount: detail.Invoice.TotalAmount}}
	detail.History = []repository.InvoiceHistory{{Action: "created"}}

	svc := &fakeInvoiceService{
		sharedFn: func(ctx context.Context, shareID string) (*domain.InvoiceDetail, error) {
			if shareID != "tok123" {
				t.Errorf("shareID = %q, want tok123", shareID)
			}
			return detail, nil
		},
	}
	h := NewPublicHandler(svc, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/i/tok123", nil)
	req.SetPathValue("shareId", "tok123")
	rec := httptest.NewRecorder()

	h.SharedInvoice(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := got["payments"]; ok {
		t.Error("shared view must not expose payments")
	}
	if _, ok := got["history"]; ok {
		t.Error("shared view must not expose history")
	}
	if _, ok := got["invoice_number"]; !ok {
		t.Error("shared view missing invoice_number")
	}
}

func TestPublicHandler_PayShared_DefaultsToBalance(t *testing.T) {
	detail := testDetail()
	payments := &fakePaymentService{
		processFn: func(ctx context.Context, params domain.ProcessPaymentParams) (*domain.PaymentResult, error) {
			if !params.Amount.Equal(detail.Invoice.BalanceDue) {
				t.Errorf("amount = %s, want %s", params.Amount, detail.Invoice.BalanceDue)
			}
			if params.CardToken != "tok_visa" {
				t.Errorf("card_token = %q, want tok_visa", params.CardToken)
			}
			return &domain.PaymentResult{
				Payment: repository.Payment{
					InvoiceID:     detail.Invoice.ID,
					Amount:        params.Amount,
					NetAmount:     params.Amount,
					Status:        "completed",
					PaymentMethod: "card",
				},
				Invoice: detail.Invoice,
			}, nil
		},
	}
	svc := &fakeInvoiceService{
		sharedFn: func(ctx context.Context, shareID string) (*domain.InvoiceDetail, error) {
			return detail, nil
		},
	}
	h := NewPublicHandler(svc, payments, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/i/tok123/pay",
		strings.NewReader(`{"card_token": "tok_visa"}`))
	req.SetPathValue("shareId", "tok123")
	rec := httptest.NewRecorder()

	h.PayShared(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestPublicHandler_PayShared_NoGateway(t *testing.T) {
	h := NewPublicHandler(&fakeInvoiceService{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/i/tok123/pay",
		strings.NewReader(`{"card_token": "tok_visa"}`))
	req.SetPathValue("shareId", "tok123")
	rec := httptest.NewRecorder()

	h.PayShared(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPublicHandler_Healthz(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
}
