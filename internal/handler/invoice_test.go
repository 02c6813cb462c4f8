package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

// fakeInvoiceService overrides only the methods a test exercises; calling
// anything else panics through the embedded nil interface.
type fakeInvoiceService struct {
	domain.InvoiceService

	createFn func(ctx context.Context, params domain.CreateInvoiceParams) (*domain.InvoiceDetail, error)
	getFn    func(ctx context.Context, userID, invoiceID string) (*domain.InvoiceDetail, error)
	sharedFn func(ctx context.Context, shareID string) (*domain.InvoiceDetail, error)
}

func (f *fakeInvoiceService) CreateInvoice(ctx context.Context, params domain.CreateInvoiceParams) (*domain.InvoiceDetail, error) {
	return f.createFn(ctx, params)
}

func (f *fakeInvoiceService) GetInvoice(ctx context.Context, userID, invoiceID string) (*domain.InvoiceDetail, error) {
	return f.getFn(ctx, userID, invoiceID)
}

func (f *fakeInvoiceService) GetSharedInvoice(ctx context.Context, shareID string) (*domain.InvoiceDetail, error) {
	return f.sharedFn(ctx, shareID)
}

func testDetail() *domain.InvoiceDetail {
	var id, clientID pgtype.UUID
	_ = id.Scan(uuid.NewString())
	_ = clientID.Scan(uuid.NewString())

	return &domain.InvoiceDetail{
		Invoice: repository.Invoice{
			ID:            id,
			ClientID:      clientID,
			InvoiceNumber: "INV-00042",
			Status:        "draft",
			Subtotal:      decimal.RequireFromString("100.00"),
			TotalAmount:   decimal.RequireFromString("110.00"),
			BalanceDue:    decimal.RequireFromString("110.00"),
			Currency:      "USD",
			InvoiceDate:   pgtype.Date{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true},
			CreatedAt:     pgtype.Timestamptz{Time: time.Now(), Valid: true},
			UpdatedAt:     pgtype.Timestamptz{Time: time.Now(), Valid: true},
		},
		Items: []repository.InvoiceItem{
			{
				ID:          id,
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(4),
				Rate:        decimal.RequireFromString("25.00"),
				Amount:      decimal.RequireFromString("100.00"),
				Position:    0,
			},
		},
	}
}

func TestInvoiceHandler_Create(t *testing.T) {
	svc := &fakeInvoiceService{
		createFn: func(ctx context.Context, params domain.CreateInvoiceParams) (*domain.InvoiceDetail, error) {
			if len(params.Items) != 1 {
				t.Errorf("items = %d, want 1", len(params.Items))
			}
			return testDetail(), nil
		},
	}
	h := NewInvoiceHandler(svc, nil)

	body := `{
		"client_id": "` + uuid.NewString() + `",
		"items": [{"description": "Consulting", "quantity": "4", "rate": "25.00"}],
		"invoice_date": "2026-03-01",
		"due_date": "2026-03-31"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var got invoiceView
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.InvoiceNumber != "INV-00042" {
		t.Errorf("invoice_number = %q, want INV-00042", got.InvoiceNumber)
	}
	if len(got.Items) != 1 {
		t.Errorf("items = %d, want 1", len(got.Items))
	}
}

func TestInvoiceHandler_Create_Validation(t *testing.T) {
	h := NewInvoiceHandler(&fakeInvoiceService{}, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing client id",
			body:  `{"items": [{"description": "x", "quantity": "1", "rate": "1"}]}`,
			field: "client_id",
		},
		{
			name:  "no items",
			body:  `{"client_id": "` + uuid.NewString() + `", "items": []}`,
			field: "items",
		},
		{
			name:  "item without description",
			body:  `{"client_id": "` + uuid.NewString() + `", "items": [{"quantity": "1", "rate": "1"}]}`,
			field: "items[0].description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var response errorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if _, ok := response.Error.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want key %q", response.Error.Fields, tt.field)
			}
		})
	}
}

func TestInvoiceHandler_Get_NotFound(t *testing.T) {
	svc := &fakeInvoiceService{
		getFn: func(ctx context.Context, userID, invoiceID string) (*domain.InvoiceDetail, error) {
			return nil, domain.ErrInvoiceNotFound
		},
	}
	h := NewInvoiceHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+uuid.NewString(), nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
