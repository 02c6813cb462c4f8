package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

// mockStore satisfies repository.Store by running transaction closures
// directly against the mock querier.
type mockStore struct {
	*repository.MockQuerier
}

func newMockStore(ctrl *gomock.Controller) *mockStore {
	return &mockStore{MockQuerier: repository.NewMockQuerier(ctrl)}
}

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	return fn(m.MockQuerier)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Helper functions for creating test data
func createTestID() pgtype.UUID {
	id := pgtype.UUID{}
	_ = id.Scan(uuid.New().String())
	return id
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func createTestUser(id pgtype.UUID, plan string) repository.User {
	return repository.User{
		ID:               id,
		Email:            "owner@example.com",
		Name:             pgtype.Text{String: "Test Owner", Valid: true},
		SubscriptionPlan: plan,
		InvoicePrefix:    "INV",
		PaymentTermsDays: 30,
		NotifyPayments:   true,
		NotifyReminders:  true,
	}
}

func createTestClient(id, userID pgtype.UUID) repository.Client {
	return repository.Client{
		ID:     id,
		UserID: userID,
		Name:   "Acme Co",
		Email:  pgtype.Text{String: "billing@acme.example", Valid: true},
	}
}

func Test_DeriveTotals(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     string
		taxRate      string
		discount     string
		discountType domain.DiscountType
		wantDiscount string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "no tax no discount",
			subtotal:     "100.00",
			taxRate:      "0",
			discount:     "0",
			discountType: domain.DiscountFixed,
			wantDiscount: "0.00",
			wantTax:      "0.00",
			wantTotal:    "100.00",
		},
		{
			name:         "fixed discount then tax",
			subtotal:     "200.00",
			taxRate:      "10",
			discount:     "50",
			discountType: domain.DiscountFixed,
			wantDiscount: "50.00",
			wantTax:      "15.00",
			wantTotal:    "165.00",
		},
		{
			name:         "percentage discount",
			subtotal:     "150.00",
			taxRate:      "8.25",
			discount:     "10",
			discountType: domain.DiscountPercentage,
			wantDiscount: "15.00",
			wantTax:      "11.14",
			wantTotal:    "146.14",
		},
		{
			name:         "discount clamped to subtotal",
			subtotal:     "40.00",
			taxRate:      "20",
			discount:     "100",
			discountType: domain.DiscountFixed,
			wantDiscount: "40.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, tax, total := deriveTotals(dec(tt.subtotal), dec(tt.taxRate), dec(tt.discount), tt.discountType)
			assert.Equal(t, tt.wantDiscount, discount.StringFixed(2))
			assert.Equal(t, tt.wantTax, tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, total.StringFixed(2))
		})
	}
}

func Test_SumItems_RoundsPerLine(t *testing.T) {
	items := []domain.InvoiceItemInput{
		{Description: "hours", Quantity: dec("1.5"), Rate: dec("99.99")},
		{Description: "licenses", Quantity: dec("3"), Rate: dec("0.333")},
	}
	// 149.985 -> 149.99 and 0.999 -> 1.00, each line rounded before summing
	assert.Equal(t, "150.99", sumItems(items).StringFixed(2))
}

func Test_FormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-00042", formatInvoiceNumber("INV", 42))
	assert.Equal(t, "ACME-00007", formatInvoiceNumber("ACME", 7))
	assert.Equal(t, "INV-00001", formatInvoiceNumber("", 1))
	assert.Equal(t, "INV-123456", formatInvoiceNumber("INV", 123456))
}

func Test_CheckInvoiceQuota(t *testing.T) {
	tests := []struct {
		name    string
		plan    string
		count   int64
		wantErr error
	}{
		{name: "free under limit", plan: "free", count: 4, wantErr: nil},
		{name: "free at limit", plan: "free", count: 5, wantErr: domain.ErrInvoiceQuotaExceeded},
		{name: "basic under limit", plan: "basic", count: 49, wantErr: nil},
		{name: "basic at limit", plan: "basic", count: 50, wantErr: domain.ErrInvoiceQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			ctx := context.Background()

			mockRepo := repository.NewMockQuerier(ctrl)
			user := createTestUser(createTestID(), tt.plan)
			mockRepo.EXPECT().CountActiveInvoices(ctx, user.ID).Return(tt.count, nil)

			err := checkInvoiceQuota(ctx, mockRepo, user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_CheckInvoiceQuota_UnlimitedPlansSkipCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No CountActiveInvoices expectation: the count query must not run
	// for plans without a cap.
	for _, plan := range []string{"enterprise", "pro"} {
		mockRepo := repository.NewMockQuerier(ctrl)
		user := createTestUser(createTestID(), plan)
		assert.NoError(t, checkInvoiceQuota(context.Background(), mockRepo, user))
	}
}

func Test_GenerateShareID_Unique(t *testing.T) {
	a, err := generateShareID()
	assert.NoError(t, err)
	b, err := generateShareID()
	assert.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
