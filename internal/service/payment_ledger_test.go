package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeadows/billfold/internal/repository"
)

// paymentLedger is an in-memory payments table. It answers the sum
// queries by applying the same status filters the repository SQL uses,
// so the refund flow is exercised against real row-status semantics
// instead of canned sums.
type paymentLedger struct {
	repository.Querier

	invoice repository.Invoice
	rows    []repository.Payment
}

func (l *paymentLedger) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	return fn(l)
}

func (l *paymentLedger) GetPayment(ctx context.Context, arg repository.GetPaymentParams) (repository.Payment, error) {
	for _, p := range l.rows {
		if p.ID == arg.ID {
			return p, nil
		}
	}
	return repository.Payment{}, assert.AnError
}

func (l *paymentLedger) GetInvoiceForUpdate(ctx context.Context, arg repository.GetInvoiceParams) (repository.Invoice, error) {
	return l.invoice, nil
}

func (l *paymentLedger) SumRefundsForPayment(ctx context.Context, paymentID pgtype.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range l.rows {
		if p.RefundOfID == paymentID && p.Status == "completed" {
			sum = sum.Add(p.Amount.Neg())
		}
	}
	return sum, nil
}

func (l *paymentLedger) SumSettledPayments(ctx context.Context, invoiceID pgtype.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range l.rows {
		if p.InvoiceID == invoiceID && (p.Status == "completed" || p.Status == "refunded") {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (l *paymentLedger) CreatePayment(ctx context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
	row := repository.Payment{
		ID:            createTestID(),
		InvoiceID:     arg.InvoiceID,
		UserID:        arg.UserID,
		Amount:        arg.Amount,
		NetAmount:     arg.NetAmount,
		Status:        arg.Status,
		PaymentMethod: arg.PaymentMethod,
		TransactionID: arg.TransactionID,
		RefundOfID:    arg.RefundOfID,
		PaymentDate:   arg.PaymentDate,
	}
	l.rows = append(l.rows, row)
	return row, nil
}

func (l *paymentLedger) UpdatePaymentStatus(ctx context.Context, arg repository.UpdatePaymentStatusParams) (repository.Payment, error) {
	for i, p := range l.rows {
		if p.ID == arg.ID {
			l.rows[i].Status = arg.Status
			return l.rows[i], nil
		}
	}
	return repository.Payment{}, assert.AnError
}

func (l *paymentLedger) UpdateInvoicePaymentState(ctx context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
	l.invoice.PaidAmount = arg.PaidAmount
	l.invoice.BalanceDue = arg.BalanceDue
	l.invoice.Status = arg.Status
	l.invoice.PaidAt = arg.PaidAt
	return l.invoice, nil
}

func (l *paymentLedger) CreateInvoiceHistory(ctx context.Context, arg repository.CreateInvoiceHistoryParams) (repository.InvoiceHistory, error) {
	return repository.InvoiceHistory{}, nil
}

// A full refund demotes the original to refunded after inserting the
// negative refund row. The settled sum must still net to zero so the
// invoice reopens at its full balance rather than going negative.
func Test_RefundPayment_FullRefundNetsLedgerToZero(t *testing.T) {
	ctx := context.Background()
	userID := createTestID()
	invoiceID := createTestID()
	paymentID := createTestID()

	ledger := &paymentLedger{
		invoice: repository.Invoice{
			ID:          invoiceID,
			UserID:      userID,
			Status:      "paid",
			Currency:    "USD",
			TotalAmount: dec("100"),
			PaidAmount:  dec("100"),
			PaidAt:      pgtype.Timestamptz{Valid: true},
		},
		rows: []repository.Payment{{
			ID:            paymentID,
			InvoiceID:     invoiceID,
			UserID:        userID,
			Amount:        dec("100"),
			NetAmount:     dec("100"),
			Status:        "completed",
			PaymentMethod: "bank_transfer",
		}},
	}

	svc := NewPaymentService(ledger, nil, testLogger())
	result, err := svc.RefundPayment(ctx, RefundPaymentParams{
		UserID:    userID.String(),
		PaymentID: paymentID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, "0.00", ledger.invoice.PaidAmount.StringFixed(2))
	assert.Equal(t, "100.00", ledger.invoice.BalanceDue.StringFixed(2))
	assert.Equal(t, "sent", ledger.invoice.Status)
	assert.False(t, ledger.invoice.PaidAt.Valid)

	// The original is demoted and its refund row stays settled.
	assert.Equal(t, "refunded", ledger.rows[0].Status)
	assert.Equal(t, "-100.00", result.Payment.Amount.StringFixed(2))

	// A partial refund leaves the original completed and the sum netted.
	ledger.rows = []repository.Payment{{
		ID: paymentID, InvoiceID: invoiceID, UserID: userID,
		Amount: dec("100"), NetAmount: dec("100"),
		Status: "completed", PaymentMethod: "card",
	}}
	ledger.invoice.Status = "paid"
	ledger.invoice.PaidAmount = dec("100")
	ledger.invoice.BalanceDue = decimal.Zero

	result, err = svc.RefundPayment(ctx, RefundPaymentParams{
		UserID:    userID.String(),
		PaymentID: paymentID.String(),
		Amount:    dec("30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "70.00", ledger.invoice.PaidAmount.StringFixed(2))
	assert.Equal(t, "30.00", ledger.invoice.BalanceDue.StringFixed(2))
	assert.Equal(t, "completed", ledger.rows[0].Status)
	assert.Equal(t, "-30.00", result.Payment.Amount.StringFixed(2))
}
