package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/gateway"
	"github.com/lmeadows/billfold/internal/repository"
)

func Test_RecordPayment_PartialPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	paymentID := createTestID()
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "sent",
		Currency:    "USD",
		TotalAmount: dec("100"),
		BalanceDue:  dec("100"),
	}

	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
			assert.Equal(t, "40.00", arg.Amount.StringFixed(2))
			assert.Equal(t, "completed", arg.Status)
			assert.Equal(t, "bank_transfer", arg.PaymentMethod)
			return repository.Payment{ID: paymentID, InvoiceID: invoiceID, UserID: userID, Amount: arg.Amount, Status: arg.Status}, nil
		})
	store.MockQuerier.EXPECT().UpdateInvoicePaymentState(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
			assert.Equal(t, "40.00", arg.PaidAmount.StringFixed(2))
			assert.Equal(t, "60.00", arg.BalanceDue.StringFixed(2))
			assert.Equal(t, "partially_paid", arg.Status)
			assert.False(t, arg.PaidAt.Valid)
			updated := inv
			updated.Status = arg.Status
			updated.PaidAmount = arg.PaidAmount
			updated.BalanceDue = arg.BalanceDue
			return updated, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreateInvoiceHistoryParams) (repository.InvoiceHistory, error) {
			assert.Equal(t, "payment_received", arg.Action)
			return repository.InvoiceHistory{}, nil
		})
	store.MockQuerier.EXPECT().EnqueueJob(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.EnqueueJobParams) (repository.Job, error) {
			assert.Equal(t, "email:payment_receipt", arg.JobType)
			return repository.Job{}, nil
		})

	svc := NewPaymentService(store, nil, testLogger())
	result, err := svc.RecordPayment(ctx, RecordPaymentParams{
		UserID:    userID.String(),
		InvoiceID: invoiceID.String(),
		Amount:    dec("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", result.Invoice.Status)
	assert.Equal(t, paymentID, result.Payment.ID)
}

func Test_RecordPayment_FullPaymentSettles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "partially_paid",
		Currency:    "USD",
		TotalAmount: dec("100"),
		PaidAmount:  dec("40"),
		BalanceDue:  dec("60"),
	}

	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(dec("40"), nil)
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		Return(repository.Payment{ID: createTestID()}, nil)
	store.MockQuerier.EXPECT().UpdateInvoicePaymentState(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
			assert.Equal(t, "100.00", arg.PaidAmount.StringFixed(2))
			assert.True(t, arg.BalanceDue.IsZero())
			assert.Equal(t, "paid", arg.Status)
			assert.True(t, arg.PaidAt.Valid)
			settled := inv
			settled.Status = arg.Status
			settled.PaidAmount = arg.PaidAmount
			settled.BalanceDue = arg.BalanceDue
			settled.PaidAt = arg.PaidAt
			return settled, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)
	store.MockQuerier.EXPECT().EnqueueJob(ctx, gomock.Any()).Return(repository.Job{}, nil)

	svc := NewPaymentService(store, nil, testLogger())
	result, err := svc.RecordPayment(ctx, RecordPaymentParams{
		UserID:    userID.String(),
		InvoiceID: invoiceID.String(),
		Amount:    dec("60"),
		Method:    "check",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", result.Invoice.Status)
	assert.True(t, result.Invoice.PaidAt.Valid)
}

func Test_RecordPayment_OverpaymentRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "partially_paid",
		TotalAmount: dec("100"),
	}

	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	// 80 already collected, so another 30 would exceed the total.
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(dec("80"), nil)

	svc := NewPaymentService(store, nil, testLogger())
	_, err := svc.RecordPayment(ctx, RecordPaymentParams{
		UserID:    userID.String(),
		InvoiceID: invoiceID.String(),
		Amount:    dec("30"),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)
}

func Test_RecordPayment_Guards(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		amount  decimal.Decimal
		wantErr error
	}{
		{name: "zero amount", status: "sent", amount: decimal.Zero, wantErr: domain.ErrPaymentAmountInvalid},
		{name: "negative amount", status: "sent", amount: dec("-5"), wantErr: domain.ErrPaymentAmountInvalid},
		{name: "paid invoice", status: "paid", amount: dec("10"), wantErr: domain.ErrInvoiceAlreadyPaid},
		{name: "cancelled invoice", status: "cancelled", amount: dec("10"), wantErr: domain.ErrInvoiceCancelled},
		{name: "draft invoice", status: "draft", amount: dec("10"), wantErr: domain.ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			ctx := context.Background()

			store := newMockStore(ctrl)
			userID := createTestID()
			invoiceID := createTestID()

			if tt.amount.IsPositive() {
				store.MockQuerier.EXPECT().
					GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
					Return(repository.Invoice{ID: invoiceID, UserID: userID, Status: tt.status}, nil)
			}

			svc := NewPaymentService(store, nil, testLogger())
			_, err := svc.RecordPayment(ctx, RecordPaymentParams{
				UserID:    userID.String(),
				InvoiceID: invoiceID.String(),
				Amount:    tt.amount,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func Test_ProcessPayment_CapturesTransactionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	inv := repository.Invoice{
		ID:            invoiceID,
		UserID:        userID,
		Status:        "viewed",
		InvoiceNumber: "INV-00009",
		Currency:      "USD",
		TotalAmount:   dec("120.50"),
		BalanceDue:    dec("120.50"),
	}

	provider := gateway.NewMockProvider()
	provider.ChargeFunc = func(_ context.Context, params gateway.ChargeParams) (*gateway.ChargeResult, error) {
		assert.Equal(t, int64(12050), params.AmountCents)
		assert.Equal(t, "USD", params.Currency)
		assert.Equal(t, "Invoice INV-00009", params.Description)
		return &gateway.ChargeResult{TransactionID: "pi_test_123", Status: "succeeded"}, nil
	}

	store.MockQuerier.EXPECT().
		GetInvoice(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
			assert.Equal(t, "pi_test_123", arg.TransactionID.String)
			assert.Equal(t, "card", arg.PaymentMethod)
			return repository.Payment{ID: createTestID(), TransactionID: arg.TransactionID}, nil
		})
	store.MockQuerier.EXPECT().UpdateInvoicePaymentState(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
			settled := inv
			settled.Status = arg.Status
			settled.PaidAmount = arg.PaidAmount
			settled.BalanceDue = arg.BalanceDue
			return settled, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)
	store.MockQuerier.EXPECT().EnqueueJob(ctx, gomock.Any()).Return(repository.Job{}, nil)

	svc := NewPaymentService(store, provider, testLogger())
	result, err := svc.ProcessPayment(ctx, ProcessPaymentParams{
		UserID:    userID.String(),
		InvoiceID: invoiceID.String(),
		Amount:    dec("120.50"),
		CardToken: "tok_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_test_123", result.Payment.TransactionID.String)
	assert.Equal(t, "paid", result.Invoice.Status)
}

func Test_ProcessPayment_DeclinePersistsFailedAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "sent",
		Currency:    "USD",
		TotalAmount: dec("50"),
		BalanceDue:  dec("50"),
	}

	provider := gateway.NewMockProvider()
	provider.ChargeFunc = func(context.Context, gateway.ChargeParams) (*gateway.ChargeResult, error) {
		return nil, gateway.ErrCardDeclined
	}

	store.MockQuerier.EXPECT().
		GetInvoice(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	// The failed attempt is persisted, but no balance update and no receipt.
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
			assert.Equal(t, "failed", arg.Status)
			assert.True(t, arg.NetAmount.IsZero())
			return repository.Payment{ID: createTestID(), Status: arg.Status}, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreateInvoiceHistoryParams) (repository.InvoiceHistory, error) {
			assert.Equal(t, "payment_failed", arg.Action)
			return repository.InvoiceHistory{}, nil
		})

	svc := NewPaymentService(store, provider, testLogger())
	_, err := svc.ProcessPayment(ctx, ProcessPaymentParams{
		UserID:    userID.String(),
		InvoiceID: invoiceID.String(),
		Amount:    dec("50"),
		CardToken: "tok_declined",
	})
	assert.ErrorIs(t, err, domain.ErrGatewayDeclined)
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
}

func Test_ProcessPayment_ExceedsBalanceSkipsGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()

	provider := gateway.NewMockProvider()
	store.MockQuerier.EXPECT().
		GetInvoice(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(repository.Invoice{ID: invoiceID, UserID: userID, Status: "sent", TotalAmount: dec("100"), BalanceDue: dec("25")}, nil)

	svc := NewPaymentService(store, provider, testLogger())
	_, err := svc.ProcessPayment(ctx, ProcessPaymentParams{
		UserID:    userID.String(),
		InvoiceID: invoiceID.String(),
		Amount:    dec("30"),
		CardToken: "tok_visa",
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)
	assert.Empty(t, provider.CallLog)
}

func Test_ProcessPayment_MissingCardToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	svc := NewPaymentService(newMockStore(ctrl), gateway.NewMockProvider(), testLogger())
	_, err := svc.ProcessPayment(ctx, ProcessPaymentParams{
		UserID:    createTestID().String(),
		InvoiceID: createTestID().String(),
		Amount:    dec("10"),
	})
	require.Error(t, err)
	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "card_token")
}

func Test_RefundPayment_FullRefundReopensInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	paymentID := createTestID()
	payment := repository.Payment{
		ID:            paymentID,
		InvoiceID:     invoiceID,
		UserID:        userID,
		Amount:        dec("100"),
		Status:        "completed",
		PaymentMethod: "bank_transfer",
	}
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "paid",
		Currency:    "USD",
		TotalAmount: dec("100"),
		PaidAmount:  dec("100"),
		PaidAt:      pgtype.Timestamptz{Valid: true},
	}

	store.MockQuerier.EXPECT().
		GetPayment(ctx, repository.GetPaymentParams{ID: paymentID, UserID: userID}).
		Return(payment, nil)
	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().SumRefundsForPayment(ctx, paymentID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
			assert.Equal(t, "-100.00", arg.Amount.StringFixed(2))
			assert.Equal(t, paymentID, arg.RefundOfID)
			assert.Equal(t, "completed", arg.Status)
			return repository.Payment{ID: createTestID(), Amount: arg.Amount, RefundOfID: arg.RefundOfID}, nil
		})
	store.MockQuerier.EXPECT().
		UpdatePaymentStatus(ctx, repository.UpdatePaymentStatusParams{ID: paymentID, Status: "refunded"}).
		Return(payment, nil)
	// The refunded original (+100) and its refund row (-100) both stay in
	// the settled sum, netting to zero.
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().UpdateInvoicePaymentState(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
			assert.True(t, arg.PaidAmount.IsZero())
			assert.Equal(t, "100.00", arg.BalanceDue.StringFixed(2))
			assert.Equal(t, "sent", arg.Status)
			assert.False(t, arg.PaidAt.Valid, "full refund clears paid_at")
			reopened := inv
			reopened.Status = arg.Status
			reopened.PaidAmount = arg.PaidAmount
			reopened.BalanceDue = arg.BalanceDue
			reopened.PaidAt = arg.PaidAt
			return reopened, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)

	svc := NewPaymentService(store, nil, testLogger())
	result, err := svc.RefundPayment(ctx, RefundPaymentParams{
		UserID:    userID.String(),
		PaymentID: paymentID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "sent", result.Invoice.Status)
	assert.Equal(t, "-100.00", result.Payment.Amount.StringFixed(2))
}

func Test_RefundPayment_PartialReopensForCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	paymentID := createTestID()
	payment := repository.Payment{
		ID:            paymentID,
		InvoiceID:     invoiceID,
		UserID:        userID,
		Amount:        dec("100"),
		Status:        "completed",
		PaymentMethod: "card",
	}
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "paid",
		Currency:    "USD",
		TotalAmount: dec("100"),
		PaidAmount:  dec("100"),
		PaidAt:      pgtype.Timestamptz{Valid: true},
	}

	store.MockQuerier.EXPECT().
		GetPayment(ctx, repository.GetPaymentParams{ID: paymentID, UserID: userID}).
		Return(payment, nil)
	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().SumRefundsForPayment(ctx, paymentID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
			assert.Equal(t, "-30.00", arg.Amount.StringFixed(2))
			return repository.Payment{ID: createTestID(), Amount: arg.Amount}, nil
		})
	// Partial refund leaves the source payment completed.
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(dec("70"), nil)
	store.MockQuerier.EXPECT().UpdateInvoicePaymentState(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
			assert.Equal(t, "70.00", arg.PaidAmount.StringFixed(2))
			assert.Equal(t, "30.00", arg.BalanceDue.StringFixed(2))
			assert.Equal(t, "sent", arg.Status)
			updated := inv
			updated.Status = arg.Status
			return updated, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)

	svc := NewPaymentService(store, nil, testLogger())
	_, err := svc.RefundPayment(ctx, RefundPaymentParams{
		UserID:    userID.String(),
		PaymentID: paymentID.String(),
		Amount:    dec("30"),
	})
	require.NoError(t, err)
}

func Test_RefundPayment_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	userID := createTestID()
	invoiceID := createTestID()
	paymentID := createTestID()
	getPayment := repository.GetPaymentParams{ID: paymentID, UserID: userID}
	getInvoice := repository.GetInvoiceParams{ID: invoiceID, UserID: userID}

	t.Run("negative amount", func(t *testing.T) {
		svc := NewPaymentService(newMockStore(ctrl), nil, testLogger())
		_, err := svc.RefundPayment(ctx, RefundPaymentParams{
			UserID:    userID.String(),
			PaymentID: paymentID.String(),
			Amount:    dec("-10"),
		})
		assert.ErrorIs(t, err, domain.ErrPaymentAmountInvalid)
	})

	t.Run("failed payment is not refundable", func(t *testing.T) {
		store := newMockStore(ctrl)
		store.MockQuerier.EXPECT().GetPayment(ctx, getPayment).
			Return(repository.Payment{ID: paymentID, InvoiceID: invoiceID, Status: "failed"}, nil)

		svc := NewPaymentService(store, nil, testLogger())
		_, err := svc.RefundPayment(ctx, RefundPaymentParams{
			UserID:    userID.String(),
			PaymentID: paymentID.String(),
		})
		assert.ErrorIs(t, err, domain.ErrPaymentNotRefundable)
	})

	t.Run("refund row cannot be refunded again", func(t *testing.T) {
		store := newMockStore(ctrl)
		store.MockQuerier.EXPECT().GetPayment(ctx, getPayment).
			Return(repository.Payment{ID: paymentID, InvoiceID: invoiceID, Status: "completed", RefundOfID: createTestID()}, nil)

		svc := NewPaymentService(store, nil, testLogger())
		_, err := svc.RefundPayment(ctx, RefundPaymentParams{
			UserID:    userID.String(),
			PaymentID: paymentID.String(),
		})
		assert.ErrorIs(t, err, domain.ErrPaymentNotRefundable)
	})

	t.Run("amount exceeds remaining refundable", func(t *testing.T) {
		store := newMockStore(ctrl)
		store.MockQuerier.EXPECT().GetPayment(ctx, getPayment).
			Return(repository.Payment{ID: paymentID, InvoiceID: invoiceID, UserID: userID, Amount: dec("100"), Status: "completed"}, nil)
		store.MockQuerier.EXPECT().GetInvoiceForUpdate(ctx, getInvoice).
			Return(repository.Invoice{ID: invoiceID, UserID: userID, TotalAmount: dec("100")}, nil)
		// 60 already refunded leaves 40 refundable.
		store.MockQuerier.EXPECT().SumRefundsForPayment(ctx, paymentID).Return(dec("60"), nil)

		svc := NewPaymentService(store, nil, testLogger())
		_, err := svc.RefundPayment(ctx, RefundPaymentParams{
			UserID:    userID.String(),
			PaymentID: paymentID.String(),
			Amount:    dec("50"),
		})
		assert.ErrorIs(t, err, domain.ErrRefundExceedsPayment)
	})

	t.Run("fully refunded payment", func(t *testing.T) {
		store := newMockStore(ctrl)
		store.MockQuerier.EXPECT().GetPayment(ctx, getPayment).
			Return(repository.Payment{ID: paymentID, InvoiceID: invoiceID, UserID: userID, Amount: dec("100"), Status: "completed"}, nil)
		store.MockQuerier.EXPECT().GetInvoiceForUpdate(ctx, getInvoice).
			Return(repository.Invoice{ID: invoiceID, UserID: userID, TotalAmount: dec("100")}, nil)
		store.MockQuerier.EXPECT().SumRefundsForPayment(ctx, paymentID).Return(dec("100"), nil)

		svc := NewPaymentService(store, nil, testLogger())
		_, err := svc.RefundPayment(ctx, RefundPaymentParams{
			UserID:    userID.String(),
			PaymentID: paymentID.String(),
		})
		assert.ErrorIs(t, err, domain.ErrPaymentNotRefundable)
	})
}

func Test_RefundPayment_GatewayRefundInsideTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	invoiceID := createTestID()
	paymentID := createTestID()
	payment := repository.Payment{
		ID:            paymentID,
		InvoiceID:     invoiceID,
		UserID:        userID,
		Amount:        dec("80"),
		Status:        "completed",
		PaymentMethod: "card",
		TransactionID: pgtype.Text{String: "pi_live_42", Valid: true},
	}
	inv := repository.Invoice{
		ID:          invoiceID,
		UserID:      userID,
		Status:      "paid",
		Currency:    "USD",
		TotalAmount: dec("80"),
		PaidAmount:  dec("80"),
		PaidAt:      pgtype.Timestamptz{Valid: true},
	}

	provider := gateway.NewMockProvider()
	provider.RefundFunc = func(_ context.Context, params gateway.RefundParams) (*gateway.RefundResult, error) {
		assert.Equal(t, "pi_live_42", params.TransactionID)
		assert.Equal(t, int64(8000), params.AmountCents)
		return &gateway.RefundResult{RefundID: "re_test_7", Status: "succeeded"}, nil
	}

	store.MockQuerier.EXPECT().GetPayment(ctx, repository.GetPaymentParams{ID: paymentID, UserID: userID}).Return(payment, nil)
	store.MockQuerier.EXPECT().
		GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID}).
		Return(inv, nil)
	store.MockQuerier.EXPECT().SumRefundsForPayment(ctx, paymentID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().CreatePayment(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreatePaymentParams) (repository.Payment, error) {
			assert.Equal(t, "re_test_7", arg.TransactionID.String)
			return repository.Payment{ID: createTestID(), TransactionID: arg.TransactionID}, nil
		})
	store.MockQuerier.EXPECT().
		UpdatePaymentStatus(ctx, repository.UpdatePaymentStatusParams{ID: paymentID, Status: "refunded"}).
		Return(payment, nil)
	store.MockQuerier.EXPECT().SumSettledPayments(ctx, invoiceID).Return(decimal.Zero, nil)
	store.MockQuerier.EXPECT().UpdateInvoicePaymentState(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.UpdateInvoicePaymentStateParams) (repository.Invoice, error) {
			return inv, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)

	svc := NewPaymentService(store, provider, testLogger())
	result, err := svc.RefundPayment(ctx, RefundPaymentParams{
		UserID:    userID.String(),
		PaymentID: paymentID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "re_test_7", result.Payment.TransactionID.String)
}

func Test_ListPayments_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()

	store.MockQuerier.EXPECT().ListPayments(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.ListPaymentsParams) ([]repository.Payment, error) {
			assert.Equal(t, int32(100), arg.Limit)
			assert.Equal(t, int32(0), arg.Offset)
			return nil, nil
		})

	svc := NewPaymentService(store, nil, testLogger())
	_, err := svc.ListPayments(ctx, ListPaymentsParams{
		UserID: userID.String(),
		Limit:  500,
		Offset: -3,
	})
	require.NoError(t, err)
}
