package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/gateway"
	"github.com/lmeadows/billfold/internal/jobs"
	"github.com/lmeadows/billfold/internal/repository"
)

type (
	PaymentService       = domain.PaymentService
	RecordPaymentParams  = domain.RecordPaymentParams
	ProcessPaymentParams = domain.ProcessPaymentParams
	RefundPaymentParams  = domain.RefundPaymentParams
	ListPaymentsParams   = domain.ListPaymentsParams
	PaymentResult        = domain.PaymentResult
	PaymentStats         = domain.PaymentStats
)

type paymentService struct {
	store    repository.Store
	provider gateway.Provider
	logger   *slog.Logger
}

// NewPaymentService creates a payment service. provider may be nil when no
// gateway is configured; ProcessPayment then fails fast and refunds skip
// the gateway call.
func NewPaymentService(store repository.Store, provider gateway.Provider, logger *slog.Logger) domain.PaymentService {
	return &paymentService{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// guardPayable rejects invoices that cannot accept a payment.
func guardPayable(inv repository.Invoice) error {
	switch domain.InvoiceStatus(inv.Status) {
	case domain.InvoiceCancelled:
		return domain.ErrInvoiceCancelled
	case domain.InvoicePaid:
		return domain.ErrInvoiceAlreadyPaid
	case domain.InvoiceDraft:
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

// applyPaymentTx records a completed payment against a locked invoice and
// updates the paid/balance/status triplet from the new payment sum.
func applyPaymentTx(ctx context.Context, q repository.Querier, inv repository.Invoice, arg repository.CreatePaymentParams, op string) (repository.Payment, repository.Invoice, error) {
	var zero repository.Payment

	alreadyPaid, err := q.SumSettledPayments(ctx, inv.ID)
	if err != nil {
		return zero, inv, domain.WrapError(err, domain.EINTERNAL, op, "Failed to sum invoice payments")
	}
	remaining := inv.TotalAmount.Sub(alreadyPaid)
	if arg.Amount.GreaterThan(remaining) {
		return zero, inv, domain.ErrPaymentExceedsBalance
	}

	payment, err := q.CreatePayment(ctx, arg)
	if err != nil {
		return zero, inv, domain.WrapError(err, domain.EINTERNAL, op, "Failed to create payment")
	}

	newPaid := alreadyPaid.Add(arg.Amount)
	balance := inv.TotalAmount.Sub(newPaid)
	status := domain.InvoicePartiallyPaid
	paidAt := inv.PaidAt
	if balance.LessThanOrEqual(decimal.Zero) {
		balance = decimal.Zero
		status = domain.InvoicePaid
		if !paidAt.Valid {
			paidAt = tsOf(time.Now().UTC())
		}
	}

	updated, err := q.UpdateInvoicePaymentState(ctx, repository.UpdateInvoicePaymentStateParams{
		ID:         inv.ID,
		PaidAmount: newPaid,
		BalanceDue: balance,
		Status:     string(status),
		PaidAt:     paidAt,
	})
	if err != nil {
		return zero, inv, domain.WrapError(err, domain.EINTERNAL, op, "Failed to update invoice payment state")
	}

	_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
		InvoiceID:   inv.ID,
		Action:      string(domain.HistoryPaymentReceived),
		Description: fmt.Sprintf("Payment of %s %s received via %s", arg.Amount.StringFixed(2), inv.Currency, arg.PaymentMethod),
		ActorID:     arg.UserID,
	})
	if err != nil {
		return zero, inv, domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
	}
	return payment, updated, nil
}

// enqueueReceipt best-effort queues the owner's receipt email.
func (s *paymentService) enqueueReceipt(ctx context.Context, result *PaymentResult) {
	err := jobs.EnqueuePaymentReceipt(ctx, s.store, jobs.PaymentReceiptPayload{
		PaymentID: result.Payment.ID.String(),
		InvoiceID: result.Invoice.ID.String(),
		UserID:    result.Invoice.UserID.String(),
	})
	if err != nil {
		s.logger.Error("failed to enqueue payment receipt",
			slog.String("payment_id", result.Payment.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, params RecordPaymentParams) (*PaymentResult, error) {
	const op = "payment.record"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	invoiceID, err := parseID("invoice ID", params.InvoiceID)
	if err != nil {
		return nil, err
	}
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrPaymentAmountInvalid
	}

	method := params.Method
	if method == "" {
		method = "bank_transfer"
	}
	paymentDate := params.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	var result PaymentResult
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}
		if err := guardPayable(inv); err != nil {
			return err
		}

		result.Payment, result.Invoice, err = applyPaymentTx(ctx, q, inv, repository.CreatePaymentParams{
			InvoiceID:     inv.ID,
			UserID:        uid,
			Amount:        params.Amount,
			NetAmount:     params.Amount,
			Status:        string(domain.PaymentCompleted),
			PaymentMethod: method,
			TransactionID: textOf(params.TransactionID),
			PaymentDate:   tsOf(paymentDate),
			Notes:         textOf(params.Notes),
		}, op)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.enqueueReceipt(ctx, &result)
	return &result, nil
}

func (s *paymentService) ProcessPayment(ctx context.Context, params ProcessPaymentParams) (*PaymentResult, error) {
	const op = "payment.process"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	invoiceID, err := parseID("invoice ID", params.InvoiceID)
	if err != nil {
		return nil, err
	}
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrPaymentAmountInvalid
	}
	if params.CardToken == "" {
		return nil, &domain.ValidationError{Op: op, Fields: map[string]string{
			"card_token": "card token is required",
		}}
	}
	if s.provider == nil {
		return nil, domain.Errorf(domain.EINTERNAL, op, "no payment gateway configured")
	}

	// Precheck against the current balance so an obviously excessive
	// charge never reaches the gateway.
	inv, err := s.store.GetInvoice(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: uid})
	if err != nil {
		return nil, mapNotFound(err, op, domain.ErrInvoiceNotFound)
	}
	if err := guardPayable(inv); err != nil {
		return nil, err
	}
	if params.Amount.GreaterThan(inv.BalanceDue) {
		return nil, domain.ErrPaymentExceedsBalance
	}

	method := params.Method
	if method == "" {
		method = "card"
	}
	paymentDate := params.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	charge, chargeErr := s.provider.Charge(ctx, gateway.ChargeParams{
		AmountCents: params.Amount.Shift(2).Round(0).IntPart(),
		Currency:    inv.Currency,
		CardToken:   params.CardToken,
		Description: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Metadata: map[string]string{
			"invoice_id": inv.ID.String(),
			"user_id":    params.UserID,
		},
	})
	if chargeErr != nil {
		if errors.Is(chargeErr, gateway.ErrCardDeclined) {
			return nil, s.recordDeclined(ctx, uid, inv, params.Amount, method, paymentDate, chargeErr)
		}
		if errors.Is(chargeErr, gateway.ErrAmountTooSmall) {
			return nil, domain.WrapError(chargeErr, domain.EINVALID, op, "Payment amount is below the gateway minimum")
		}
		return nil, domain.WrapError(chargeErr, domain.EINTERNAL, op, "Payment gateway request failed")
	}

	var result PaymentResult
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		locked, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}
		if err := guardPayable(locked); err != nil {
			return err
		}

		result.Payment, result.Invoice, err = applyPaymentTx(ctx, q, locked, repository.CreatePaymentParams{
			InvoiceID:     locked.ID,
			UserID:        uid,
			Amount:        params.Amount,
			NetAmount:     params.Amount,
			Status:        string(domain.PaymentCompleted),
			PaymentMethod: method,
			TransactionID: textOf(charge.TransactionID),
			PaymentDate:   tsOf(paymentDate),
		}, op)
		return err
	})
	if err != nil {
		// The charge already captured; release the funds so the client
		// is not billed for a payment that never landed.
		if _, refundErr := s.provider.Refund(ctx, gateway.RefundParams{
			TransactionID: charge.TransactionID,
			Reason:        "payment could not be recorded",
		}); refundErr != nil {
			s.logger.Error("failed to reverse orphaned charge",
				slog.String("transaction_id", charge.TransactionID),
				slog.String("error", refundErr.Error()))
		}
		return nil, err
	}

	s.enqueueReceipt(ctx, &result)
	return &result, nil
}

// recordDeclined persists a failed payment row and history without
// touching the invoice totals, then reports the decline.
func (s *paymentService) recordDeclined(ctx context.Context, uid pgtype.UUID, inv repository.Invoice, amount decimal.Decimal, method string, paymentDate time.Time, cause error) error {
	const op = "payment.process"

	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		_, err := q.CreatePayment(ctx, repository.CreatePaymentParams{
			InvoiceID:     inv.ID,
			UserID:        uid,
			Amount:        amount,
			NetAmount:     decimal.Zero,
			Status:        string(domain.PaymentFailed),
			PaymentMethod: method,
			PaymentDate:   tsOf(paymentDate),
			Notes:         textOf(cause.Error()),
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record declined payment")
		}
		_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   inv.ID,
			Action:      string(domain.HistoryPaymentFailed),
			Description: fmt.Sprintf("Payment of %s %s declined", amount.StringFixed(2), inv.Currency),
			ActorID:     uid,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to persist declined payment",
			slog.String("invoice_id", inv.ID.String()),
			slog.String("error", err.Error()))
	}

	return &domain.Error{
		Code:    domain.EPAYMENT,
		Op:      op,
		Message: domain.ErrorMessage(domain.ErrGatewayDeclined),
		Err:     cause,
	}
}

func (s *paymentService) RefundPayment(ctx context.Context, params RefundPaymentParams) (*PaymentResult, error) {
	const op = "payment.refund"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	paymentID, err := parseID("payment ID", params.PaymentID)
	if err != nil {
		return nil, err
	}
	if params.Amount.IsNegative() {
		return nil, domain.ErrPaymentAmountInvalid
	}

	var result PaymentResult
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		payment, err := q.GetPayment(ctx, repository.GetPaymentParams{ID: paymentID, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrPaymentNotFound)
		}
		if payment.RefundOfID.Valid || payment.Status != string(domain.PaymentCompleted) {
			return domain.ErrPaymentNotRefundable
		}

		// The invoice lock serializes concurrent refunds against the
		// same payment.
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: payment.InvoiceID, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}

		refunded, err := q.SumRefundsForPayment(ctx, payment.ID)
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to sum refunds")
		}
		refundable := payment.Amount.Sub(refunded)
		if refundable.LessThanOrEqual(decimal.Zero) {
			return domain.ErrPaymentNotRefundable
		}

		amount := params.Amount
		if amount.IsZero() {
			amount = refundable
		}
		if amount.GreaterThan(refundable) {
			return domain.ErrRefundExceedsPayment
		}

		transactionID := fmt.Sprintf("refund-%s", payment.ID)
		if s.provider != nil && payment.TransactionID.Valid && payment.TransactionID.String != "" {
			refund, err := s.provider.Refund(ctx, gateway.RefundParams{
				TransactionID: payment.TransactionID.String,
				AmountCents:   amount.Shift(2).Round(0).IntPart(),
				Reason:        params.Notes,
			})
			if err != nil {
				return domain.WrapError(err, domain.EPAYMENT, op, "Gateway refund failed")
			}
			transactionID = refund.RefundID
		}

		refundRow, err := q.CreatePayment(ctx, repository.CreatePaymentParams{
			InvoiceID:     payment.InvoiceID,
			UserID:        uid,
			Amount:        amount.Neg(),
			NetAmount:     amount.Neg(),
			Status:        string(domain.PaymentCompleted),
			PaymentMethod: payment.PaymentMethod,
			TransactionID: textOf(transactionID),
			RefundOfID:    payment.ID,
			PaymentDate:   tsOf(time.Now().UTC()),
			Notes:         textOf(params.Notes),
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to create refund")
		}

		if amount.Equal(refundable) {
			if _, err := q.UpdatePaymentStatus(ctx, repository.UpdatePaymentStatusParams{
				ID:     payment.ID,
				Status: string(domain.PaymentRefunded),
			}); err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to mark payment refunded")
			}
		}

		newPaid, err := q.SumSettledPayments(ctx, inv.ID)
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to sum invoice payments")
		}
		balance := inv.TotalAmount.Sub(newPaid)
		status := domain.InvoiceStatus(inv.Status)
		paidAt := inv.PaidAt
		if balance.GreaterThan(decimal.Zero) {
			// Money went back out, so the invoice is collectable again.
			status = domain.InvoiceSent
			paidAt = pgtype.Timestamptz{}
		}
		updated, err := q.UpdateInvoicePaymentState(ctx, repository.UpdateInvoicePaymentStateParams{
			ID:         inv.ID,
			PaidAmount: newPaid,
			BalanceDue: balance,
			Status:     string(status),
			PaidAt:     paidAt,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to update invoice payment state")
		}

		_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   inv.ID,
			Action:      string(domain.HistoryUpdated),
			Description: fmt.Sprintf("Refund of %s %s issued", amount.StringFixed(2), inv.Currency),
			ActorID:     uid,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
		}

		result.Payment = refundRow
		result.Invoice = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *paymentService) ListInvoicePayments(ctx context.Context, userID, invoiceID string) ([]repository.Payment, error) {
	const op = "payment.list_invoice"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", invoiceID)
	if err != nil {
		return nil, err
	}

	inv, err := s.store.GetInvoice(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
	if err != nil {
		return nil, mapNotFound(err, op, domain.ErrInvoiceNotFound)
	}

	payments, err := s.store.GetInvoicePayments(ctx, inv.ID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to list payments")
	}
	return payments, nil
}

func (s *paymentService) ListPayments(ctx context.Context, params ListPaymentsParams) ([]repository.Payment, error) {
	const op = "payment.list"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	payments, err := s.store.ListPayments(ctx, repository.ListPaymentsParams{
		UserID: uid,
		Status: string(params.Status),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to list payments")
	}
	return payments, nil
}

func (s *paymentService) PaymentStats(ctx context.Context, userID string) (*PaymentStats, error) {
	const op = "payment.stats"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.store.GetPaymentTotals(ctx, uid)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to aggregate payment totals")
	}

	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	rows, err := s.store.GetMonthlyPaymentTotals(ctx, repository.GetMonthlyPaymentTotalsParams{
		UserID: uid,
		Since:  tsOf(since),
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to aggregate monthly totals")
	}

	stats := &PaymentStats{
		TotalCollected: totals.TotalCollected,
		TotalRefunded:  totals.TotalRefunded,
		PendingCount:   totals.PendingCount,
		FailedCount:    totals.FailedCount,
		Monthly:        make([]domain.MonthlyTotal, 0, len(rows)),
	}
	for _, row := range rows {
		stats.Monthly = append(stats.Monthly, domain.MonthlyTotal{
			Month: row.Month.Time,
			Total: row.Total,
		})
	}
	return stats, nil
}
