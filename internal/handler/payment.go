package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/middleware"
	"github.com/lmeadows/billfold/internal/telemetry"
)

// PaymentHandler exposes payment recording, gateway charges, and refunds.
type PaymentHandler struct {
	payments domain.PaymentService
	metrics  *telemetry.BusinessMetrics
}

// NewPaymentHandler creates a new payment handler. metrics may be nil.
func NewPaymentHandler(payments domain.PaymentService, metrics *telemetry.BusinessMetrics) *PaymentHandler {
	return &PaymentHandler{payments: payments, metrics: metrics}
}

func (h *PaymentHandler) observeCollected(result *domain.PaymentResult) {
	if h.metrics == nil {
		return
	}
	h.metrics.PaymentsRecorded.WithLabelValues(result.Payment.PaymentMethod).Inc()
	h.metrics.RevenueCollected.WithLabelValues(result.Invoice.Currency).
		Add(result.Payment.Amount.InexactFloat64())
}

func paymentResultView(result *domain.PaymentResult) map[string]any {
	return map[string]any{
		"payment": toPaymentView(result.Payment),
		"invoice": toInvoiceView(result.Invoice),
	}
}

type recordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes"`
}

// Record handles POST /api/invoices/{id}/payments
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		ErrorResponse(w, r, domain.NewValidationError("payment.record", "payment_date", err.Error()))
		return
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	result, err := h.payments.RecordPayment(r.Context(), domain.RecordPaymentParams{
		UserID:        middleware.GetUserID(r.Context()),
		InvoiceID:     r.PathValue("id"),
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		PaymentDate:   paymentDate,
		Notes:         req.Notes,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.observeCollected(result)
	RespondJSON(w, http.StatusCreated, paymentResultView(result))
}

type processPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	CardToken string          `json:"card_token" validate:"required"`
}

// Process handles POST /api/invoices/{id}/payments/charge
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := validateStruct("payment.process", &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	result, err := h.payments.ProcessPayment(r.Context(), domain.ProcessPaymentParams{
		UserID:      middleware.GetUserID(r.Context()),
		InvoiceID:   r.PathValue("id"),
		Amount:      req.Amount,
		Method:      req.Method,
		CardToken:   req.CardToken,
		PaymentDate: time.Now(),
	})
	if err != nil {
		if h.metrics != nil && domain.ErrorCode(err) == domain.EPAYMENT {
			h.metrics.PaymentsFailed.WithLabelValues("card").Inc()
		}
		ErrorResponse(w, r, err)
		return
	}
	h.observeCollected(result)
	RespondJSON(w, http.StatusCreated, paymentResultView(result))
}

type refundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

// Refund handles POST /api/payments/{id}/refund
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	result, err := h.payments.RefundPayment(r.Context(), domain.RefundPaymentParams{
		UserID:    middleware.GetUserID(r.Context()),
		PaymentID: r.PathValue("id"),
		Amount:    req.Amount,
		Notes:     req.Notes,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RefundsIssued.Inc()
	}
	RespondJSON(w, http.StatusCreated, paymentResultView(result))
}

// ListForInvoice handles GET /api/invoices/{id}/payments
func (h *PaymentHandler) ListForInvoice(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListInvoicePayments(r.Context(),
		middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, toPaymentView(p))
	}
	RespondJSON(w, http.StatusOK, map[string]any{"payments": views})
}

// List handles GET /api/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	payments, err := h.payments.ListPayments(r.Context(), domain.ListPaymentsParams{
		UserID: middleware.GetUserID(r.Context()),
		Status: domain.PaymentStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	views := make([]paymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, toPaymentView(p))
	}
	RespondJSON(w, http.StatusOK, map[string]any{"payments": views})
}

// Stats handles GET /api/payments/stats
func (h *PaymentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.payments.PaymentStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, stats)
}
