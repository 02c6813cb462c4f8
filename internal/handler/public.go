package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/telemetry"
)

// PublicHandler serves endpoints that require no authentication: the
// shared invoice view, pay-by-link, and the health probe.
type PublicHandler struct {
	invoices domain.InvoiceService
	payments domain.PaymentService
	pool     *pgxpool.Pool
	metrics  *telemetry.BusinessMetrics
}

// NewPublicHandler creates a new public handler. pool may be nil in tests;
// the health probe then reports only process liveness. payments may be nil
// when no gateway is configured, which disables pay-by-link.
func NewPublicHandler(invoices domain.InvoiceService, payments domain.PaymentService, pool *pgxpool.Pool, metrics *telemetry.BusinessMetrics) *PublicHandler {
	return &PublicHandler{invoices: invoices, payments: payments, pool: pool, metrics: metrics}
}

// SharedInvoice handles GET /i/{shareId}
//
// Viewing through a share link is the client-side read path. It marks the
// invoice viewed as a side effect; payments and history stay private.
func (h *PublicHandler) SharedInvoice(w http.ResponseWriter, r *http.Request) {
	detail, err := h.invoices.GetSharedInvoice(r.Context(), r.PathValue("shareId"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.InvoicesViewed.Inc()
	}
	view := toDetailView(detail)
	view.Payments = nil
	view.History = nil
	RespondJSON(w, http.StatusOK, view)
}

type sharedPayRequest struct {
	CardToken string          `json:"card_token" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// PayShared handles POST /i/{shareId}/pay
//
// The share token stands in for authentication. The charge runs under the
// invoice owner's account; a zero amount pays the full balance due.
func (h *PublicHandler) PayShared(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "payment.shared",
			"online payment is not available for this invoice"))
		return
	}

	var req sharedPayRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := validateStruct("payment.shared", &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.invoices.GetSharedInvoice(r.Context(), r.PathValue("shareId"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = detail.Invoice.BalanceDue
	}

	result, err := h.payments.ProcessPayment(r.Context(), domain.ProcessPaymentParams{
		UserID:    uuidString(detail.Invoice.UserID),
		InvoiceID: uuidString(detail.Invoice.ID),
		Amount:    amount,
		CardToken: req.CardToken,
	})
	if err != nil {
		if h.metrics != nil && domain.ErrorCode(err) == domain.EPAYMENT {
			h.metrics.PaymentsFailed.WithLabelValues("card").Inc()
		}
		ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsRecorded.WithLabelValues(result.Payment.PaymentMethod).Inc()
		h.metrics.RevenueCollected.WithLabelValues(result.Invoice.Currency).
			Add(result.Payment.Amount.InexactFloat64())
	}
	RespondJSON(w, http.StatusCreated, paymentResultView(result))
}

// Healthz handles GET /healthz
func (h *PublicHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"reason": "database unreachable",
			})
			return
		}
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
