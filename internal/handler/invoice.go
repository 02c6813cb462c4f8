package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/middleware"
	"github.com/lmeadows/billfold/internal/telemetry"
)

// InvoiceHandler exposes the invoice lifecycle over HTTP. All routes
// require an authenticated user except the shared public view, which
// lives in PublicHandler.
type InvoiceHandler struct {
	invoices domain.InvoiceService
	metrics  *telemetry.BusinessMetrics
}

// NewInvoiceHandler creates a new invoice handler. metrics may be nil.
func NewInvoiceHandler(invoices domain.InvoiceService, metrics *telemetry.BusinessMetrics) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, metrics: metrics}
}

type invoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

func toItemInputs(items []invoiceItemRequest) []domain.InvoiceItemInput {
	inputs := make([]domain.InvoiceItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, domain.InvoiceItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return inputs
}

type createInvoiceRequest struct {
	ClientID      string               `json:"client_id" validate:"required,uuid"`
	Items         []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	InvoiceNumber string               `json:"invoice_number"`
	Status        string               `json:"status"`
	Currency      string               `json:"currency"`
	TaxRate       decimal.Decimal      `json:"tax_rate"`
	Discount      decimal.Decimal      `json:"discount"`
	DiscountType  string               `json:"discount_type"`
	Notes         string               `json:"notes"`
	InvoiceDate   string               `json:"invoice_date"`
	DueDate       string               `json:"due_date"`
}

// Create handles POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := validateStruct("invoice.create", &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		ErrorResponse(w, r, domain.NewValidationError("invoice.create", "invoice_date", err.Error()))
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		ErrorResponse(w, r, domain.NewValidationError("invoice.create", "due_date", err.Error()))
		return
	}

	detail, err := h.invoices.CreateInvoice(r.Context(), domain.CreateInvoiceParams{
		UserID:        middleware.GetUserID(r.Context()),
		ClientID:      req.ClientID,
		Items:         toItemInputs(req.Items),
		InvoiceNumber: req.InvoiceNumber,
		Status:        domain.InvoiceStatus(req.Status),
		Currency:      req.Currency,
		TaxRate:       req.TaxRate,
		Discount:      req.Discount,
		DiscountType:  domain.DiscountType(req.DiscountType),
		Notes:         req.Notes,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.InvoicesCreated.WithLabelValues("manual").Inc()
		h.metrics.InvoiceTotalValue.WithLabelValues(detail.Invoice.Currency).
			Observe(detail.Invoice.TotalAmount.InexactFloat64())
	}
	RespondJSON(w, http.StatusCreated, toDetailView(detail))
}

// Get handles GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.invoices.GetInvoice(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toDetailView(detail))
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(r)

	params := domain.ListInvoicesParams{
		UserID:   middleware.GetUserID(r.Context()),
		Status:   domain.InvoiceStatus(q.Get("status")),
		ClientID: q.Get("client_id"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	}
	if v := q.Get("date_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			ErrorResponse(w, r, domain.NewValidationError("invoice.list", "date_from", err.Error()))
			return
		}
		params.DateFrom = t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			ErrorResponse(w, r, domain.NewValidationError("invoice.list", "date_to", err.Error()))
			return
		}
		params.DateTo = t
	}

	page, err := h.invoices.ListInvoices(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	views := make([]invoiceView, 0, len(page.Invoices))
	for _, inv := range page.Invoices {
		views = append(views, toInvoiceView(inv))
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"invoices": views,
		"total":    page.Total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

type updateInvoiceRequest struct {
	ClientID     *string              `json:"client_id"`
	Items        []invoiceItemRequest `json:"items"`
	TaxRate      *decimal.Decimal     `json:"tax_rate"`
	Discount     *decimal.Decimal     `json:"discount"`
	DiscountType *string              `json:"discount_type"`
	Notes        *string              `json:"notes"`
	DueDate      *string              `json:"due_date"`
	Currency     *string              `json:"currency"`
}

// Update handles PUT /api/invoices/{id}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	params := domain.UpdateInvoiceParams{
		UserID:    middleware.GetUserID(r.Context()),
		InvoiceID: r.PathValue("id"),
		ClientID:  req.ClientID,
		TaxRate:   req.TaxRate,
		Discount:  req.Discount,
		Notes:     req.Notes,
		Currency:  req.Currency,
	}
	if req.Items != nil {
		params.Items = toItemInputs(req.Items)
	}
	if req.DiscountType != nil {
		dt := domain.DiscountType(*req.DiscountType)
		params.DiscountType = &dt
	}
	if req.DueDate != nil {
		t, err := parseDate(*req.DueDate)
		if err != nil {
			ErrorResponse(w, r, domain.NewValidationError("invoice.update", "due_date", err.Error()))
			return
		}
		params.DueDate = &t
	}

	detail, err := h.invoices.UpdateInvoice(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toDetailView(detail))
}

// Delete handles DELETE /api/invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.invoices.DeleteInvoice(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InvoicesDeleted.Inc()
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ChangeStatus handles POST /api/invoices/{id}/status
func (h *InvoiceHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := validateStruct("invoice.status", &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.invoices.ChangeStatus(r.Context(),
		middleware.GetUserID(r.Context()), r.PathValue("id"), domain.InvoiceStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toDetailView(detail))
}

// Send handles POST /api/invoices/{id}/send
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.invoices.SendInvoice(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InvoicesSent.WithLabelValues(strconv.FormatBool(outcome.EmailSent)).Inc()
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"invoice":    toDetailView(outcome.Invoice),
		"email_sent": outcome.EmailSent,
	})
}

// Duplicate handles POST /api/invoices/{id}/duplicate
func (h *InvoiceHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	detail, err := h.invoices.DuplicateInvoice(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InvoicesCreated.WithLabelValues("duplicate").Inc()
		h.metrics.InvoicesDuplicated.Inc()
	}
	RespondJSON(w, http.StatusCreated, toDetailView(detail))
}

// Cancel handles POST /api/invoices/{id}/cancel
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	detail, err := h.invoices.CancelInvoice(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InvoicesCancelled.Inc()
	}
	RespondJSON(w, http.StatusOK, toDetailView(detail))
}

type updateShareRequest struct {
	Enabled    bool `json:"enabled"`
	Regenerate bool `json:"regenerate"`
}

// UpdateShare handles PUT /api/invoices/{id}/share
func (h *InvoiceHandler) UpdateShare(w http.ResponseWriter, r *http.Request) {
	var req updateShareRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.invoices.UpdateShare(r.Context(), domain.UpdateShareParams{
		UserID:     middleware.GetUserID(r.Context()),
		InvoiceID:  r.PathValue("id"),
		Enabled:    req.Enabled,
		Regenerate: req.Regenerate,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toDetailView(detail))
}

// History handles GET /api/invoices/{id}/history
func (h *InvoiceHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.invoices.ListHistory(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	views := make([]historyView, 0, len(history))
	for _, row := range history {
		views = append(views, toHistoryView(row))
	}
	RespondJSON(w, http.StatusOK, map[string]any{"history": views})
}

type bulkRequest struct {
	InvoiceIDs []string `json:"invoice_ids" validate:"required,min=1,dive,uuid"`
	Status     string   `json:"status,omitempty"`
}

func (h *InvoiceHandler) decodeBulk(w http.ResponseWriter, r *http.Request) (*bulkRequest, bool) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return nil, false
	}
	if err := validateStruct("invoice.bulk", &req); err != nil {
		ErrorResponse(w, r, err)
		return nil, false
	}
	return &req, true
}

// BulkSend handles POST /api/invoices/bulk/send
func (h *InvoiceHandler) BulkSend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBulk(w, r)
	if !ok {
		return
	}
	outcome, err := h.invoices.BulkSend(r.Context(), middleware.GetUserID(r.Context()), req.InvoiceIDs)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, outcome)
}

// BulkChangeStatus handles POST /api/invoices/bulk/status
func (h *InvoiceHandler) BulkChangeStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBulk(w, r)
	if !ok {
		return
	}
	outcome, err := h.invoices.BulkChangeStatus(r.Context(),
		middleware.GetUserID(r.Context()), req.InvoiceIDs, domain.InvoiceStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, outcome)
}

// BulkMarkPaid handles POST /api/invoices/bulk/mark-paid
func (h *InvoiceHandler) BulkMarkPaid(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBulk(w, r)
	if !ok {
		return
	}
	outcome, err := h.invoices.BulkMarkPaid(r.Context(), middleware.GetUserID(r.Context()), req.InvoiceIDs)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, outcome)
}

// BulkDelete handles POST /api/invoices/bulk/delete
func (h *InvoiceHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBulk(w, r)
	if !ok {
		return
	}
	outcome, err := h.invoices.BulkDelete(r.Context(), middleware.GetUserID(r.Context()), req.InvoiceIDs)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, outcome)
}
