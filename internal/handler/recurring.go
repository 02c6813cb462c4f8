package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/middleware"
	"github.com/lmeadows/billfold/internal/telemetry"
)

// RecurringHandler exposes recurring template CRUD and lifecycle control.
type RecurringHandler struct {
	recurring domain.RecurringService
	metrics   *telemetry.BusinessMetrics
}

// NewRecurringHandler creates a new recurring template handler. metrics may be nil.
func NewRecurringHandler(recurring domain.RecurringService, metrics *telemetry.BusinessMetrics) *RecurringHandler {
	return &RecurringHandler{recurring: recurring, metrics: metrics}
}

type createTemplateRequest struct {
	ClientID       string               `json:"client_id" validate:"required,uuid"`
	Items          []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Frequency      string               `json:"frequency" validate:"required"`
	Interval       int32                `json:"interval"`
	StartDate      string               `json:"start_date" validate:"required"`
	EndDate        *string              `json:"end_date"`
	MaxOccurrences *int32               `json:"max_occurrences"`
	DueInDays      *int32               `json:"due_in_days"`
	AutoSend       bool                 `json:"auto_send"`
	Currency       string               `json:"currency"`
	TaxRate        decimal.Decimal      `json:"tax_rate"`
	Discount       decimal.Decimal      `json:"discount"`
	DiscountType   string               `json:"discount_type"`
	Notes          string               `json:"notes"`
}

// Create handles POST /api/recurring-invoices
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := validateStruct("recurring.create", &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		ErrorResponse(w, r, domain.NewValidationError("recurring.create", "start_date", err.Error()))
		return
	}

	params := domain.CreateTemplateParams{
		UserID:         middleware.GetUserID(r.Context()),
		ClientID:       req.ClientID,
		Items:          toItemInputs(req.Items),
		Frequency:      domain.Frequency(req.Frequency),
		Interval:       req.Interval,
		StartDate:      startDate,
		MaxOccurrences: req.MaxOccurrences,
		DueInDays:      req.DueInDays,
		AutoSend:       req.AutoSend,
		Currency:       req.Currency,
		TaxRate:        req.TaxRate,
		Discount:       req.Discount,
		DiscountType:   domain.DiscountType(req.DiscountType),
		Notes:          req.Notes,
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			ErrorResponse(w, r, domain.NewValidationError("recurring.create", "end_date", err.Error()))
			return
		}
		params.EndDate = &endDate
	}

	detail, err := h.recurring.CreateTemplate(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toTemplateDetailView(detail))
}

// Get handles GET /api/recurring-invoices/{id}
func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.recurring.GetTemplate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toTemplateDetailView(detail))
}

// List handles GET /api/recurring-invoices
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	templates, err := h.recurring.ListTemplates(r.Context(), middleware.GetUserID(r.Context()), limit, offset)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	views := make([]templateView, 0, len(templates))
	for _, t := range templates {
		views = append(views, toTemplateView(t))
	}
	RespondJSON(w, http.StatusOK, map[string]any{"recurring_invoices": views})
}

type updateTemplateRequest struct {
	ClientID       *string              `json:"client_id"`
	Items          []invoiceItemRequest `json:"items"`
	Frequency      *string              `json:"frequency"`
	Interval       *int32               `json:"interval"`
	EndDate        *string              `json:"end_date"`
	MaxOccurrences *int32               `json:"max_occurrences"`
	DueInDays      *int32               `json:"due_in_days"`
	AutoSend       *bool                `json:"auto_send"`
	TaxRate        *decimal.Decimal     `json:"tax_rate"`
	Discount       *decimal.Decimal     `json:"discount"`
	DiscountType   *string              `json:"discount_type"`
	Notes          *string              `json:"notes"`
}

// Update handles PUT /api/recurring-invoices/{id}
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	params := domain.UpdateTemplateParams{
		UserID:         middleware.GetUserID(r.Context()),
		TemplateID:     r.PathValue("id"),
		ClientID:       req.ClientID,
		Interval:       req.Interval,
		MaxOccurrences: req.MaxOccurrences,
		DueInDays:      req.DueInDays,
		AutoSend:       req.AutoSend,
		TaxRate:        req.TaxRate,
		Discount:       req.Discount,
		Notes:          req.Notes,
	}
	if req.Items != nil {
		params.Items = toItemInputs(req.Items)
	}
	if req.Frequency != nil {
		f := domain.Frequency(*req.Frequency)
		params.Frequency = &f
	}
	if req.DiscountType != nil {
		dt := domain.DiscountType(*req.DiscountType)
		params.DiscountType = &dt
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			ErrorResponse(w, r, domain.NewValidationError("recurring.update", "end_date", err.Error()))
			return
		}
		params.EndDate = &endDate
	}

	detail, err := h.recurring.UpdateTemplate(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toTemplateDetailView(detail))
}

// Delete handles DELETE /api/recurring-invoices/{id}
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.recurring.DeleteTemplate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pause handles POST /api/recurring-invoices/{id}/pause
func (h *RecurringHandler) Pause(w http.ResponseWriter, r *http.Request) {
	detail, err := h.recurring.PauseTemplate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toTemplateDetailView(detail))
}

// Resume handles POST /api/recurring-invoices/{id}/resume
func (h *RecurringHandler) Resume(w http.ResponseWriter, r *http.Request) {
	detail, err := h.recurring.ResumeTemplate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toTemplateDetailView(detail))
}

// Cancel handles POST /api/recurring-invoices/{id}/cancel
func (h *RecurringHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	detail, err := h.recurring.CancelTemplate(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toTemplateDetailView(detail))
}

// RunNow handles POST /api/recurring-invoices/{id}/run
func (h *RecurringHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	detail, err := h.recurring.RunNow(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InvoicesCreated.WithLabelValues("recurring").Inc()
		h.metrics.RecurringGenerated.Inc()
	}
	RespondJSON(w, http.StatusCreated, toDetailView(detail))
}
