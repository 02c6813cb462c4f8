package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

type (
	RecurringService     = domain.RecurringService
	CreateTemplateParams = domain.CreateTemplateParams
	UpdateTemplateParams = domain.UpdateTemplateParams
	TemplateDetail       = domain.TemplateDetail
	ProcessDueResult     = domain.ProcessDueResult
)

// processDueBatchSize caps how many templates one sweep claims.
const processDueBatchSize = 500

type recurringService struct {
	store    repository.Store
	invoices domain.InvoiceService
	logger   *slog.Logger
}

// NewRecurringService creates a recurring template service. invoices is
// used to send auto-send invoices after generation.
func NewRecurringService(store repository.Store, invoices domain.InvoiceService, logger *slog.Logger) domain.RecurringService {
	return &recurringService{
		store:    store,
		invoices: invoices,
		logger:   logger,
	}
}

// NextRunTime computes the run after current. For monthly and yearly
// cadences anchorDay preserves the schedule's day-of-month across short
// months, so an anchor of 31 yields Jan 31, Feb 28, Mar 31.
func NextRunTime(current time.Time, freq domain.Frequency, interval int32, anchorDay int) time.Time {
	if interval < 1 {
		interval = 1
	}
	n := int(interval)
	switch freq {
	case domain.FrequencyDaily:
		return current.AddDate(0, 0, n)
	case domain.FrequencyWeekly:
		return current.AddDate(0, 0, 7*n)
	case domain.FrequencyMonthly:
		return addMonthsClamped(current, n, anchorDay)
	case domain.FrequencyYearly:
		return addMonthsClamped(current, 12*n, anchorDay)
	}
	return current.AddDate(0, 0, n)
}

// addMonthsClamped adds months from the first of the current month, then
// restores the anchor day clamped to the target month's length. Going
// through AddDate directly would overflow Jan 31 + 1 month into March.
func addMonthsClamped(current time.Time, months, anchorDay int) time.Time {
	first := time.Date(current.Year(), current.Month(), 1, current.Hour(), current.Minute(), current.Second(), current.Nanosecond(), current.Location())
	target := first.AddDate(0, months, 0)

	day := anchorDay
	if day <= 0 {
		day = current.Day()
	}
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, target.Hour(), target.Minute(), target.Second(), target.Nanosecond(), target.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// anchorDayOf derives the schedule anchor from the template's start date.
func anchorDayOf(tmpl repository.RecurringInvoice) int {
	if tmpl.StartDate.Valid {
		return tmpl.StartDate.Time.Day()
	}
	return 0
}

func int4Of(v int32) pgtype.Int4 {
	if v <= 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: v, Valid: true}
}

func loadTemplateDetail(ctx context.Context, q repository.Querier, tmpl repository.RecurringInvoice) (*TemplateDetail, error) {
	items, err := q.GetRecurringInvoiceItems(ctx, tmpl.ID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "recurring.detail", "Failed to load template items")
	}
	return &TemplateDetail{Template: tmpl, Items: items}, nil
}

func (s *recurringService) CreateTemplate(ctx context.Context, params CreateTemplateParams) (*TemplateDetail, error) {
	const op = "recurring.create"

	userID, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	clientID, err := parseID("client ID", params.ClientID)
	if err != nil {
		return nil, err
	}
	if err := validateItems(params.Items); err != nil {
		return nil, err
	}
	if !params.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	interval := params.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		return nil, domain.ErrInvalidInterval
	}

	discountType := params.DiscountType
	if discountType == "" {
		discountType = domain.DiscountFixed
	}
	if !discountType.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "invalid discount type: %s", discountType)
	}
	if params.TaxRate.IsNegative() || params.Discount.IsNegative() {
		return nil, &domain.ValidationError{Op: op, Fields: map[string]string{
			"tax_rate": "tax rate and discount cannot be negative",
		}}
	}

	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	startDate := params.StartDate
	if startDate.IsZero() {
		startDate = time.Now().UTC()
	}

	var endDate pgtype.Date
	if params.EndDate != nil && !params.EndDate.IsZero() {
		if params.EndDate.Before(startDate) {
			return nil, &domain.ValidationError{Op: op, Fields: map[string]string{
				"end_date": "end date cannot be before the start date",
			}}
		}
		endDate = dateOf(*params.EndDate)
	}

	var maxOccurrences pgtype.Int4
	if params.MaxOccurrences != nil {
		if *params.MaxOccurrences < 1 {
			return nil, &domain.ValidationError{Op: op, Fields: map[string]string{
				"max_occurrences": "maximum occurrences must be positive",
			}}
		}
		maxOccurrences = int4Of(*params.MaxOccurrences)
	}

	var dueInDays pgtype.Int4
	if params.DueInDays != nil {
		dueInDays = int4Of(*params.DueInDays)
	}

	var detail *TemplateDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetUserByID(ctx, userID); err != nil {
			return mapNotFound(err, op, domain.ErrUserNotFound)
		}
		if _, err := q.GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID}); err != nil {
			return mapNotFound(err, op, domain.ErrClientNotFound)
		}

		tmpl, err := q.CreateRecurringInvoice(ctx, repository.CreateRecurringInvoiceParams{
			UserID:         userID,
			ClientID:       clientID,
			Frequency:      string(params.Frequency),
			Interval:       interval,
			StartDate:      dateOf(startDate),
			EndDate:        endDate,
			MaxOccurrences: maxOccurrences,
			NextRunAt:      tsOf(startDate),
			Status:         string(domain.TemplateActive),
			AutoSend:       params.AutoSend,
			DueInDays:      dueInDays,
			Currency:       currency,
			TaxRate:        params.TaxRate,
			Discount:       params.Discount,
			DiscountType:   string(discountType),
			Notes:          textOf(params.Notes),
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to create recurring template")
		}

		for i, item := range params.Items {
			_, err := q.CreateRecurringInvoiceItem(ctx, repository.CreateRecurringInvoiceItemParams{
				RecurringInvoiceID: tmpl.ID,
				Description:        item.Description,
				Quantity:           item.Quantity,
				Rate:               item.Rate,
				Position:           int32(i),
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to create template item")
			}
		}

		detail, err = loadTemplateDetail(ctx, q, tmpl)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *recurringService) GetTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error) {
	const op = "recurring.get"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("template ID", templateID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.store.GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: id, UserID: uid})
	if err != nil {
		return nil, mapNotFound(err, op, domain.ErrTemplateNotFound)
	}
	return loadTemplateDetail(ctx, s.store, tmpl)
}

func (s *recurringService) ListTemplates(ctx context.Context, userID string, limit, offset int32) ([]repository.RecurringInvoice, error) {
	const op = "recurring.list"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	templates, err := s.store.ListRecurringInvoices(ctx, repository.ListRecurringInvoicesParams{
		UserID: uid,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to list recurring templates")
	}
	return templates, nil
}

func (s *recurringService) UpdateTemplate(ctx context.Context, params UpdateTemplateParams) (*TemplateDetail, error) {
	const op = "recurring.update"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("template ID", params.TemplateID)
	if err != nil {
		return nil, err
	}
	if params.Items != nil {
		if err := validateItems(params.Items); err != nil {
			return nil, err
		}
	}
	if params.Frequency != nil && !params.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}
	if params.Interval != nil && *params.Interval < 1 {
		return nil, domain.ErrInvalidInterval
	}
	if params.DiscountType != nil && !params.DiscountType.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "invalid discount type: %s", *params.DiscountType)
	}

	var detail *TemplateDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: id, UserID: uid}); err != nil {
			return mapNotFound(err, op, domain.ErrTemplateNotFound)
		}
		tmpl, err := q.GetRecurringInvoiceForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err, op, domain.ErrTemplateNotFound)
		}
		if tmpl.Status == string(domain.TemplateCancelled) {
			return domain.ErrTemplateCancelled
		}

		clientID := tmpl.ClientID
		if params.ClientID != nil {
			clientID, err = parseID("client ID", *params.ClientID)
			if err != nil {
				return err
			}
			if _, err := q.GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: uid}); err != nil {
				return mapNotFound(err, op, domain.ErrClientNotFound)
			}
		}

		frequency := domain.Frequency(tmpl.Frequency)
		interval := tmpl.Interval
		scheduleChanged := false
		if params.Frequency != nil && *params.Frequency != frequency {
			frequency = *params.Frequency
			scheduleChanged = true
		}
		if params.Interval != nil && *params.Interval != interval {
			interval = *params.Interval
			scheduleChanged = true
		}

		endDate := tmpl.EndDate
		if params.EndDate != nil {
			endDate = dateOf(*params.EndDate)
		}
		maxOccurrences := tmpl.MaxOccurrences
		if params.MaxOccurrences != nil {
			maxOccurrences = int4Of(*params.MaxOccurrences)
		}
		dueInDays := tmpl.DueInDays
		if params.DueInDays != nil {
			dueInDays = int4Of(*params.DueInDays)
		}
		autoSend := tmpl.AutoSend
		if params.AutoSend != nil {
			autoSend = *params.AutoSend
		}
		taxRate := tmpl.TaxRate
		if params.TaxRate != nil {
			taxRate = *params.TaxRate
		}
		discount := tmpl.Discount
		if params.Discount != nil {
			discount = *params.Discount
		}
		discountType := tmpl.DiscountType
		if params.DiscountType != nil {
			discountType = string(*params.DiscountType)
		}
		notes := tmpl.Notes
		if params.Notes != nil {
			notes = textOf(*params.Notes)
		}
		if taxRate.IsNegative() || discount.IsNegative() {
			return &domain.ValidationError{Op: op, Fields: map[string]string{
				"tax_rate": "tax rate and discount cannot be negative",
			}}
		}

		// A cadence change reprojects the next run from the last run, or
		// from the start date if the template never ran.
		nextRunAt := tmpl.NextRunAt
		if scheduleChanged {
			base := tmpl.StartDate.Time
			if tmpl.LastRunAt.Valid {
				base = tmpl.LastRunAt.Time
			}
			nextRunAt = tsOf(NextRunTime(base, frequency, interval, anchorDayOf(tmpl)))
		}

		updated, err := q.UpdateRecurringInvoice(ctx, repository.UpdateRecurringInvoiceParams{
			ID:             tmpl.ID,
			ClientID:       clientID,
			Frequency:      string(frequency),
			Interval:       interval,
			EndDate:        endDate,
			MaxOccurrences: maxOccurrences,
			NextRunAt:      nextRunAt,
			AutoSend:       autoSend,
			DueInDays:      dueInDays,
			Currency:       tmpl.Currency,
			TaxRate:        taxRate,
			Discount:       discount,
			DiscountType:   discountType,
			Notes:          notes,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to update recurring template")
		}

		if params.Items != nil {
			if err := q.DeleteRecurringInvoiceItems(ctx, tmpl.ID); err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to replace template items")
			}
			for i, item := range params.Items {
				_, err := q.CreateRecurringInvoiceItem(ctx, repository.CreateRecurringInvoiceItemParams{
					RecurringInvoiceID: tmpl.ID,
					Description:        item.Description,
					Quantity:           item.Quantity,
					Rate:               item.Rate,
					Position:           int32(i),
				})
				if err != nil {
					return domain.WrapError(err, domain.EINTERNAL, op, "Failed to create template item")
				}
			}
		}

		detail, err = loadTemplateDetail(ctx, q, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *recurringService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	const op = "recurring.delete"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return err
	}
	id, err := parseID("template ID", templateID)
	if err != nil {
		return err
	}

	if _, err := s.store.GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: id, UserID: uid}); err != nil {
		return mapNotFound(err, op, domain.ErrTemplateNotFound)
	}
	if err := s.store.DeleteRecurringInvoice(ctx, repository.DeleteRecurringInvoiceParams{ID: id, UserID: uid}); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, op, "Failed to delete recurring template")
	}
	return nil
}

// setTemplateStatus applies a pause/resume/cancel transition. Same-status
// calls are no-ops; cancelled is terminal.
func (s *recurringService) setTemplateStatus(ctx context.Context, userID, templateID string, target domain.TemplateStatus, op string) (*TemplateDetail, error) {
	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("template ID", templateID)
	if err != nil {
		return nil, err
	}

	var detail *TemplateDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: id, UserID: uid}); err != nil {
			return mapNotFound(err, op, domain.ErrTemplateNotFound)
		}
		tmpl, err := q.GetRecurringInvoiceForUpdate(ctx, id)
		if err != nil {
			return mapNotFound(err, op, domain.ErrTemplateNotFound)
		}

		current := domain.TemplateStatus(tmpl.Status)
		if current == target {
			detail, err = loadTemplateDetail(ctx, q, tmpl)
			return err
		}
		if current == domain.TemplateCancelled {
			return domain.ErrTemplateCancelled
		}

		updated, err := q.UpdateRecurringStatus(ctx, repository.UpdateRecurringStatusParams{
			ID:     tmpl.ID,
			Status: string(target),
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to update template status")
		}
		detail, err = loadTemplateDetail(ctx, q, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *recurringService) PauseTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error) {
	return s.setTemplateStatus(ctx, userID, templateID, domain.TemplatePaused, "recurring.pause")
}

func (s *recurringService) ResumeTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error) {
	return s.setTemplateStatus(ctx, userID, templateID, domain.TemplateActive, "recurring.resume")
}

func (s *recurringService) CancelTemplate(ctx context.Context, userID, templateID string) (*TemplateDetail, error) {
	return s.setTemplateStatus(ctx, userID, templateID, domain.TemplateCancelled, "recurring.cancel")
}

// generateTx materializes one invoice from a locked template and advances
// its schedule. An exhausted template (end date passed, occurrence limit
// reached) is cancelled in place and reported via the returned error, but
// the cancellation itself must still commit; callers get that error from
// the guardErr out value rather than the transaction result.
func (s *recurringService) generateTx(ctx context.Context, q repository.Querier, tmpl repository.RecurringInvoice, now time.Time, force bool) (repository.Invoice, error) {
	const op = "recurring.generate"
	var zero repository.Invoice

	switch domain.TemplateStatus(tmpl.Status) {
	case domain.TemplateActive:
	case domain.TemplateCancelled:
		return zero, domain.ErrTemplateCancelled
	default:
		return zero, domain.ErrTemplateNotActive
	}
	if !force && (!tmpl.NextRunAt.Valid || tmpl.NextRunAt.Time.After(now)) {
		return zero, domain.ErrTemplateNotDue
	}

	user, err := q.GetUserByID(ctx, tmpl.UserID)
	if err != nil {
		return zero, mapNotFound(err, op, domain.ErrUserNotFound)
	}
	client, err := q.GetClient(ctx, repository.GetClientParams{ID: tmpl.ClientID, UserID: tmpl.UserID})
	if err != nil {
		return zero, mapNotFound(err, op, domain.ErrClientNotFound)
	}
	if err := checkInvoiceQuota(ctx, q, user); err != nil {
		return zero, err
	}

	items, err := q.GetRecurringInvoiceItems(ctx, tmpl.ID)
	if err != nil {
		return zero, domain.WrapError(err, domain.EINTERNAL, op, "Failed to load template items")
	}
	if len(items) == 0 {
		return zero, domain.ErrNoInvoiceItems
	}

	seq, err := q.NextInvoiceNumber(ctx, tmpl.UserID)
	if err != nil {
		return zero, domain.WrapError(err, domain.EINTERNAL, op, "Failed to generate invoice number")
	}
	number := formatInvoiceNumber(seq.InvoicePrefix, seq.Sequence)

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.Rate).Round(2))
	}
	_, taxAmount, total := deriveTotals(subtotal, tmpl.TaxRate, tmpl.Discount, domain.DiscountType(tmpl.DiscountType))

	terms := user.PaymentTermsDays
	if tmpl.DueInDays.Valid {
		terms = tmpl.DueInDays.Int32
	}
	if terms <= 0 {
		terms = domain.DefaultPaymentTermsDays
	}

	// A due run is dated at its scheduled time, not the sweep time, so a
	// late sweep does not drift the invoice off the template's cadence.
	// Only a forced early run is dated at the actual run time.
	issuedAt := now
	if !force && tmpl.NextRunAt.Valid {
		issuedAt = tmpl.NextRunAt.Time
	}

	inv, err := q.CreateInvoice(ctx, repository.CreateInvoiceParams{
		UserID:        tmpl.UserID,
		ClientID:      tmpl.ClientID,
		InvoiceNumber: number,
		Status:        string(domain.InvoiceDraft),
		Subtotal:      subtotal,
		TaxRate:       tmpl.TaxRate,
		TaxAmount:     taxAmount,
		Discount:      tmpl.Discount,
		DiscountType:  tmpl.DiscountType,
		TotalAmount:   total,
		PaidAmount:    decimal.Zero,
		BalanceDue:    total,
		Currency:      tmpl.Currency,
		Notes:         tmpl.Notes,
		InvoiceDate:   dateOf(issuedAt),
		DueDate:       dateOf(issuedAt.AddDate(0, 0, int(terms))),
	})
	if err != nil {
		return zero, domain.WrapError(err, domain.EINTERNAL, op, "Failed to create invoice")
	}

	for _, item := range items {
		_, err := q.CreateInvoiceItem(ctx, repository.CreateInvoiceItemParams{
			InvoiceID:   inv.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Quantity.Mul(item.Rate).Round(2),
			Position:    item.Position,
		})
		if err != nil {
			return zero, domain.WrapError(err, domain.EINTERNAL, op, "Failed to create invoice item")
		}
	}

	_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
		InvoiceID:   inv.ID,
		Action:      string(domain.HistoryCreated),
		Description: fmt.Sprintf("Invoice %s generated from recurring template for %s", number, client.Name),
	})
	if err != nil {
		return zero, domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
	}

	// Advance the schedule. A forced early run keeps the next run time
	// where it was; a due run projects the next one from the current.
	nextRunAt := tmpl.NextRunAt
	if tmpl.NextRunAt.Valid && !tmpl.NextRunAt.Time.After(now) {
		nextRunAt = tsOf(NextRunTime(tmpl.NextRunAt.Time, domain.Frequency(tmpl.Frequency), tmpl.Interval, anchorDayOf(tmpl)))
	}

	occurrences := tmpl.OccurrencesCount + 1
	status := domain.TemplateActive
	if tmpl.MaxOccurrences.Valid && occurrences >= tmpl.MaxOccurrences.Int32 {
		status = domain.TemplateCancelled
		nextRunAt = pgtype.Timestamptz{}
	}
	if tmpl.EndDate.Valid && nextRunAt.Valid {
		endOfDay := tmpl.EndDate.Time.AddDate(0, 0, 1)
		if !nextRunAt.Time.Before(endOfDay) {
			status = domain.TemplateCancelled
			nextRunAt = pgtype.Timestamptz{}
		}
	}

	if _, err := q.AdvanceRecurringSchedule(ctx, repository.AdvanceRecurringScheduleParams{
		ID:        tmpl.ID,
		LastRunAt: tsOf(now),
		NextRunAt: nextRunAt,
		Status:    string(status),
	}); err != nil {
		return zero, domain.WrapError(err, domain.EINTERNAL, op, "Failed to advance template schedule")
	}

	return inv, nil
}

// checkExpiry cancels a template whose end date has passed before
// generating anything. The cancellation commits in its own right.
func checkExpiry(ctx context.Context, q repository.Querier, tmpl repository.RecurringInvoice, now time.Time) (bool, error) {
	if !tmpl.EndDate.Valid || now.Before(tmpl.EndDate.Time.AddDate(0, 0, 1)) {
		return false, nil
	}
	_, err := q.UpdateRecurringStatus(ctx, repository.UpdateRecurringStatusParams{
		ID:     tmpl.ID,
		Status: string(domain.TemplateCancelled),
	})
	if err != nil {
		return false, domain.WrapError(err, domain.EINTERNAL, "recurring.generate", "Failed to cancel expired template")
	}
	return true, nil
}

// runTemplate generates one invoice in its own transaction and handles
// auto-send after commit.
func (s *recurringService) runTemplate(ctx context.Context, templateID, userID pgtype.UUID, now time.Time, force bool) (*InvoiceDetail, error) {
	var (
		inv      repository.Invoice
		autoSend bool
		guardErr error
	)
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		guardErr = nil
		tmpl, err := q.GetRecurringInvoiceForUpdate(ctx, templateID)
		if err != nil {
			return mapNotFound(err, "recurring.generate", domain.ErrTemplateNotFound)
		}

		if tmpl.Status == string(domain.TemplateActive) {
			expired, err := checkExpiry(ctx, q, tmpl, now)
			if err != nil {
				return err
			}
			if expired {
				// Commit the cancellation, then report the guard.
				guardErr = domain.ErrTemplateEnded
				return nil
			}
			if tmpl.MaxOccurrences.Valid && tmpl.OccurrencesCount >= tmpl.MaxOccurrences.Int32 {
				if _, err := q.UpdateRecurringStatus(ctx, repository.UpdateRecurringStatusParams{
					ID:     tmpl.ID,
					Status: string(domain.TemplateCancelled),
				}); err != nil {
					return domain.WrapError(err, domain.EINTERNAL, "recurring.generate", "Failed to cancel exhausted template")
				}
				guardErr = domain.ErrTemplateMaxOccurrences
				return nil
			}
		}

		autoSend = tmpl.AutoSend
		inv, err = s.generateTx(ctx, q, tmpl, now, force)
		return err
	})
	if err != nil {
		return nil, err
	}
	if guardErr != nil {
		return nil, guardErr
	}

	detail, err := loadDetail(ctx, s.store, inv)
	if err != nil {
		return nil, err
	}

	if autoSend {
		outcome, err := s.invoices.SendInvoice(ctx, userID.String(), inv.ID.String())
		if err != nil {
			s.logger.Error("auto-send failed for generated invoice",
				slog.String("invoice_id", inv.ID.String()),
				slog.String("error", err.Error()))
		} else {
			detail = outcome.Invoice
		}
	}
	return detail, nil
}

func (s *recurringService) RunNow(ctx context.Context, userID, templateID string) (*InvoiceDetail, error) {
	const op = "recurring.run_now"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("template ID", templateID)
	if err != nil {
		return nil, err
	}

	// Ownership check before the unscoped row lock.
	if _, err := s.store.GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: id, UserID: uid}); err != nil {
		return nil, mapNotFound(err, op, domain.ErrTemplateNotFound)
	}

	return s.runTemplate(ctx, id, uid, time.Now().UTC(), true)
}

func (s *recurringService) ProcessDue(ctx context.Context, now time.Time) (*ProcessDueResult, error) {
	const op = "recurring.process_due"

	templates, err := s.store.ListDueRecurringInvoices(ctx, repository.ListDueRecurringInvoicesParams{
		AsOf:  tsOf(now),
		Limit: processDueBatchSize,
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to list due templates")
	}

	result := &ProcessDueResult{}
	for _, tmpl := range templates {
		result.Processed++
		if _, err := s.runTemplate(ctx, tmpl.ID, tmpl.UserID, now, false); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", tmpl.ID.String(), domain.ErrorMessage(err)))
			if domain.ErrorCode(err) != domain.ECONFLICT {
				s.logger.Error("recurring generation failed",
					slog.String("template_id", tmpl.ID.String()),
					slog.String("error", err.Error()))
			}
			continue
		}
		result.Generated++
	}

	s.logger.Info("recurring sweep completed",
		slog.Int("processed", result.Processed),
		slog.Int("generated", result.Generated),
		slog.Int("failed", result.Failed))
	return result, nil
}
