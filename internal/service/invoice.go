package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/email"
	"github.com/lmeadows/billfold/internal/jobs"
	"github.com/lmeadows/billfold/internal/repository"
)

// Re-export domain types for convenience.
type (
	InvoiceService      = domain.InvoiceService
	CreateInvoiceParams = domain.CreateInvoiceParams
	UpdateInvoiceParams = domain.UpdateInvoiceParams
	ListInvoicesParams  = domain.ListInvoicesParams
	UpdateShareParams   = domain.UpdateShareParams
	InvoiceDetail       = domain.InvoiceDetail
	InvoicePage         = domain.InvoicePage
	SendOutcome         = domain.SendOutcome
	BulkOutcome         = domain.BulkOutcome
)

// sendEmailTimeout bounds the post-commit delivery attempt so a slow SMTP
// server cannot hold the request open.
const sendEmailTimeout = 30 * time.Second

type invoiceService struct {
	store        repository.Store
	emailService *email.Service
	logger       *slog.Logger
	shareBaseURL string
}

// NewInvoiceService creates an invoice service. emailService may be nil,
// in which case sends still transition invoices but never deliver email.
func NewInvoiceService(store repository.Store, emailService *email.Service, logger *slog.Logger, shareBaseURL string) domain.InvoiceService {
	return &invoiceService{
		store:        store,
		emailService: emailService,
		logger:       logger,
		shareBaseURL: shareBaseURL,
	}
}

func (s *invoiceService) shareURL(shareID string) string {
	if shareID == "" {
		return ""
	}
	return s.shareBaseURL + "/i/" + shareID
}

// loadDetail assembles the invoice aggregate from the given querier.
func loadDetail(ctx context.Context, q repository.Querier, inv repository.Invoice) (*domain.InvoiceDetail, error) {
	items, err := q.GetInvoiceItems(ctx, inv.ID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "invoice.detail", "Failed to load invoice items")
	}
	payments, err := q.GetInvoicePayments(ctx, inv.ID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "invoice.detail", "Failed to load invoice payments")
	}
	history, err := q.GetInvoiceHistory(ctx, inv.ID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "invoice.detail", "Failed to load invoice history")
	}
	return &domain.InvoiceDetail{
		Invoice:  inv,
		Items:    items,
		Payments: payments,
		History:  history,
	}, nil
}

// replaceItems deletes all line items and inserts the given set.
func replaceItems(ctx context.Context, q repository.Querier, invoiceID pgtype.UUID, items []domain.InvoiceItemInput) error {
	if err := q.DeleteInvoiceItems(ctx, invoiceID); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "invoice.items", "Failed to replace invoice items")
	}
	return insertItems(ctx, q, invoiceID, items)
}

func insertItems(ctx context.Context, q repository.Querier, invoiceID pgtype.UUID, items []domain.InvoiceItemInput) error {
	for i, item := range items {
		_, err := q.CreateInvoiceItem(ctx, repository.CreateInvoiceItemParams{
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Quantity.Mul(item.Rate).Round(2),
			Position:    int32(i),
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, "invoice.items", "Failed to create invoice item")
		}
	}
	return nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*InvoiceDetail, error) {
	const op = "invoice.create"

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

	status := params.Status
	if status == "" {
		status = domain.InvoiceDraft
	}
	if status != domain.InvoiceDraft && status != domain.InvoiceSent {
		return nil, domain.Errorf(domain.EINVALID, op, "invoices can only be created as draft or sent, not %s", status)
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

	subtotal := sumItems(params.Items)
	_, taxAmount, total := deriveTotals(subtotal, params.TaxRate, params.Discount, discountType)

	now := time.Now().UTC()
	invoiceDate := params.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = now
	}

	var detail *InvoiceDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		user, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return mapNotFound(err, op, domain.ErrUserNotFound)
		}
		client, err := q.GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID})
		if err != nil {
			return mapNotFound(err, op, domain.ErrClientNotFound)
		}
		if err := checkInvoiceQuota(ctx, q, user); err != nil {
			return err
		}

		number := params.InvoiceNumber
		if number == "" {
			seq, err := q.NextInvoiceNumber(ctx, userID)
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to generate invoice number")
			}
			number = formatInvoiceNumber(seq.InvoicePrefix, seq.Sequence)
		}

		dueDate := params.DueDate
		if dueDate.IsZero() {
			terms := user.PaymentTermsDays
			if terms <= 0 {
				terms = domain.DefaultPaymentTermsDays
			}
			dueDate = invoiceDate.AddDate(0, 0, int(terms))
		}

		var sentAt pgtype.Timestamptz
		if status == domain.InvoiceSent {
			sentAt = tsOf(now)
		}

		inv, err := q.CreateInvoice(ctx, repository.CreateInvoiceParams{
			UserID:        userID,
			ClientID:      clientID,
			InvoiceNumber: number,
			Status:        string(status),
			Subtotal:      subtotal,
			TaxRate:       params.TaxRate,
			TaxAmount:     taxAmount,
			Discount:      params.Discount,
			DiscountType:  string(discountType),
			TotalAmount:   total,
			PaidAmount:    decimal.Zero,
			BalanceDue:    total,
			Currency:      currency,
			Notes:         textOf(params.Notes),
			InvoiceDate:   dateOf(invoiceDate),
			DueDate:       dateOf(dueDate),
			SentAt:        sentAt,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to create invoice")
		}

		if err := insertItems(ctx, q, inv.ID, params.Items); err != nil {
			return err
		}

		_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   inv.ID,
			Action:      string(domain.HistoryCreated),
			Description: fmt.Sprintf("Invoice %s created for %s", number, client.Name),
			ActorID:     userID,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
		}

		detail, err = loadDetail(ctx, q, inv)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		slog.String("invoice_id", detail.Invoice.ID.String()),
		slog.String("invoice_number", detail.Invoice.InvoiceNumber),
		slog.String("user_id", params.UserID))
	return detail, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error) {
	const op = "invoice.get"

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
	return loadDetail(ctx, s.store, inv)
}

func (s *invoiceService) ListInvoices(ctx context.Context, params ListInvoicesParams) (*InvoicePage, error) {
	const op = "invoice.list"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	if params.Status != "" && !params.Status.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "invalid status filter: %s", params.Status)
	}

	var clientID pgtype.UUID
	if params.ClientID != "" {
		clientID, err = parseID("client ID", params.ClientID)
		if err != nil {
			return nil, err
		}
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

	invoices, err := s.store.ListInvoices(ctx, repository.ListInvoicesParams{
		UserID:   uid,
		Status:   string(params.Status),
		ClientID: clientID,
		DateFrom: dateOf(params.DateFrom),
		DateTo:   dateOf(params.DateTo),
		Search:   params.Search,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to list invoices")
	}
	total, err := s.store.CountInvoices(ctx, repository.CountInvoicesParams{
		UserID:   uid,
		Status:   string(params.Status),
		ClientID: clientID,
		DateFrom: dateOf(params.DateFrom),
		DateTo:   dateOf(params.DateTo),
		Search:   params.Search,
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to count invoices")
	}

	return &InvoicePage{
		Invoices: invoices,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, params UpdateInvoiceParams) (*InvoiceDetail, error) {
	const op = "invoice.update"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", params.InvoiceID)
	if err != nil {
		return nil, err
	}
	if params.Items != nil {
		if err := validateItems(params.Items); err != nil {
			return nil, err
		}
	}
	if params.DiscountType != nil && !params.DiscountType.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "invalid discount type: %s", *params.DiscountType)
	}

	var detail *InvoiceDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}
		if inv.Status == string(domain.InvoiceCancelled) {
			return domain.ErrInvoiceCancelled
		}

		clientID := inv.ClientID
		if params.ClientID != nil {
			clientID, err = parseID("client ID", *params.ClientID)
			if err != nil {
				return err
			}
			if _, err := q.GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: uid}); err != nil {
				return mapNotFound(err, op, domain.ErrClientNotFound)
			}
		}

		currency := inv.Currency
		if params.Currency != nil {
			currency = *params.Currency
		}
		notes := inv.Notes
		if params.Notes != nil {
			notes = textOf(*params.Notes)
		}
		dueDate := inv.DueDate
		if params.DueDate != nil {
			dueDate = dateOf(*params.DueDate)
		}
		taxRate := inv.TaxRate
		if params.TaxRate != nil {
			taxRate = *params.TaxRate
		}
		discount := inv.Discount
		if params.Discount != nil {
			discount = *params.Discount
		}
		discountType := domain.DiscountType(inv.DiscountType)
		if params.DiscountType != nil {
			discountType = *params.DiscountType
		}
		if taxRate.IsNegative() || discount.IsNegative() {
			return &domain.ValidationError{Op: op, Fields: map[string]string{
				"tax_rate": "tax rate and discount cannot be negative",
			}}
		}

		subtotal := inv.Subtotal
		if params.Items != nil {
			subtotal = sumItems(params.Items)
			if err := replaceItems(ctx, q, inv.ID, params.Items); err != nil {
				return err
			}
		}

		_, taxAmount, total := deriveTotals(subtotal, taxRate, discount, discountType)
		balance := total.Sub(inv.PaidAmount)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		updated, err := q.UpdateInvoice(ctx, repository.UpdateInvoiceParams{
			ID:           inv.ID,
			ClientID:     clientID,
			Currency:     currency,
			Notes:        notes,
			DueDate:      dueDate,
			Subtotal:     subtotal,
			TaxRate:      taxRate,
			TaxAmount:    taxAmount,
			Discount:     discount,
			DiscountType: string(discountType),
			TotalAmount:  total,
			BalanceDue:   balance,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to update invoice")
		}

		_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   inv.ID,
			Action:      string(domain.HistoryUpdated),
			Description: "Invoice details updated",
			ActorID:     uid,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
		}

		detail, err = loadDetail(ctx, q, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	const op = "invoice.delete"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return err
	}
	id, err := parseID("invoice ID", invoiceID)
	if err != nil {
		return err
	}

	return s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}

		count, err := q.CountPaymentsForInvoice(ctx, inv.ID)
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to count invoice payments")
		}
		if count > 0 {
			return domain.ErrInvoiceHasPayments
		}

		if err := q.DeleteInvoice(ctx, repository.DeleteInvoiceParams{ID: inv.ID, UserID: uid}); err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to delete invoice")
		}
		return nil
	})
}

// applyTransition validates and applies a status change inside the
// caller's transaction, setting the target's timestamp as a set-once
// side effect. A same-status change is a no-op.
func applyTransition(ctx context.Context, q repository.Querier, inv repository.Invoice, target domain.InvoiceStatus) (repository.Invoice, error) {
	from := domain.InvoiceStatus(inv.Status)
	if from == target {
		return inv, nil
	}
	if !domain.CanTransition(from, target) {
		if from == domain.InvoiceCancelled {
			return inv, domain.ErrInvoiceCancelled
		}
		return inv, domain.ErrInvalidStatusTransition
	}

	now := tsOf(time.Now().UTC())
	arg := repository.UpdateInvoiceStatusParams{ID: inv.ID, Status: string(target)}
	switch target {
	case domain.InvoiceSent:
		arg.SentAt = now
	case domain.InvoiceViewed:
		arg.ViewedAt = now
	case domain.InvoicePaid:
		arg.PaidAt = now
	case domain.InvoiceCancelled:
		arg.CancelledAt = now
	}

	updated, err := q.UpdateInvoiceStatus(ctx, arg)
	if err != nil {
		return inv, domain.WrapError(err, domain.EINTERNAL, "invoice.transition", "Failed to update invoice status")
	}

	// A manual mark-paid settles the full amount.
	if target == domain.InvoicePaid {
		updated, err = q.UpdateInvoicePaymentState(ctx, repository.UpdateInvoicePaymentStateParams{
			ID:         updated.ID,
			PaidAmount: updated.TotalAmount,
			BalanceDue: decimal.Zero,
			Status:     string(domain.InvoicePaid),
			PaidAt:     updated.PaidAt,
		})
		if err != nil {
			return inv, domain.WrapError(err, domain.EINTERNAL, "invoice.transition", "Failed to settle invoice")
		}
	}
	return updated, nil
}

func (s *invoiceService) ChangeStatus(ctx context.Context, userID, invoiceID string, target domain.InvoiceStatus) (*InvoiceDetail, error) {
	const op = "invoice.change_status"

	if !target.Valid() {
		return nil, domain.Errorf(domain.EINVALID, op, "invalid status: %s", target)
	}
	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", invoiceID)
	if err != nil {
		return nil, err
	}

	var detail *InvoiceDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}

		from := domain.InvoiceStatus(inv.Status)
		updated, err := applyTransition(ctx, q, inv, target)
		if err != nil {
			return err
		}

		if from != target {
			_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
				InvoiceID:   inv.ID,
				Action:      string(domain.HistoryStatusChanged),
				Description: fmt.Sprintf("Status changed from %s to %s", from, target),
				ActorID:     uid,
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
			}
		}

		detail, err = loadDetail(ctx, q, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *invoiceService) SendInvoice(ctx context.Context, userID, invoiceID string) (*SendOutcome, error) {
	const op = "invoice.send"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", invoiceID)
	if err != nil {
		return nil, err
	}

	var (
		detail *InvoiceDetail
		user   repository.User
		client repository.Client
	)
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}
		switch domain.InvoiceStatus(inv.Status) {
		case domain.InvoiceCancelled:
			return domain.ErrInvoiceCancelled
		case domain.InvoicePaid:
			return domain.ErrInvoiceAlreadyPaid
		}

		user, err = q.GetUserByID(ctx, uid)
		if err != nil {
			return mapNotFound(err, op, domain.ErrUserNotFound)
		}
		client, err = q.GetClient(ctx, repository.GetClientParams{ID: inv.ClientID, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrClientNotFound)
		}

		// Every sent invoice carries a live share link.
		if !inv.ShareEnabled || !inv.ShareID.Valid || inv.ShareID.String == "" {
			shareID := inv.ShareID
			if !shareID.Valid || shareID.String == "" {
				token, err := generateShareID()
				if err != nil {
					return domain.WrapError(err, domain.EINTERNAL, op, "Failed to generate share link")
				}
				shareID = textOf(token)
			}
			inv, err = q.UpdateInvoiceShare(ctx, repository.UpdateInvoiceShareParams{
				ID:           inv.ID,
				ShareID:      shareID,
				ShareEnabled: true,
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to enable share link")
			}
		}

		// Only a draft transitions; resending leaves the status alone.
		if domain.InvoiceStatus(inv.Status) == domain.InvoiceDraft {
			inv, err = applyTransition(ctx, q, inv, domain.InvoiceSent)
			if err != nil {
				return err
			}
		}

		detail, err = loadDetail(ctx, q, inv)
		return err
	})
	if err != nil {
		return nil, err
	}

	inv := detail.Invoice
	emailSent := false
	var outcome string
	switch {
	case !client.Email.Valid || client.Email.String == "":
		outcome = fmt.Sprintf("Invoice %s sent; client has no email on file", inv.InvoiceNumber)
	case s.emailService == nil:
		outcome = fmt.Sprintf("Invoice %s sent; email delivery not configured", inv.InvoiceNumber)
	default:
		sendCtx, cancel := context.WithTimeout(ctx, sendEmailTimeout)
		sendErr := s.emailService.SendInvoice(sendCtx, email.InvoiceSentEmail{
			ClientName:    client.Name,
			ClientEmail:   client.Email.String,
			SenderName:    displayName(user),
			InvoiceNumber: inv.InvoiceNumber,
			TotalAmount:   inv.TotalAmount.StringFixed(2),
			Currency:      inv.Currency,
			DueDate:       inv.DueDate.Time,
			ShareURL:      s.shareURL(inv.ShareID.String),
			Notes:         inv.Notes.String,
		})
		cancel()
		if sendErr != nil {
			s.logger.Error("invoice email delivery failed",
				slog.String("invoice_id", inv.ID.String()),
				slog.String("error", sendErr.Error()))
			outcome = fmt.Sprintf("Invoice %s sent; email delivery failed: %s", inv.InvoiceNumber, sendErr)
		} else {
			emailSent = true
			outcome = fmt.Sprintf("Invoice %s emailed to %s", inv.InvoiceNumber, client.Email.String)
		}
	}

	// Delivery already happened; its outcome is recorded best-effort too.
	if _, err := s.store.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
		InvoiceID:   inv.ID,
		Action:      string(domain.HistorySent),
		Description: outcome,
		ActorID:     uid,
	}); err != nil {
		s.logger.Error("failed to record send history",
			slog.String("invoice_id", inv.ID.String()),
			slog.String("error", err.Error()))
	} else if history, err := s.store.GetInvoiceHistory(ctx, inv.ID); err == nil {
		detail.History = history
	}

	return &SendOutcome{Invoice: detail, EmailSent: emailSent}, nil
}

func (s *invoiceService) DuplicateInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error) {
	const op = "invoice.duplicate"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", invoiceID)
	if err != nil {
		return nil, err
	}

	var detail *InvoiceDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		src, err := q.GetInvoice(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}
		items, err := q.GetInvoiceItems(ctx, src.ID)
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to load invoice items")
		}

		user, err := q.GetUserByID(ctx, uid)
		if err != nil {
			return mapNotFound(err, op, domain.ErrUserNotFound)
		}
		if err := checkInvoiceQuota(ctx, q, user); err != nil {
			return err
		}

		seq, err := q.NextInvoiceNumber(ctx, uid)
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to generate invoice number")
		}
		number := formatInvoiceNumber(seq.InvoicePrefix, seq.Sequence)

		now := time.Now().UTC()
		terms := user.PaymentTermsDays
		if terms <= 0 {
			terms = domain.DefaultPaymentTermsDays
		}

		dup, err := q.CreateInvoice(ctx, repository.CreateInvoiceParams{
			UserID:        uid,
			ClientID:      src.ClientID,
			InvoiceNumber: number,
			Status:        string(domain.InvoiceDraft),
			Subtotal:      src.Subtotal,
			TaxRate:       src.TaxRate,
			TaxAmount:     src.TaxAmount,
			Discount:      src.Discount,
			DiscountType:  src.DiscountType,
			TotalAmount:   src.TotalAmount,
			PaidAmount:    decimal.Zero,
			BalanceDue:    src.TotalAmount,
			Currency:      src.Currency,
			Notes:         src.Notes,
			InvoiceDate:   dateOf(now),
			DueDate:       dateOf(now.AddDate(0, 0, int(terms))),
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to create invoice")
		}

		for _, item := range items {
			_, err := q.CreateInvoiceItem(ctx, repository.CreateInvoiceItemParams{
				InvoiceID:   dup.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				Rate:        item.Rate,
				Amount:      item.Amount,
				Position:    item.Position,
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to copy invoice item")
			}
		}

		_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   dup.ID,
			Action:      string(domain.HistoryCreated),
			Description: fmt.Sprintf("Invoice %s duplicated from %s", number, src.InvoiceNumber),
			ActorID:     uid,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
		}

		detail, err = loadDetail(ctx, q, dup)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, userID, invoiceID string) (*InvoiceDetail, error) {
	const op = "invoice.cancel"

	uid, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", invoiceID)
	if err != nil {
		return nil, err
	}

	var detail *InvoiceDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}
		if inv.Status == string(domain.InvoicePaid) {
			return domain.ErrInvoiceAlreadyPaid
		}

		from := domain.InvoiceStatus(inv.Status)
		updated, err := applyTransition(ctx, q, inv, domain.InvoiceCancelled)
		if err != nil {
			return err
		}

		if from != domain.InvoiceCancelled {
			_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
				InvoiceID:   inv.ID,
				Action:      string(domain.HistoryCancelled),
				Description: fmt.Sprintf("Invoice %s cancelled", inv.InvoiceNumber),
				ActorID:     uid,
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
			}
		}

		detail, err = loadDetail(ctx, q, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *invoiceService) UpdateShare(ctx context.Context, params UpdateShareParams) (*InvoiceDetail, error) {
	const op = "invoice.update_share"

	uid, err := parseID("user ID", params.UserID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("invoice ID", params.InvoiceID)
	if err != nil {
		return nil, err
	}

	var detail *InvoiceDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inv, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: id, UserID: uid})
		if err != nil {
			return mapNotFound(err, op, domain.ErrInvoiceNotFound)
		}

		shareID := inv.ShareID
		if params.Regenerate || (params.Enabled && (!shareID.Valid || shareID.String == "")) {
			token, err := generateShareID()
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to generate share link")
			}
			shareID = textOf(token)
		}

		updated, err := q.UpdateInvoiceShare(ctx, repository.UpdateInvoiceShareParams{
			ID:           inv.ID,
			ShareID:      shareID,
			ShareEnabled: params.Enabled,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to update share link")
		}

		desc := "Share link disabled"
		if params.Enabled {
			desc = "Share link enabled"
			if params.Regenerate {
				desc = "Share link regenerated"
			}
		}
		_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   inv.ID,
			Action:      string(domain.HistoryUpdated),
			Description: desc,
			ActorID:     uid,
		})
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
		}

		detail, err = loadDetail(ctx, q, updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// viewableStatus reports whether a share-link view should transition the
// invoice to viewed.
func viewableStatus(status string) bool {
	return status == string(domain.InvoiceDraft) || status == string(domain.InvoiceSent)
}

func (s *invoiceService) GetSharedInvoice(ctx context.Context, shareID string) (*InvoiceDetail, error) {
	const op = "invoice.get_shared"

	if shareID == "" {
		return nil, domain.ErrInvoiceNotFound
	}

	inv, err := s.store.GetInvoiceByShareID(ctx, shareID)
	if err != nil {
		return nil, mapNotFound(err, op, domain.ErrInvoiceNotFound)
	}

	// First view moves draft or sent to viewed; later views change
	// nothing. Draft counts because a share link can be enabled before
	// the invoice is sent.
	if viewableStatus(inv.Status) {
		err = s.store.ExecTx(ctx, func(q repository.Querier) error {
			locked, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: inv.ID, UserID: inv.UserID})
			if err != nil {
				return mapNotFound(err, op, domain.ErrInvoiceNotFound)
			}
			if !viewableStatus(locked.Status) {
				inv = locked
				return nil
			}

			updated, err := applyTransition(ctx, q, locked, domain.InvoiceViewed)
			if err != nil {
				return err
			}
			_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
				InvoiceID:   inv.ID,
				Action:      string(domain.HistoryViewed),
				Description: "Invoice viewed via share link",
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
			}
			inv = updated
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return loadDetail(ctx, s.store, inv)
}

// bulk runs op against each id independently and classifies the outcomes.
// Conflicts count as skipped so a mixed batch reports partial success
// instead of aborting.
func (s *invoiceService) bulk(ctx context.Context, invoiceIDs []string, op func(ctx context.Context, invoiceID string) error) *BulkOutcome {
	outcome := &BulkOutcome{Results: make([]domain.BulkResult, 0, len(invoiceIDs))}
	for _, id := range invoiceIDs {
		result := domain.BulkResult{InvoiceID: id, Outcome: domain.BulkOutcomeOK}
		if err := op(ctx, id); err != nil {
			result.Error = domain.ErrorMessage(err)
			switch domain.ErrorCode(err) {
			case domain.ENOTFOUND:
				result.Outcome = domain.BulkOutcomeNotFound
				outcome.Summary.NotFound++
			case domain.ECONFLICT:
				result.Outcome = domain.BulkOutcomeSkipped
				outcome.Summary.Skipped++
			default:
				result.Outcome = domain.BulkOutcomeFailed
				outcome.Summary.Failed++
			}
		} else {
			outcome.Summary.Succeeded++
		}
		outcome.Results = append(outcome.Results, result)
	}
	return outcome
}

func (s *invoiceService) BulkSend(ctx context.Context, userID string, invoiceIDs []string) (*BulkOutcome, error) {
	if _, err := parseID("user ID", userID); err != nil {
		return nil, err
	}
	return s.bulk(ctx, invoiceIDs, func(ctx context.Context, invoiceID string) error {
		_, err := s.SendInvoice(ctx, userID, invoiceID)
		return err
	}), nil
}

func (s *invoiceService) BulkChangeStatus(ctx context.Context, userID string, invoiceIDs []string, target domain.InvoiceStatus) (*BulkOutcome, error) {
	if !target.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "invoice.bulk_change_status", "invalid status: %s", target)
	}
	if _, err := parseID("user ID", userID); err != nil {
		return nil, err
	}
	return s.bulk(ctx, invoiceIDs, func(ctx context.Context, invoiceID string) error {
		_, err := s.ChangeStatus(ctx, userID, invoiceID, target)
		return err
	}), nil
}

func (s *invoiceService) BulkMarkPaid(ctx context.Context, userID string, invoiceIDs []string) (*BulkOutcome, error) {
	if _, err := parseID("user ID", userID); err != nil {
		return nil, err
	}
	return s.bulk(ctx, invoiceIDs, func(ctx context.Context, invoiceID string) error {
		_, err := s.ChangeStatus(ctx, userID, invoiceID, domain.InvoicePaid)
		return err
	}), nil
}

func (s *invoiceService) BulkDelete(ctx context.Context, userID string, invoiceIDs []string) (*BulkOutcome, error) {
	if _, err := parseID("user ID", userID); err != nil {
		return nil, err
	}
	return s.bulk(ctx, invoiceIDs, func(ctx context.Context, invoiceID string) error {
		return s.DeleteInvoice(ctx, userID, invoiceID)
	}), nil
}

func (s *invoiceService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	const op = "invoice.sweep_overdue"

	candidates, err := s.store.ListOverdueInvoices(ctx, dateOf(now))
	if err != nil {
		return 0, domain.WrapError(err, domain.EINTERNAL, op, "Failed to list overdue candidates")
	}

	// Each invoice is swept in its own transaction so one failure never
	// blocks the rest of the batch.
	marked := 0
	users := map[string]repository.User{}
	for _, candidate := range candidates {
		var inv repository.Invoice
		err := s.store.ExecTx(ctx, func(q repository.Querier) error {
			locked, err := q.GetInvoiceForUpdate(ctx, repository.GetInvoiceParams{ID: candidate.ID, UserID: candidate.UserID})
			if err != nil {
				return mapNotFound(err, op, domain.ErrInvoiceNotFound)
			}
			switch domain.InvoiceStatus(locked.Status) {
			case domain.InvoiceSent, domain.InvoiceViewed:
			default:
				// Paid or cancelled since the candidate list was taken.
				return domain.ErrInvalidStatusTransition
			}

			inv, err = applyTransition(ctx, q, locked, domain.InvoiceOverdue)
			if err != nil {
				return err
			}
			_, err = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
				InvoiceID:   inv.ID,
				Action:      string(domain.HistoryStatusChanged),
				Description: fmt.Sprintf("Status changed from %s to %s automatically", locked.Status, domain.InvoiceOverdue),
			})
			if err != nil {
				return domain.WrapError(err, domain.EINTERNAL, op, "Failed to record invoice history")
			}
			return nil
		})
		if err != nil {
			if domain.ErrorCode(err) != domain.ECONFLICT {
				s.logger.Error("overdue sweep failed for invoice",
					slog.String("invoice_id", candidate.ID.String()),
					slog.String("error", err.Error()))
			}
			continue
		}
		marked++

		s.dispatchReminder(ctx, users, inv)
	}

	s.logger.Info("overdue sweep completed",
		slog.Int("candidates", len(candidates)),
		slog.Int("marked", marked))
	return marked, nil
}

// dispatchReminder enqueues an overdue reminder for a freshly marked
// invoice, honoring the owner's notification preferences. Failures are
// logged and never propagate into the sweep result.
func (s *invoiceService) dispatchReminder(ctx context.Context, users map[string]repository.User, inv repository.Invoice) {
	userKey := inv.UserID.String()
	user, ok := users[userKey]
	if !ok {
		var err error
		user, err = s.store.GetUserByID(ctx, inv.UserID)
		if err != nil {
			s.logger.Error("failed to load user for reminder",
				slog.String("invoice_id", inv.ID.String()),
				slog.String("error", err.Error()))
			s.recordReminderOutcome(ctx, inv, "Overdue reminder dispatch failed")
			return
		}
		users[userKey] = user
	}

	if !user.NotifyReminders {
		s.recordReminderOutcome(ctx, inv, "Overdue reminder skipped by notification preferences")
		return
	}

	var shareURL string
	if inv.ShareEnabled && inv.ShareID.Valid {
		shareURL = s.shareURL(inv.ShareID.String)
	}
	if err := jobs.EnqueueOverdueReminder(ctx, s.store, jobs.OverdueReminderPayload{
		InvoiceID: inv.ID.String(),
		UserID:    inv.UserID.String(),
		ShareURL:  shareURL,
	}); err != nil {
		s.logger.Error("failed to enqueue overdue reminder",
			slog.String("invoice_id", inv.ID.String()),
			slog.String("error", err.Error()))
		s.recordReminderOutcome(ctx, inv, "Overdue reminder dispatch failed")
	}
}

// recordReminderOutcome writes the reminder history row for invoices
// whose reminder was skipped or could not be enqueued, so every swept
// invoice carries exactly one reminder outcome.
func (s *invoiceService) recordReminderOutcome(ctx context.Context, inv repository.Invoice, description string) {
	if _, err := s.store.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
		InvoiceID:   inv.ID,
		Action:      string(domain.HistoryReminderSent),
		Description: description,
	}); err != nil {
		s.logger.Error("failed to record reminder history",
			slog.String("invoice_id", inv.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *invoiceService) ListHistory(ctx context.Context, userID, invoiceID string) ([]repository.InvoiceHistory, error) {
	const op = "invoice.list_history"

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

	history, err := s.store.GetInvoiceHistory(ctx, inv.ID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to load invoice history")
	}
	return history, nil
}
