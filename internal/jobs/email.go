package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lmeadows/billfold/internal/email"
	"github.com/lmeadows/billfold/internal/repository"
)

// Job type constants for email jobs
const (
	JobTypePaymentReceipt  = "email:payment_receipt"
	JobTypeOverdueReminder = "email:overdue_reminder"
)

// PaymentReceiptPayload identifies the payment to notify the owner about.
type PaymentReceiptPayload struct {
	PaymentID string `json:"payment_id"`
	InvoiceID string `json:"invoice_id"`
	UserID    string `json:"user_id"`
}

// OverdueReminderPayload identifies the invoice to remind the client about.
type OverdueReminderPayload struct {
	InvoiceID string `json:"invoice_id"`
	UserID    string `json:"user_id"`
	ShareURL  string `json:"share_url,omitempty"`
}

// EnqueuePaymentReceipt enqueues a receipt email to the invoice owner.
func EnqueuePaymentReceipt(ctx context.Context, q repository.Querier, payload PaymentReceiptPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypePaymentReceipt,
		Queue:          "email",
		Payload:        payloadJSON,
		Priority:       50,
		MaxRetries:     3,
		ScheduledAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
		TimeoutSeconds: 60,
	})
	return err
}

// EnqueueOverdueReminder enqueues a reminder email to the invoice's client.
// A single attempt only: the reminder history row must record exactly one
// outcome per sweep.
func EnqueueOverdueReminder(ctx context.Context, q repository.Querier, payload OverdueReminderPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeOverdueReminder,
		Queue:          "email",
		Payload:        payloadJSON,
		Priority:       20,
		MaxRetries:     1,
		ScheduledAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
		TimeoutSeconds: 60,
	})
	return err
}

// IsEmailJob checks if a job type is an email job
func IsEmailJob(jobType string) bool {
	switch jobType {
	case JobTypePaymentReceipt, JobTypeOverdueReminder:
		return true
	}
	return false
}

// ProcessEmailJob processes an email job based on its type
func ProcessEmailJob(ctx context.Context, job *repository.Job, emailService *email.Service, q repository.Querier) error {
	if emailService == nil {
		return fmt.Errorf("email delivery not configured")
	}
	switch job.JobType {
	case JobTypePaymentReceipt:
		return processPaymentReceipt(ctx, job, emailService, q)
	case JobTypeOverdueReminder:
		return processOverdueReminder(ctx, job, emailService, q)
	default:
		return fmt.Errorf("unknown email job type: %s", job.JobType)
	}
}

func processPaymentReceipt(ctx context.Context, job *repository.Job, emailService *email.Service, q repository.Querier) error {
	var payload PaymentReceiptPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payment receipt payload: %w", err)
	}

	userID, err := parseUUID(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	invoiceID, err := parseUUID(payload.InvoiceID)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}
	paymentID, err := parseUUID(payload.PaymentID)
	if err != nil {
		return fmt.Errorf("invalid payment id: %w", err)
	}

	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.NotifyPayments {
		return nil
	}

	invoice, err := q.GetInvoice(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}
	payment, err := q.GetPayment(ctx, repository.GetPaymentParams{ID: paymentID, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	client, err := q.GetClient(ctx, repository.GetClientParams{ID: invoice.ClientID, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to load client: %w", err)
	}

	ownerName := user.Email
	if user.Name.Valid {
		ownerName = user.Name.String
	}

	return emailService.SendPaymentReceipt(ctx, email.PaymentReceivedEmail{
		OwnerName:     ownerName,
		OwnerEmail:    user.Email,
		ClientName:    client.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        payment.Amount.StringFixed(2),
		Currency:      invoice.Currency,
		PaymentDate:   payment.PaymentDate.Time,
		BalanceDue:    invoice.BalanceDue.StringFixed(2),
		FullyPaid:     invoice.Status == "paid",
	})
}

func processOverdueReminder(ctx context.Context, job *repository.Job, emailService *email.Service, q repository.Querier) error {
	var payload OverdueReminderPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal overdue reminder payload: %w", err)
	}

	userID, err := parseUUID(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	invoiceID, err := parseUUID(payload.InvoiceID)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := q.GetInvoice(ctx, repository.GetInvoiceParams{ID: invoiceID, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status != "overdue" {
		// Paid or cancelled between sweep and delivery, nothing to remind
		return nil
	}

	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	client, err := q.GetClient(ctx, repository.GetClientParams{ID: invoice.ClientID, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to load client: %w", err)
	}
	if !client.Email.Valid || client.Email.String == "" {
		_, _ = q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
			InvoiceID:   invoice.ID,
			Action:      "reminder_sent",
			Description: "Overdue reminder skipped: client has no email address",
		})
		return nil
	}

	senderName := user.Email
	if user.Name.Valid {
		senderName = user.Name.String
	}

	daysOverdue := 0
	if invoice.DueDate.Valid {
		daysOverdue = int(time.Since(invoice.DueDate.Time).Hours() / 24)
	}
	if daysOverdue < 1 {
		daysOverdue = 1
	}

	sendErr := emailService.SendOverdueReminder(ctx, email.OverdueReminderEmail{
		ClientName:    client.Name,
		ClientEmail:   client.Email.String,
		SenderName:    senderName,
		InvoiceNumber: invoice.InvoiceNumber,
		BalanceDue:    invoice.BalanceDue.StringFixed(2),
		Currency:      invoice.Currency,
		DueDate:       invoice.DueDate.Time,
		DaysOverdue:   daysOverdue,
		ShareURL:      payload.ShareURL,
	})

	description := fmt.Sprintf("Overdue reminder sent to %s", client.Email.String)
	if sendErr != nil {
		description = fmt.Sprintf("Overdue reminder delivery failed: %v", sendErr)
	}
	if _, err := q.CreateInvoiceHistory(ctx, repository.CreateInvoiceHistoryParams{
		InvoiceID:   invoice.ID,
		Action:      "reminder_sent",
		Description: description,
	}); err != nil {
		return fmt.Errorf("failed to record reminder history: %w", err)
	}

	return sendErr
}

func parseUUID(s string) (pgtype.UUID, error) {
	var id pgtype.UUID
	if err := id.Scan(s); err != nil {
		return pgtype.UUID{}, err
	}
	return id, nil
}
