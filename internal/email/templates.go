package email

import "time"

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// InvoiceSentEmail notifies a client that an invoice is ready for them.
type InvoiceSentEmail struct {
	ClientName    string
	ClientEmail   string
	SenderName    string
	InvoiceNumber string
	TotalAmount   string
	Currency      string
	DueDate       time.Time
	ShareURL      string
	Notes         string
}

func (e InvoiceSentEmail) Subject() string {
	return "Invoice " + e.InvoiceNumber + " from " + e.SenderName
}

func (e InvoiceSentEmail) TemplateName() string {
	return "invoice_sent.html"
}

// PaymentReceivedEmail is the receipt sent to the account owner when a
// payment lands on one of their invoices.
type PaymentReceivedEmail struct {
	OwnerName     string
	OwnerEmail    string
	ClientName    string
	InvoiceNumber string
	Amount        string
	Currency      string
	PaymentDate   time.Time
	BalanceDue    string
	FullyPaid     bool
}

func (e PaymentReceivedEmail) Subject() string {
	return "Payment received for invoice " + e.InvoiceNumber
}

func (e PaymentReceivedEmail) TemplateName() string {
	return "payment_received.html"
}

// OverdueReminderEmail nudges a client about an invoice past its due date.
type OverdueReminderEmail struct {
	ClientName    string
	ClientEmail   string
	SenderName    string
	InvoiceNumber string
	BalanceDue    string
	Currency      string
	DueDate       time.Time
	DaysOverdue   int
	ShareURL      string
}

func (e OverdueReminderEmail) Subject() string {
	return "Reminder: invoice " + e.InvoiceNumber + " is overdue"
}

func (e OverdueReminderEmail) TemplateName() string {
	return "overdue_reminder.html"
}
