package routes

import (
	"github.com/lmeadows/billfold/internal/router"
)

// RegisterAPIRoutes registers the authenticated invoice, payment, and
// recurring-template routes. The caller passes a router group that already
// carries the user-identity middleware.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Invoices
	r.Post("/api/invoices", deps.InvoiceHandler.Create)
	r.Get("/api/invoices", deps.InvoiceHandler.List)
	r.Get("/api/invoices/{id}", deps.InvoiceHandler.Get)
	r.Put("/api/invoices/{id}", deps.InvoiceHandler.Update)
	r.Delete("/api/invoices/{id}", deps.InvoiceHandler.Delete)
	r.Post("/api/invoices/{id}/status", deps.InvoiceHandler.ChangeStatus)
	r.Post("/api/invoices/{id}/send", deps.InvoiceHandler.Send)
	r.Post("/api/invoices/{id}/duplicate", deps.InvoiceHandler.Duplicate)
	r.Post("/api/invoices/{id}/cancel", deps.InvoiceHandler.Cancel)
	r.Put("/api/invoices/{id}/share", deps.InvoiceHandler.UpdateShare)
	r.Get("/api/invoices/{id}/history", deps.InvoiceHandler.History)

	// Bulk operations
	r.Post("/api/invoices/bulk/send", deps.InvoiceHandler.BulkSend)
	r.Post("/api/invoices/bulk/status", deps.InvoiceHandler.BulkChangeStatus)
	r.Post("/api/invoices/bulk/mark-paid", deps.InvoiceHandler.BulkMarkPaid)
	r.Post("/api/invoices/bulk/delete", deps.InvoiceHandler.BulkDelete)

	// Payments
	r.Get("/api/invoices/{id}/payments", deps.PaymentHandler.ListForInvoice)
	r.Post("/api/invoices/{id}/payments", deps.PaymentHandler.Record)
	r.Post("/api/invoices/{id}/payments/charge", deps.PaymentHandler.Process)
	r.Post("/api/payments/{id}/refund", deps.PaymentHandler.Refund)
	r.Get("/api/payments", deps.PaymentHandler.List)
	r.Get("/api/payments/stats", deps.PaymentHandler.Stats)

	// Recurring templates
	r.Post("/api/recurring-invoices", deps.RecurringHandler.Create)
	r.Get("/api/recurring-invoices", deps.RecurringHandler.List)
	r.Get("/api/recurring-invoices/{id}", deps.RecurringHandler.Get)
	r.Put("/api/recurring-invoices/{id}", deps.RecurringHandler.Update)
	r.Delete("/api/recurring-invoices/{id}", deps.RecurringHandler.Delete)
	r.Post("/api/recurring-invoices/{id}/pause", deps.RecurringHandler.Pause)
	r.Post("/api/recurring-invoices/{id}/resume", deps.RecurringHandler.Resume)
	r.Post("/api/recurring-invoices/{id}/cancel", deps.RecurringHandler.Cancel)
	r.Post("/api/recurring-invoices/{id}/run", deps.RecurringHandler.RunNow)
}

// RegisterPublicRoutes registers routes that require no authentication:
// the share-link invoice view, pay-by-link, and the health probe.
func RegisterPublicRoutes(r *router.Router, deps PublicDeps) {
	r.Get("/i/{shareId}", deps.PublicHandler.SharedInvoice)
	r.Post("/i/{shareId}/pay", deps.PublicHandler.PayShared)
	r.Get("/healthz", deps.PublicHandler.Healthz)
}
