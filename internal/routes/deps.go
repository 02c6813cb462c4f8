package routes

import (
	"github.com/lmeadows/billfold/internal/handler"
)

// APIDeps contains handlers for the authenticated API surface.
type APIDeps struct {
	InvoiceHandler   *handler.InvoiceHandler
	PaymentHandler   *handler.PaymentHandler
	RecurringHandler *handler.RecurringHandler
}

// PublicDeps contains handlers reachable without authentication.
type PublicDeps struct {
	PublicHandler *handler.PublicHandler
}
