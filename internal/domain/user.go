package domain

// SubscriptionPlan is a user's billing tier. It determines the default cap
// on non-cancelled invoices.
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanBasic      SubscriptionPlan = "basic"
	PlanPremium    SubscriptionPlan = "premium"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// Default invoice limits per plan. Zero means unlimited.
const (
	FreePlanInvoiceLimit  = 5
	BasicPlanInvoiceLimit = 50
)

// InvoiceLimit returns the default invoice cap for a plan.
// Zero means unlimited.
func (p SubscriptionPlan) InvoiceLimit() int32 {
	switch p {
	case PlanFree:
		return FreePlanInvoiceLimit
	case PlanBasic:
		return BasicPlanInvoiceLimit
	default:
		return 0
	}
}

// User-related domain errors.
var (
	ErrUserNotFound = &Error{Code: ENOTFOUND, Message: "User not found"}
)

// DefaultPaymentTermsDays is used when neither a template override nor the
// user's stored payment terms provide a due-in period.
const DefaultPaymentTermsDays = 30
