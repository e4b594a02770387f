package partnercontext

// Shared Locals keys used across controllers and middlewares
const (
	ContextKey   = "PARTNER_CONTEXT"
	KeyStaffID   = "staff_user_id"
	KeyPartnerID = "partner_id"
	KeyIsManager = "is_manager"
)
