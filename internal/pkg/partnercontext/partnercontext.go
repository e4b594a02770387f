package partnercontext

import "github.com/gofiber/fiber/v2"

// PartnerContext represents the authenticated staff scope for a request.
type PartnerContext struct {
	StaffUserID     uint   `json:"staff_user_id"`
	PartnerID       uint   `json:"partner_id"`
	PartnerName     string `json:"partner_name"`
	Role            string `json:"role"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// Get retrieves the partner context from fiber context.
// Returns an unauthenticated context if none is set.
func Get(c *fiber.Ctx) PartnerContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(PartnerContext)
	}
	return PartnerContext{IsAuthenticated: false}
}

// IsAuthenticated checks if the request carries a valid staff identity.
func IsAuthenticated(c *fiber.Ctx) bool {
	return Get(c).IsAuthenticated
}

// PartnerID returns the partner scope of the request, or 0 if unauthenticated.
func PartnerID(c *fiber.Ctx) uint {
	return Get(c).PartnerID
}

// StaffUserID returns the acting staff user's ID, or 0 if unauthenticated.
func StaffUserID(c *fiber.Ctx) uint {
	return Get(c).StaffUserID
}

// IsManager checks if the current staff member holds the manager role.
func IsManager(c *fiber.Ctx) bool {
	return Get(c).Role == "manager"
}
