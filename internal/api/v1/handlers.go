package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/perkfox/perkfox/app/controllers"
	"github.com/perkfox/perkfox/internal/pkg/middleware"
)

// APIServer implements the public v1 surface documented in
// public/docs/v1/openapi.yml.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostRecordClick records a referral click for a partner.
func (s *APIServer) PostRecordClick(c *fiber.Ctx) error {
	return controllers.HandleRecordClick(c)
}

// GetPartnerOffers returns a partner's active offers.
func (s *APIServer) GetPartnerOffers(c *fiber.Ctx) error {
	return controllers.HandleListActiveOffers(c)
}

// PostIssueVoucher issues a voucher for a user under a partner's offer.
func (s *APIServer) PostIssueVoucher(c *fiber.Ctx) error {
	return controllers.HandleIssueVoucher(c)
}

// GetVoucher returns the holder-facing voucher view by code.
func (s *APIServer) GetVoucher(c *fiber.Ctx) error {
	return controllers.HandleGetVoucherPublic(c)
}

// GetStaffVoucher returns the staff-facing voucher view.
// Security is enforced via API key middleware attached in RegisterHandlers.
func (s *APIServer) GetStaffVoucher(c *fiber.Ctx) error {
	return controllers.HandleGetVoucherForStaff(c)
}

// PostRedeem performs the atomic staff-initiated redemption.
func (s *APIServer) PostRedeem(c *fiber.Ctx) error {
	return controllers.HandleRedeemVoucher(c)
}

// PostDigitalConversion records a pending digital conversion.
func (s *APIServer) PostDigitalConversion(c *fiber.Ctx) error {
	return controllers.HandleRecordDigitalConversion(c)
}

// RegisterHandlers installs the v1 routes. Staff routes sit behind the
// partner-staff API key middleware; the conversion lifecycle additionally
// requires the manager role.
func RegisterHandlers(v1 fiber.Router, s *APIServer) {
	v1.Get("/ping", s.GetPing)

	// Public: click tracking, offer discovery, voucher issuance and lookup.
	v1.Post("/partners/:id/clicks", s.PostRecordClick)
	v1.Get("/partners/:id/offers", s.GetPartnerOffers)
	v1.Post("/vouchers", s.PostIssueVoucher)
	v1.Get("/vouchers/:code", s.GetVoucher)

	// Staff scope.
	staff := v1.Group("/staff", middleware.StaffAPIKeyMiddleware())
	staff.Get("/vouchers", controllers.HandleListVouchers)
	staff.Get("/vouchers/:code", s.GetStaffVoucher)
	staff.Post("/vouchers/:code/cancel", controllers.HandleCancelVoucher)
	staff.Post("/redemptions", s.PostRedeem)
	staff.Get("/redemptions", controllers.HandleListRedemptions)
	staff.Post("/conversions", s.PostDigitalConversion)
	staff.Get("/conversions", controllers.HandleListConversions)
	staff.Get("/clicks", controllers.HandleListClicks)
	staff.Get("/stats/summary", controllers.HandleGetPartnerSummary)
	staff.Get("/stats/daily", controllers.HandleGetDailySeries)

	// Manager-only conversion lifecycle.
	manager := staff.Group("", middleware.RequireManager())
	manager.Post("/conversions/:id/confirm", controllers.HandleConfirmConversion)
	manager.Post("/conversions/:id/paid", controllers.HandleMarkConversionPaid)
}
