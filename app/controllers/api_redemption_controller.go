package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
	"github.com/perkfox/perkfox/internal/pkg/redemption"
)

// RedeemRequest is the staff-side redemption payload. The voucher code is the
// only required field; the sale amount is optional for fixed-benefit offers.
type RedeemRequest struct {
	Code       string  `json:"code" validate:"required"`
	SaleAmount *string `json:"sale_amount"`
	Notes      string  `json:"notes" validate:"max=1000"`
}

// HandleRedeemVoucher performs the atomic staff-initiated redemption.
func HandleRedeemVoucher(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)

	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	var saleAmount *decimal.Decimal
	if req.SaleAmount != nil {
		amount, err := decimal.NewFromString(*req.SaleAmount)
		if err != nil {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "sale_amount is not a valid decimal")
		}
		if amount.IsNegative() {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "sale_amount must not be negative")
		}
		saleAmount = &amount
	}

	engine := redemption.NewEngine(database.GetDB())
	result, err := engine.Redeem(c.Context(), redemption.RedeemInput{
		Code:        req.Code,
		PartnerID:   ctx.PartnerID,
		StaffUserID: ctx.StaffUserID,
		SaleAmount:  saleAmount,
		Notes:       req.Notes,
		IPAddress:   GetClientIP(c),
		UserAgent:   c.Get("User-Agent"),
	})
	if err != nil {
		return mapRedemptionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListRedemptions lists the partner's redemptions, newest first.
func HandleListRedemptions(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	opts := parseListOptions(c)

	repo := repository.GetGlobalFactory().GetRedemptionRepository()
	redemptions, total, err := repo.ListByPartner(ctx.PartnerID, opts)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list redemptions")
	}
	return c.JSON(fiber.Map{"total": total, "redemptions": redemptions})
}
