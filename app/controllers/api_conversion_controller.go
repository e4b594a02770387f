package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
	"github.com/perkfox/perkfox/internal/pkg/redemption"
)

// DigitalConversionRequest is the partner-side manual conversion payload.
type DigitalConversionRequest struct {
	Amount  string `json:"amount" validate:"required"`
	Notes   string `json:"notes" validate:"max=1000"`
	ClickID *uint  `json:"click_id"`
}

// HandleRecordDigitalConversion records a pending digital conversion for the
// authenticated partner.
func HandleRecordDigitalConversion(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)

	var req DigitalConversionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "amount is not a valid decimal")
	}
	if amount.IsNegative() {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "amount must not be negative")
	}

	engine := redemption.NewEngine(database.GetDB())
	conversion, err := engine.RecordDigitalConversion(c.Context(), ctx.PartnerID, amount, req.Notes, req.ClickID)
	if err != nil {
		return mapRedemptionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conversion)
}

// HandleConfirmConversion confirms a pending conversion. Manager role only.
func HandleConfirmConversion(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	conversionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid conversion id")
	}

	engine := redemption.NewEngine(database.GetDB())
	conversion, err := engine.ConfirmConversion(c.Context(), uint(conversionID), ctx.PartnerID, ctx.StaffUserID)
	if err != nil {
		return mapRedemptionError(c, err)
	}
	return c.JSON(conversion)
}

// HandleMarkConversionPaid marks a confirmed conversion as paid out. Manager
// role only.
func HandleMarkConversionPaid(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	conversionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid conversion id")
	}

	engine := redemption.NewEngine(database.GetDB())
	conversion, err := engine.MarkConversionPaid(c.Context(), uint(conversionID), ctx.PartnerID)
	if err != nil {
		return mapRedemptionError(c, err)
	}
	return c.JSON(conversion)
}

// HandleListConversions lists the partner's conversions with optional status
// and type filters.
func HandleListConversions(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	opts := parseListOptions(c)

	repo := repository.GetGlobalFactory().GetConversionRepository()
	conversions, total, err := repo.ListByPartner(ctx.PartnerID, opts)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list conversions")
	}
	return c.JSON(fiber.Map{"total": total, "conversions": conversions})
}
