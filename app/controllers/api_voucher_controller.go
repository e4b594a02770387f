package controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
	"github.com/perkfox/perkfox/internal/pkg/voucher"
)

// IssueVoucherRequest is the payload for the platform-side issuance endpoint.
type IssueVoucherRequest struct {
	PartnerID uint  `json:"partner_id" validate:"required"`
	OfferID   *uint `json:"offer_id"`
	UserID    uint  `json:"user_id" validate:"required"`
}

// HandleIssueVoucher issues a voucher for a user under a partner's offer.
func HandleIssueVoucher(c *fiber.Ctx) error {
	var req IssueVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}
	if err := validator.New().Struct(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	store := voucher.NewStoreFromDB(database.GetDB())
	v, err := store.Issue(c.Context(), req.PartnerID, req.OfferID, req.UserID)
	if err != nil {
		return mapVoucherError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"code":       v.Code,
		"status":     v.Status,
		"partner_id": v.PartnerID,
		"offer_id":   v.OfferID,
		"expires_at": v.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleGetVoucherPublic returns the holder-facing view of a voucher. Marks
// the first view.
func HandleGetVoucherPublic(c *fiber.Ctx) error {
	code := c.Params("code")

	store := voucher.NewStoreFromDB(database.GetDB())
	view, err := store.GetPublic(c.Context(), code)
	if err != nil {
		return mapVoucherError(c, err)
	}
	return c.JSON(view)
}

// HandleGetVoucherForStaff returns the staff-facing view of a voucher within
// the authenticated partner scope.
func HandleGetVoucherForStaff(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	code := c.Params("code")

	store := voucher.NewStoreFromDB(database.GetDB())
	view, err := store.GetForStaff(c.Context(), code, ctx.PartnerID)
	if err != nil {
		return mapVoucherError(c, err)
	}
	return c.JSON(view)
}

// HandleCancelVoucher administratively cancels a voucher within the partner
// scope.
func HandleCancelVoucher(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	code := c.Params("code")

	store := voucher.NewStoreFromDB(database.GetDB())
	v, err := store.Cancel(c.Context(), code, ctx.PartnerID)
	if err != nil {
		return mapVoucherError(c, err)
	}
	return c.JSON(fiber.Map{"code": v.Code, "status": v.Status})
}

// HandleListVouchers lists the partner's vouchers, newest first.
func HandleListVouchers(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	opts := parseListOptions(c)

	store := voucher.NewStoreFromDB(database.GetDB())
	vouchers, total, err := store.List(c.Context(), ctx.PartnerID, opts)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list vouchers")
	}
	return c.JSON(fiber.Map{"total": total, "vouchers": vouchers})
}
