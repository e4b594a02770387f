package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/clicks"
	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
)

// RecordClickRequest is the public click-tracking payload. All fields are
// optional; attribution degrades gracefully.
type RecordClickRequest struct {
	UserID     *uint  `json:"user_id"`
	Referrer   string `json:"referrer"`
	LandingURL string `json:"landing_url"`
}

// HandleRecordClick records a referral click for a partner.
func HandleRecordClick(c *fiber.Ctx) error {
	partnerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid partner id")
	}

	var req RecordClickRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid JSON body")
	}

	registry := clicks.NewRegistryFromDB(database.GetDB())
	click, err := registry.Record(c.Context(), clicks.RecordInput{
		PartnerID:  uint(partnerID),
		UserID:     req.UserID,
		IPAddress:  GetClientIP(c),
		UserAgent:  c.Get("User-Agent"),
		Referrer:   req.Referrer,
		LandingURL: req.LandingURL,
	})
	if err != nil {
		if errors.Is(err, clicks.ErrPartnerUnavailable) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Partner not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record click")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"uuid": click.UUID})
}

// HandleListActiveOffers returns a partner's active offers for landing pages.
func HandleListActiveOffers(c *fiber.Ctx) error {
	partnerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid partner id")
	}

	registry := clicks.NewRegistryFromDB(database.GetDB())
	offers, err := registry.ListActiveOffers(c.Context(), uint(partnerID))
	if err != nil {
		if errors.Is(err, clicks.ErrPartnerUnavailable) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Partner not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list offers")
	}
	return c.JSON(fiber.Map{"offers": offers})
}

// HandleListClicks lists the partner's referral clicks, newest first.
func HandleListClicks(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)
	opts := parseListOptions(c)

	repo := repository.GetGlobalFactory().GetClickRepository()
	clickList, total, err := repo.ListByPartner(ctx.PartnerID, opts)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list clicks")
	}
	return c.JSON(fiber.Map{"total": total, "clicks": clickList})
}
