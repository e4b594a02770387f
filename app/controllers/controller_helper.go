package controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/redemption"
	"github.com/perkfox/perkfox/internal/pkg/voucher"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// GetClientIP determines the actual client IP address considering proxies.
func GetClientIP(c *fiber.Ctx) string {
	cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP"))
	if cfIP != "" {
		return cfIP
	}
	xff := strings.Split(c.Get("X-Forwarded-For"), ",")
	if len(xff) > 0 && strings.TrimSpace(xff[0]) != "" {
		return strings.TrimSpace(xff[0])
	}
	return c.IP()
}

// parseListOptions reads pagination and filter query params shared by the
// partner-facing list endpoints.
func parseListOptions(c *fiber.Ctx) repository.ListOptions {
	opts := repository.ListOptions{
		Limit:  defaultPageSize,
		Status: strings.TrimSpace(c.Query("status")),
		Type:   strings.TrimSpace(c.Query("type")),
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		if limit > maxPageSize {
			limit = maxPageSize
		}
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}
	if since, err := time.Parse(time.RFC3339, c.Query("since")); err == nil {
		opts.Since = &since
	}
	if until, err := time.Parse(time.RFC3339, c.Query("until")); err == nil {
		opts.Until = &until
	}
	return opts
}

// jsonError writes the standard error shape.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// mapVoucherError translates voucher store errors to HTTP responses.
func mapVoucherError(c *fiber.Ctx, err error) error {
	var dup *voucher.DuplicateActiveVoucherError
	switch {
	case errors.Is(err, voucher.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Voucher not found")
	case errors.Is(err, voucher.ErrPartnerUnavailable):
		return jsonError(c, fiber.StatusUnprocessableEntity, "partner_unavailable", "Partner does not exist or is inactive")
	case errors.Is(err, voucher.ErrOfferUnavailable):
		return jsonError(c, fiber.StatusUnprocessableEntity, "offer_unavailable", "Offer does not exist or is inactive")
	case errors.Is(err, voucher.ErrNotCancellable):
		return jsonError(c, fiber.StatusUnprocessableEntity, "not_cancellable", "Voucher is in a terminal state")
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "duplicate_active_voucher",
			"message": "User already holds an active voucher for this partner",
			"voucher": dup.Existing,
		})
	default:
		log.Printf("voucher operation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Voucher operation failed")
	}
}

// mapRedemptionError translates redemption engine errors to HTTP responses.
func mapRedemptionError(c *fiber.Ctx, err error) error {
	var notRedeemable *redemption.NotRedeemableError
	switch {
	case errors.Is(err, redemption.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Voucher not found")
	case errors.Is(err, redemption.ErrAlreadyRedeemed):
		return jsonError(c, fiber.StatusConflict, "already_redeemed", "Voucher has already been redeemed")
	case errors.Is(err, redemption.ErrExpired):
		return jsonError(c, fiber.StatusGone, "expired", "Voucher has expired")
	case errors.Is(err, redemption.ErrPartnerUnavailable):
		return jsonError(c, fiber.StatusUnprocessableEntity, "partner_unavailable", "Partner does not exist or is inactive")
	case errors.Is(err, redemption.ErrConversionNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Conversion not found")
	case errors.Is(err, redemption.ErrConversionNotPending):
		return jsonError(c, fiber.StatusConflict, "conversion_not_pending", "Conversion is not pending")
	case errors.Is(err, redemption.ErrConversionNotConfirmed):
		return jsonError(c, fiber.StatusConflict, "conversion_not_confirmed", "Conversion is not confirmed")
	case errors.As(err, &notRedeemable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "not_redeemable",
			"message": "Voucher cannot be redeemed",
			"status":  notRedeemable.Status,
		})
	case redemption.IsTransient(err):
		log.Printf("transient redemption failure: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Temporary store failure, retry the redemption")
	default:
		log.Printf("redemption operation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Redemption operation failed")
	}
}
