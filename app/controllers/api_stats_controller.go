package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
	"github.com/perkfox/perkfox/internal/pkg/statistics"
)

// HandleGetPartnerSummary returns the partner's dashboard rollup.
func HandleGetPartnerSummary(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)

	agg := statistics.NewAggregator(repository.GetGlobalRepositories())
	agg.UpdateCacheIfNeeded(ctx.PartnerID)

	summary, err := agg.GetSummary(ctx.PartnerID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load statistics")
	}
	return c.JSON(summary)
}

// HandleGetDailySeries returns the partner's daily activity series. Accepts a
// `days` query param, default 30, capped at 365.
func HandleGetDailySeries(c *fiber.Ctx) error {
	ctx := partnercontext.Get(c)

	days := 30
	if parsed, err := strconv.Atoi(c.Query("days")); err == nil && parsed > 0 {
		days = parsed
	}
	if days > 365 {
		days = 365
	}

	agg := statistics.NewAggregator(repository.GetGlobalRepositories())
	series, err := agg.GetDailySeries(ctx.PartnerID, days)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load statistics")
	}
	return c.JSON(fiber.Map{"days": days, "series": series})
}
