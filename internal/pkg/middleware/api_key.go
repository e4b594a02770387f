package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
)

// StaffAPIKeyMiddleware authenticates partner-staff requests carrying an API
// key header and installs the partner scope for downstream handlers.
func StaffAPIKeyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}

		db := database.GetDB()
		if db == nil {
			log.Print("api key middleware: database unavailable")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Database unavailable"})
		}

		hash := models.HashAPIKey(apiKey)
		staff, err := models.GetStaffByAPIKeyHash(db, hash)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
			}
			log.Printf("api key lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "API key verification failed"})
		}

		if !staff.Partner.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Partner inactive"})
		}

		// Refresh last-used timestamp best-effort.
		now := time.Now()
		if err := db.Model(&models.PartnerStaff{}).
			Where("id = ?", staff.ID).
			Updates(map[string]any{"api_key_last_used_at": now}).Error; err != nil {
			log.Printf("failed to update api key usage timestamp for staff %d: %v", staff.ID, err)
		}

		ctx := partnercontext.PartnerContext{
			StaffUserID:     staff.UserID,
			PartnerID:       staff.PartnerID,
			PartnerName:     staff.Partner.Name,
			Role:            staff.Role,
			IsAuthenticated: true,
		}
		c.Locals(partnercontext.ContextKey, ctx)
		c.Locals(partnercontext.KeyStaffID, staff.UserID)
		c.Locals(partnercontext.KeyPartnerID, staff.PartnerID)
		c.Locals(partnercontext.KeyIsManager, staff.IsManager())

		return c.Next()
	}
}

// RequireManager restricts a route to staff holding the manager role. Must
// run after StaffAPIKeyMiddleware.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := partnercontext.Get(c)
		if !ctx.IsAuthenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}
		if ctx.Role != models.STAFF_ROLE_MANAGER {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Manager role required"})
		}
		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
