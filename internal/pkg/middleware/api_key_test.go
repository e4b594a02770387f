package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/internal/pkg/database"
	"github.com/perkfox/perkfox/internal/pkg/partnercontext"
)

func setupAuthTest(t *testing.T) (*fiber.App, *gorm.DB, *models.PartnerStaff, string) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.PartnerStaff{},
	))
	database.SetDB(conn)

	partner := &models.Partner{
		Name:           "Cafe Milo",
		CommissionType: models.CommissionPercentOfBill,
		CommissionRate: decimal.RequireFromString("10"),
		IsActive:       true,
	}
	require.NoError(t, conn.Create(partner).Error)

	user := &models.User{Name: "Staff One", Email: "staff@example.com", Status: models.STATUS_ACTIVE}
	require.NoError(t, conn.Create(user).Error)

	staff := &models.PartnerStaff{
		UserID:    user.ID,
		PartnerID: partner.ID,
		Role:      models.STAFF_ROLE_STAFF,
		IsActive:  true,
	}
	rawKey, err := staff.IssueAPIKey()
	require.NoError(t, err)
	require.NoError(t, conn.Create(staff).Error)

	app := fiber.New()
	app.Get("/whoami", StaffAPIKeyMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(partnercontext.Get(c))
	})
	app.Post("/manage", StaffAPIKeyMiddleware(), RequireManager(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app, conn, staff, rawKey
}

func TestStaffAPIKeyMiddleware(t *testing.T) {
	app, _, staff, rawKey := setupAuthTest(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-API-Key", rawKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ctx partnercontext.PartnerContext
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ctx))
	assert.True(t, ctx.IsAuthenticated)
	assert.Equal(t, staff.PartnerID, ctx.PartnerID)
	assert.Equal(t, staff.UserID, ctx.StaffUserID)
	assert.Equal(t, models.STAFF_ROLE_STAFF, ctx.Role)
}

func TestStaffAPIKeyMiddlewareBearerHeader(t *testing.T) {
	app, _, _, rawKey := setupAuthTest(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+rawKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStaffAPIKeyMiddlewareRejectsMissingKey(t *testing.T) {
	app, _, _, _ := setupAuthTest(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStaffAPIKeyMiddlewareRejectsInvalidKey(t *testing.T) {
	app, _, _, _ := setupAuthTest(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-API-Key", "pfx_notarealkey")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStaffAPIKeyMiddlewareRejectsRevokedKey(t *testing.T) {
	app, db, staff, rawKey := setupAuthTest(t)

	staff.RevokeAPIKey()
	require.NoError(t, db.Save(staff).Error)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-API-Key", rawKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireManagerForbidsStaffRole(t *testing.T) {
	app, _, _, rawKey := setupAuthTest(t)

	req := httptest.NewRequest("POST", "/manage", nil)
	req.Header.Set("X-API-Key", rawKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireManagerAllowsManagerRole(t *testing.T) {
	app, db, staff, rawKey := setupAuthTest(t)

	staff.Role = models.STAFF_ROLE_MANAGER
	require.NoError(t, db.Save(staff).Error)

	req := httptest.NewRequest("POST", "/manage", nil)
	req.Header.Set("X-API-Key", rawKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
