package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListOptions(t *testing.T) {
	app := fiber.New()

	var got struct {
		limit  int
		offset int
		status string
	}
	app.Get("/list", func(c *fiber.Ctx) error {
		opts := parseListOptions(c)
		got.limit = opts.Limit
		got.offset = opts.Offset
		got.status = opts.Status
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/list?limit=10&offset=5&status=pending", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, got.limit)
	assert.Equal(t, 5, got.offset)
	assert.Equal(t, "pending", got.status)

	resp, err = app.Test(httptest.NewRequest("GET", "/list?limit=9999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, maxPageSize, got.limit)

	resp, err = app.Test(httptest.NewRequest("GET", "/list", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, defaultPageSize, got.limit)
	assert.Equal(t, 0, got.offset)
}

func TestGetClientIP(t *testing.T) {
	app := fiber.New()

	var got string
	app.Get("/ip", func(c *fiber.Ctx) error {
		got = GetClientIP(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", got)

	req = httptest.NewRequest("GET", "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.1", got)
}
