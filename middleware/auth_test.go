package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaywinner/academy_api/shared"
)

func newTestApp() *fiber.App {
	app := fiber.New()

	app.Get("/me", RequireUser(), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	app.Get("/admin", RequireUser(), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestRequireUserMissingHeader(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireUserStoresIdentity(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(shared.HeaderUserID, "u1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminOnly(t *testing.T) {
	t.Setenv("ADMIN_USER_IDS", "admin1, admin2")

	app := newTestApp()

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set(shared.HeaderUserID, "u1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set(shared.HeaderUserID, "admin2")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
