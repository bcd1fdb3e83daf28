package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/shared"
)

// RequireUser pulls the caller identity from the X-User-ID header and stores
// it in request locals. Identity is assigned by the chat platform upstream;
// there is no credential exchange here.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(shared.HeaderUserID))
		if userID == "" {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Missing "+shared.HeaderUserID+" header", nil)
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// AdminOnly restricts a route to the static allow-list in ADMIN_USER_IDS
// (comma separated). Must run after RequireUser.
func AdminOnly() fiber.Handler {
	admins := map[string]bool{}
	for _, id := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = true
		}
	}

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(shared.UserID).(string)
		if !admins[userID] {
			appErr := shared.NewUnauthorizedError(fmt.Errorf("user %s is not an admin", userID), "Admin access required")
			return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, nil)
		}
		return c.Next()
	}
}

// UserID returns the identity stored by RequireUser.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(shared.UserID).(string)
	return userID
}
