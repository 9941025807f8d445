package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserContextMiddleware extracts the user identity set by the gateway.
// Rewards are scoped per organization, so X-Org-ID is required alongside X-User-ID.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		orgID := strings.TrimSpace(c.Get("X-Org-ID"))
		rolesStr := c.Get("X-User-Roles")

		if userID == "" || orgID == "" {
			logrus.Warnf("❌ [USER_CTX] X-User-ID / X-Org-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID or X-Org-ID: request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", userID)
		c.Locals("org_id", orgID)
		c.Locals("user_roles", roles)
		c.Locals("timezone", c.Get("X-Timezone"))

		logrus.WithFields(logrus.Fields{"user_id": userID, "org_id": orgID, "roles": roles}).
			Debugf("👤 [USER_CTX] %s", c.Path())

		return c.Next()
	}
}
