package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the allowed roles.
// It must run after Authenticate.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthenticated", "authentication required")
		}

		if _, ok := allowed[strings.ToLower(actor.Role)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "forbidden", "insufficient permissions")
		}
		return c.Next()
	}
}
