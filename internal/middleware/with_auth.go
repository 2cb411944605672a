package middleware

import "github.com/gofiber/fiber/v2"

// WithAuth returns the guard chain for a route group: Authenticate followed by a role
// check when roles are given. Without roles any authenticated identity passes.
//
//	api.Group("/student", middleware.WithAuth(resolver, models.RoleStudent)...)
func WithAuth(resolver IdentityResolver, roles ...string) []fiber.Handler {
	handlers := []fiber.Handler{Authenticate(resolver)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	return handlers
}
