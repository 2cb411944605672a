package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/daily-coding-api/internal/config"
	"github.com/noah-isme/daily-coding-api/internal/handler"
	"github.com/noah-isme/daily-coding-api/internal/middleware"
	"github.com/noah-isme/daily-coding-api/internal/models"
	"github.com/noah-isme/daily-coding-api/internal/observability"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	StudentHandler *handler.StudentHandler
	AdminHandler   *handler.AdminHandler
	FacultyHandler *handler.FacultyHandler
	Resolver       middleware.IdentityResolver
}

// Register wires the HTTP routes into the fiber application. Every group except
// health and auth is mounted behind the access guard.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg.AppName, cfg.AppEnv))

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", cfg.AuthRateLimit, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", middleware.WithAuth(deps.Resolver, models.RoleStudent)...)
		deps.StudentHandler.Register(student)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", middleware.WithAuth(deps.Resolver, models.RoleAdmin)...)
		deps.AdminHandler.Register(admin)
	}

	if deps.FacultyHandler != nil {
		faculty := api.Group("/faculty", middleware.WithAuth(deps.Resolver, models.RoleFaculty, models.RoleAdmin)...)
		deps.FacultyHandler.Register(faculty)
	}

	app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "not_found", "route not found")
	})
}
