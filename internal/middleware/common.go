package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger *zerolog.Logger
	// AllowedOrigins is passed to the cors middleware. Empty disables CORS headers.
	AllowedOrigins string
	// AccessLog enables the plain text fiber access log alongside the structured one.
	AccessLog bool
}

// Register attaches the common middlewares used across the API.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.Nop()
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	app.Use(recover.New())
	app.Use(CorrelationID(requestLogger))
	app.Use(Observability())
	if cfg.AccessLog {
		app.Use(logger.New())
	}

	origins := strings.TrimSpace(cfg.AllowedOrigins)
	if origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			ExposeHeaders:    "X-Correlation-ID",
			AllowCredentials: origins != "*",
		}))
	}
}
