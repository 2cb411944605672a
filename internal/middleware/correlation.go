package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const localCorrelationID = "correlation_id"

type correlationIDKey struct{}

type loggerKey struct{}

// CorrelationID makes sure every request carries an identifier echoed in X-Correlation-ID.
// The request context also receives a zerolog logger tagged with it.
func CorrelationID(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		incoming := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if incoming == "" {
			incoming = strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		}
		if incoming == "" || len(incoming) > 128 {
			incoming = uuid.NewString()
		}

		c.Locals(localCorrelationID, incoming)
		c.Set("X-Correlation-ID", incoming)

		requestLogger := base.With().Str("correlation_id", incoming).Logger()
		ctx := context.WithValue(c.UserContext(), correlationIDKey{}, incoming)
		ctx = context.WithValue(ctx, loggerKey{}, requestLogger)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetCorrelationID returns the correlation identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(localCorrelationID).(string); ok {
		return id
	}
	if id, ok := c.UserContext().Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestLogger returns the request scoped logger, or a disabled logger outside CorrelationID.
func RequestLogger(c *fiber.Ctx) zerolog.Logger {
	if c != nil {
		if logger, ok := c.UserContext().Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}
	return zerolog.Nop()
}
