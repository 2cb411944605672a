package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/daily-coding-api/internal/middleware"
	"github.com/noah-isme/daily-coding-api/internal/service"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

var errInvalidBody = &service.InputError{Message: "invalid request body"}

// respondError maps the service error taxonomy onto HTTP responses. Anything outside the
// taxonomy is logged and reported as a generic 500.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid_input", inputErr.Message)
	case errors.Is(err, service.ErrInvalidInput):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid_input", publicMessage(err, service.ErrInvalidInput))
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden", "insufficient permissions")
	case errors.Is(err, service.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "not_found", publicMessage(err, service.ErrNotFound))
	case errors.Is(err, service.ErrConflict):
		return utils.SendError(c, fiber.StatusConflict, "conflict", publicMessage(err, service.ErrConflict))
	case errors.Is(err, service.ErrTooManyLoginAttempts):
		return utils.SendError(c, fiber.StatusTooManyRequests, "too_many_attempts", "too many failed login attempts, try again later")
	default:
		logger.Error().
			Err(err).
			Str("correlation_id", middleware.GetCorrelationID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unexpected error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal", "internal server error")
	}
}

// publicMessage strips the wrapped taxonomy sentinel, leaving the domain message.
func publicMessage(err, sentinel error) string {
	message := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if message == "" {
		return sentinel.Error()
	}
	return message
}

func currentActor(c *fiber.Ctx) (service.Actor, error) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return service.Actor{}, service.ErrUnauthenticated
	}
	return actor, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	value := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, &service.InputError{Message: name + " must be a positive integer"}
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, target interface{}) error {
	if err := c.BodyParser(target); err != nil {
		return errInvalidBody
	}
	return nil
}
