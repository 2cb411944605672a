package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/daily-coding-api/internal/service"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// Locals keys populated by Authenticate.
const (
	LocalUserID    = "user_id"
	LocalUserRole  = "user_role"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
	localActor     = "actor"
)

type actorContextKey struct{}

// IdentityResolver turns a raw bearer token into the current identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, rawToken string) (service.Actor, error)
}

// Authenticate verifies the bearer token and attaches the resolved identity to the request.
// Requests without a valid token never reach the next handler.
func Authenticate(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthenticated", "authentication required")
		}

		actor, err := resolver.ResolveIdentity(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return utils.SendError(c, fiber.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			}
			logger := RequestLogger(c)
			logger.Error().Err(err).Msg("failed to resolve identity")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal", "internal server error")
		}

		c.Locals(LocalUserID, actor.ID)
		c.Locals(LocalUserRole, actor.Role)
		c.Locals(LocalUserEmail, actor.Email)
		c.Locals(LocalUserName, actor.Name)
		c.Locals(localActor, actor)
		c.SetUserContext(ContextWithActor(c.UserContext(), actor))

		return c.Next()
	}
}

// CurrentActor returns the identity attached by Authenticate.
func CurrentActor(c *fiber.Ctx) (service.Actor, bool) {
	if c == nil {
		return service.Actor{}, false
	}
	if actor, ok := c.Locals(localActor).(service.Actor); ok && actor.ID != 0 {
		return actor, true
	}
	return ActorFromContext(c.UserContext())
}

// ContextWithActor stores actor on ctx.
func ContextWithActor(ctx context.Context, actor service.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the identity stored by ContextWithActor.
func ActorFromContext(ctx context.Context) (service.Actor, bool) {
	if ctx == nil {
		return service.Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(service.Actor)
	return actor, ok && actor.ID != 0
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
