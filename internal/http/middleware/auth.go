package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/service"
)

const (
	// ClaimsLocalKey stores the verified token claims in Fiber locals.
	ClaimsLocalKey = "claims"
	// ActorLocalKey stores the derived service.Actor in Fiber locals.
	ActorLocalKey = "actor"
)

// RequireAuth verifies the Bearer token and stores the claims and the
// derived actor in the request locals. Requests without a valid token
// are rejected before reaching any handler.
func RequireAuth(signer auth.TokenSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return service.ErrUnauthenticated
		}

		claims, err := signer.Verify(token)
		if err != nil {
			return service.ErrUnauthenticated
		}

		c.Locals(ClaimsLocalKey, claims)
		c.Locals(ActorLocalKey, service.Actor{
			ID:         claims.UserID,
			Role:       claims.Role,
			DivisionID: claims.DivisionID,
		})
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by RequireAuth.
func ActorFromCtx(c *fiber.Ctx) (service.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(service.Actor)
	return actor, ok
}

// RequireAdmin rejects non-administrator actors. Must run after
// RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return service.ErrUnauthenticated
		}
		if !actor.IsAdmin() {
			return service.ErrForbidden
		}
		return c.Next()
	}
}
