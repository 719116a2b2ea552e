package middleware

import (
	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/service"
)

// Maintenance returns 503 for every non-admin request while the
// system-maintenance flag is on, so administrators can still reach the
// settings endpoint to turn it back off. Must run after RequireAuth.
func Maintenance(settings service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if ok && actor.IsAdmin() {
			return c.Next()
		}

		cfg, err := settings.Get(c.UserContext())
		if err != nil {
			// A broken settings read must not take the API down.
			return c.Next()
		}
		if cfg.SystemMaintenance {
			return fiber.NewError(fiber.StatusServiceUnavailable, "system is under maintenance")
		}
		return c.Next()
	}
}
