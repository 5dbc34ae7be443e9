package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/response"
)

// PermissionProtected gates a route on a single grant. Runs after
// AuthRequired; deactivated accounts fail here whatever their role.
func PermissionProtected(resource permissions.Resource, action permissions.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromContext(c)

		if !permissions.HasPermission(actor, permissions.Key(resource, action)) {
			return response.Forbidden(c, "You don't have permission to perform this action")
		}

		return c.Next()
	}
}
