package middleware

import (
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through when the resolved caller holds one
// of roles. It must run after ResolveCaller.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := identity.FromCtx(c)
		if caller.IsAnonymous() {
			return unauthorized(c, "Unauthorized")
		}
		if !caller.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Kind: string(apperr.KindAuthorization), Message: "Insufficient role for this action",
			})
		}
		return c.Next()
	}
}

// AdminRequired is RequireRole(models.RoleAdmin).
func AdminRequired() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}
