package middleware

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/config"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/dto"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(apperr.KindAuthentication),
		Message: message,
	})
}

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: identity.TokenLocalsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// OptionalJWT verifies a bearer token when one is sent and lets anonymous
// requests through. A malformed or expired token is still rejected.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: identity.TokenLocalsKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// CallerResolver turns a verified token subject into a caller.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, subject uuid.UUID) (identity.Caller, error)
}

// ResolveCaller loads the caller behind the verified token and stores it on
// the request. Requests without a token continue as anonymous.
func ResolveCaller(resolver CallerResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(identity.TokenLocalsKey) == nil {
			identity.SetCaller(c, identity.Anonymous())
			return c.Next()
		}

		subject, err := identity.SubjectFromToken(c)
		if err != nil {
			return unauthorized(c, "Unauthorized: invalid token subject")
		}

		caller, err := resolver.ResolveCaller(c.UserContext(), subject)
		if err != nil {
			return unauthorized(c, "Unauthorized: unknown user")
		}

		identity.SetCaller(c, caller)
		c.Locals("user_id", caller.ID.String())
		return c.Next()
	}
}
