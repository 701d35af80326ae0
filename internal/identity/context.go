package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const callerLocalsKey = "caller"

// TokenLocalsKey is where the JWT middleware stores the parsed token.
const TokenLocalsKey = "user"

// SetCaller stores the resolved caller on the request.
func SetCaller(c *fiber.Ctx, caller Caller) {
	c.Locals(callerLocalsKey, caller)
}

// FromCtx returns the resolved caller, or Anonymous when none was resolved.
func FromCtx(c *fiber.Ctx) Caller {
	if caller, ok := c.Locals(callerLocalsKey).(Caller); ok {
		return caller
	}
	return Anonymous()
}

// SubjectFromToken extracts the user UUID from the verified JWT in context.
func SubjectFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(TokenLocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
