package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/types"
)

// Context keys for the verified identity set by AuthRequired.
const (
	LocalsUserID = "userID"
	LocalsEmail  = "email"
)

// AuthRequired gates every protected route. The raw Authorization header
// value is the token itself, no scheme prefix; existing clients send it that
// way. Missing header fails 401 before any handler runs; a present but
// invalid or expired token fails 403.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			return types.NewAuthError("Access token is missing or invalid")
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			return types.NewForbiddenError("Invalid token")
		}

		// Downstream handlers trust these without re-verifying.
		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsEmail, claims.Email)

		return c.Next()
	}
}

// UserID returns the verified user id placed in context by AuthRequired.
func UserID(c *fiber.Ctx) (uint64, bool) {
	id, ok := c.Locals(LocalsUserID).(uint64)
	return id, ok
}
