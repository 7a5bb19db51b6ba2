package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Context key for the negotiated API version set by VersionMiddleware.
const LocalsAPIVersion = "apiVersion"

// DefaultAPIVersion is assumed when the client sends no X-Api-Version header.
const DefaultAPIVersion = "1.0.0"

// VersionMiddleware reads the X-Api-Version header, normalizes short forms,
// and places the result in context for handlers that branch on it.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", DefaultAPIVersion)

		// "1.0" is accepted as shorthand
		if version == "1.0" {
			version = DefaultAPIVersion
		}

		c.Locals(LocalsAPIVersion, version)

		return c.Next()
	}
}
