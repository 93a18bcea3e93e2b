package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName carries the API key.
const HeaderName = "X-API-Key"

// Config configures the auth middleware.
type Config struct {
	// ApiKey is the expected key. An empty key disables the check.
	ApiKey string
}

// New returns middleware rejecting requests without the configured API key.
func New(cfg Config) fiber.Handler {
	want := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		if len(want) == 0 {
			return c.Next()
		}
		got := c.Get(HeaderName)
		if got == "" {
			got = c.Query("api_key")
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}
