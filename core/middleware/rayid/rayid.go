package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName carries the ray id in requests and responses.
	HeaderName = "X-Ray-ID"
	// LocalsKey stores the ray id in the fiber context.
	LocalsKey = "ray_id"
)

// New returns middleware that tags every request with a ray id. An incoming
// header is reused so callers can correlate their own logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
