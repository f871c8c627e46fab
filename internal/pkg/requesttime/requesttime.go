// Package requesttime captures "now" once per request so every validation and
// status computation inside a request agrees on the same instant.
package requesttime

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const localsKey = "REQUEST_TIME"

// Clock is the time source used by the middleware.
type Clock func() time.Time

// New returns a middleware storing clock() in the request locals.
func New(clock Clock) fiber.Handler {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return func(c *fiber.Ctx) error {
		c.Locals(localsKey, clock())
		return c.Next()
	}
}

// Now returns the request-scoped time, falling back to the wall clock when the
// middleware is not installed.
func Now(c *fiber.Ctx) time.Time {
	if t, ok := c.Locals(localsKey).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}
