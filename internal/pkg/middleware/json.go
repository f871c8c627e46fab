package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireJSON rejects POST and PUT requests whose body is not JSON.
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut:
		default:
			return c.Next()
		}

		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error":   "unsupported_media_type",
				"message": "Request body must be application/json",
			})
		}
		return c.Next()
	}
}
