package requesttime

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareStoresClockValue(t *testing.T) {
	fixed := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	app := fiber.New()
	app.Use(New(func() time.Time { return fixed }))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Now(c).Format(time.RFC3339))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "2024-07-01T10:00:00Z", string(body))
}

func TestNowWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if Now(c).IsZero() {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
