package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/requesttime"
)

// respondError writes the JSON error body for err. Unknown errors are logged
// and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = apperror.FromValidator(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = apperror.NotFound("resource not found")
	}

	if appErr, ok := apperror.As(err); ok {
		body := fiber.Map{"error": string(appErr.Kind), "message": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		return c.Status(appErr.HTTPStatus()).JSON(body)
	}

	log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Unexpected server error"})
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(name, "invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// queryID parses an optional numeric filter; absent means zero.
func queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.Validation(name, "invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// queryTime parses an RFC 3339 instant or a plain date, falling back to the request time.
func queryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return requesttime.Now(c), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Validation(name, "%s must be an RFC 3339 date-time or a YYYY-MM-DD date", name)
}

func queryDays(c *fiber.Ctx) (int, error) {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil {
		return 0, apperror.Validation("days", "days must be an integer")
	}
	return days, nil
}

// parseBody decodes the JSON body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("", "malformed request body: %v", err)
	}
	return nil
}
