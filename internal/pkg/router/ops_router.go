package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuelReschke/RAAS/internal/pkg/cache"
	"github.com/ManuelReschke/RAAS/internal/pkg/constants"
	"github.com/ManuelReschke/RAAS/internal/pkg/database"
	"github.com/ManuelReschke/RAAS/internal/pkg/env"
)

// OpsRouter serves health, metrics and the fiber monitor page.
type OpsRouter struct {
}

func (h OpsRouter) InstallRouter(app *fiber.App) {
	app.Get(constants.HealthRoute, handleHealth)

	protected := basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	})
	app.Get(constants.MetricsRoute, protected, adaptor.HTTPHandler(promhttp.Handler()))
	app.Get(constants.MonitorRoute, protected, monitor.New(monitor.Config{Title: "RAAS Monitor"}))
}

func NewOpsRouter() *OpsRouter {
	return &OpsRouter{}
}

// handleHealth reports 503 when the database is unreachable. Redis is optional.
func handleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	body := fiber.Map{"status": "up", "database": "up", "cache": "down"}

	if err := database.Ping(); err != nil {
		status = fiber.StatusServiceUnavailable
		body["status"] = "down"
		body["database"] = "down"
	}

	if cache.IsAvailable() {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()
		if cache.Ping(ctx) == nil {
			body["cache"] = "up"
		}
	}

	return c.Status(status).JSON(body)
}
