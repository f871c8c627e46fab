package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/RAAS/app/controllers"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, ctrls *controllers.Controllers) {
	// Ops routes stay outside /api so the limiter never throttles probes.
	setup(app, NewOpsRouter(), NewApiRouter(ctrls, NewLimiterStorage()))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
