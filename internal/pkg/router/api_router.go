package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ManuelReschke/RAAS/app/controllers"
	"github.com/ManuelReschke/RAAS/internal/pkg/constants"
	"github.com/ManuelReschke/RAAS/internal/pkg/env"
	"github.com/ManuelReschke/RAAS/internal/pkg/middleware"
	"github.com/ManuelReschke/RAAS/internal/pkg/requesttime"
)

type ApiRouter struct {
	controllers *controllers.Controllers
	storage     fiber.Storage
	clock       requesttime.Clock
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute,
		requestid.New(requestid.Config{Generator: uuid.NewString}),
		limiter.New(limiter.Config{
			Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
			Expiration: time.Minute,
			Storage:    h.storage,
		}),
	)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "RAAS api",
			"version": "v1",
		})
	})

	v1 := api.Group(constants.APIV1Route, middleware.RequireJSON(), requesttime.New(h.clock))
	h.registerReferenceRoutes(v1)
	h.registerIntervalRoutes(v1)
	v1.Get("/statistics", h.controllers.Statistics.HandleSummary)
}

func (h ApiRouter) registerReferenceRoutes(v1 fiber.Router) {
	providers := h.controllers.Provider
	v1.Get("/providers", providers.HandleList)
	v1.Post("/providers", providers.HandleCreate)
	v1.Get("/providers/search", providers.HandleSearch)
	v1.Get("/providers/:id", providers.HandleGet)
	v1.Put("/providers/:id", providers.HandleUpdate)
	v1.Delete("/providers/:id", providers.HandleDelete)
	v1.Get("/providers/:id/representators", providers.HandleListRepresentators)

	exclusionTypes := h.controllers.ExclusionType
	v1.Get("/exclusion-types", exclusionTypes.HandleList)
	v1.Post("/exclusion-types", exclusionTypes.HandleCreate)
	v1.Get("/exclusion-types/:id", exclusionTypes.HandleGet)
	v1.Put("/exclusion-types/:id", exclusionTypes.HandleUpdate)
	v1.Delete("/exclusion-types/:id", exclusionTypes.HandleDelete)

	representators := h.controllers.Representator
	v1.Get("/representators", representators.HandleList)
	v1.Post("/representators", representators.HandleCreate)
	v1.Get("/representators/:id", representators.HandleGet)
	v1.Put("/representators/:id", representators.HandleUpdate)
	v1.Delete("/representators/:id", representators.HandleDelete)
}

func (h ApiRouter) registerIntervalRoutes(v1 fiber.Router) {
	exclusions := h.controllers.ProviderExclusion
	v1.Get("/provider-exclusions", exclusions.HandleList)
	v1.Post("/provider-exclusions", exclusions.HandleCreate)
	v1.Get("/provider-exclusions/expiring", exclusions.HandleExpiring)
	v1.Get("/provider-exclusions/:id", exclusions.HandleGet)
	v1.Put("/provider-exclusions/:id", exclusions.HandleUpdate)
	v1.Delete("/provider-exclusions/:id", exclusions.HandleDelete)
	v1.Get("/providers/:id/exclusions/active", exclusions.HandleActiveForProvider)

	clearances := h.controllers.Clearance
	v1.Get("/clearances", clearances.HandleList)
	v1.Post("/clearances", clearances.HandleCreate)
	v1.Get("/clearances/expiring", clearances.HandleExpiring)
	v1.Get("/clearances/:id", clearances.HandleGet)
	v1.Put("/clearances/:id", clearances.HandleUpdate)
	v1.Delete("/clearances/:id", clearances.HandleDelete)
	v1.Get("/providers/:id/clearances/active", clearances.HandleActiveForProvider)
}

// NewApiRouter creates the /api router. A nil storage keeps limiter counters in memory.
func NewApiRouter(ctrls *controllers.Controllers, storage fiber.Storage) *ApiRouter {
	return &ApiRouter{controllers: ctrls, storage: storage}
}

// WithClock overrides the request time source.
func (h *ApiRouter) WithClock(clock requesttime.Clock) *ApiRouter {
	h.clock = clock
	return h
}
