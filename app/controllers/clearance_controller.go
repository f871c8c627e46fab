package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/RAAS/internal/pkg/clearance"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"github.com/ManuelReschke/RAAS/internal/pkg/requesttime"
)

// ClearanceController exposes the clearance service over HTTP
type ClearanceController struct {
	service *clearance.Service
}

func NewClearanceController(service *clearance.Service) *ClearanceController {
	return &ClearanceController{service: service}
}

// HandleList supports providerId, representatorId and status filters
func (cc *ClearanceController) HandleList(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	page, err := pagination.FromQuery(c, intervalSortColumns, "startDate")
	if err != nil {
		return respondError(c, err)
	}

	filter := clearance.Filter{At: now}
	if filter.ProviderID, err = queryID(c, "providerId"); err != nil {
		return respondError(c, err)
	}
	if filter.RepresentatorID, err = queryID(c, "representatorId"); err != nil {
		return respondError(c, err)
	}
	if filter.Status, err = queryStatus(c); err != nil {
		return respondError(c, err)
	}

	records, total, err := cc.service.List(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(clearance.NewResponses(records, now), page, total))
}

func (cc *ClearanceController) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	record, err := cc.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clearance.NewResponse(record, requesttime.Now(c)))
}

func (cc *ClearanceController) HandleCreate(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	var req clearance.Request
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	record, err := cc.service.Create(c.UserContext(), req, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(clearance.NewResponse(record, now))
}

func (cc *ClearanceController) HandleUpdate(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req clearance.Request
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	record, err := cc.service.Update(c.UserContext(), id, req, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clearance.NewResponse(record, now))
}

func (cc *ClearanceController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (cc *ClearanceController) HandleExpiring(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	days, err := queryDays(c)
	if err != nil {
		return respondError(c, err)
	}
	records, err := cc.service.Expiring(c.UserContext(), now, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clearance.NewResponses(records, now))
}

// HandleActiveForProvider lists who may act for the provider at ?at= (default now)
func (cc *ClearanceController) HandleActiveForProvider(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	at, err := queryTime(c, "at")
	if err != nil {
		return respondError(c, err)
	}
	records, err := cc.service.ActiveForProvider(c.UserContext(), id, at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clearance.NewResponses(records, at))
}
