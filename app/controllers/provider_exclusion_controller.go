package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/exclusion"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"github.com/ManuelReschke/RAAS/internal/pkg/requesttime"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

var intervalSortColumns = pagination.SortColumns{
	"id":         "F_00",
	"providerId": "F_01",
	"startDate":  "F_03",
	"endDate":    "F_04",
	"reference":  "F_05",
	"createdAt":  "created_at",
}

// ProviderExclusionController exposes the exclusion service over HTTP
type ProviderExclusionController struct {
	service *exclusion.Service
}

func NewProviderExclusionController(service *exclusion.Service) *ProviderExclusionController {
	return &ProviderExclusionController{service: service}
}

// HandleList supports providerId, exclusionTypeId and status filters
func (pec *ProviderExclusionController) HandleList(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	page, err := pagination.FromQuery(c, intervalSortColumns, "startDate")
	if err != nil {
		return respondError(c, err)
	}
	filter, err := exclusionFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	filter.At = now

	records, total, err := pec.service.List(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(exclusion.NewResponses(records, now), page, total))
}

func (pec *ProviderExclusionController) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	record, err := pec.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exclusion.NewResponse(record, requesttime.Now(c)))
}

func (pec *ProviderExclusionController) HandleCreate(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	var req exclusion.Request
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	record, err := pec.service.Create(c.UserContext(), req, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exclusion.NewResponse(record, now))
}

func (pec *ProviderExclusionController) HandleUpdate(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req exclusion.Request
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	record, err := pec.service.Update(c.UserContext(), id, req, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exclusion.NewResponse(record, now))
}

func (pec *ProviderExclusionController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := pec.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleExpiring lists exclusions ending within ?days= (default 30)
func (pec *ProviderExclusionController) HandleExpiring(c *fiber.Ctx) error {
	now := requesttime.Now(c)
	days, err := queryDays(c)
	if err != nil {
		return respondError(c, err)
	}
	records, err := pec.service.Expiring(c.UserContext(), now, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exclusion.NewResponses(records, now))
}

// HandleActiveForProvider answers whether a provider is excluded at ?at= (default now)
func (pec *ProviderExclusionController) HandleActiveForProvider(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	at, err := queryTime(c, "at")
	if err != nil {
		return respondError(c, err)
	}
	records, err := pec.service.ActiveForProvider(c.UserContext(), id, at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"provider_id": id,
		"at":          at,
		"excluded":    len(records) > 0,
		"exclusions":  exclusion.NewResponses(records, at),
	})
}

func exclusionFilter(c *fiber.Ctx) (exclusion.Filter, error) {
	var filter exclusion.Filter
	var err error
	if filter.ProviderID, err = queryID(c, "providerId"); err != nil {
		return filter, err
	}
	if filter.ExclusionTypeID, err = queryID(c, "exclusionTypeId"); err != nil {
		return filter, err
	}
	filter.Status, err = queryStatus(c)
	return filter, err
}

func queryStatus(c *fiber.Ctx) (validity.Status, error) {
	raw := c.Query("status")
	if raw == "" {
		return "", nil
	}
	status, ok := validity.ParseStatus(raw)
	if !ok {
		return "", apperror.Validation("status", "status must be one of FUTURE, ACTIVE, EXPIRED")
	}
	return status, nil
}
