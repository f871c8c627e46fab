package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
)

var representatorSortColumns = pagination.SortColumns{
	"id":         "F_00",
	"providerId": "F_01",
	"lastName":   "F_02",
	"firstName":  "F_03",
}

type RepresentatorController struct {
	representatorRepo repository.RepresentatorRepository
	providerRepo      repository.ProviderRepository
}

func NewRepresentatorController(representatorRepo repository.RepresentatorRepository, providerRepo repository.ProviderRepository) *RepresentatorController {
	return &RepresentatorController{
		representatorRepo: representatorRepo,
		providerRepo:      providerRepo,
	}
}

func (rc *RepresentatorController) HandleList(c *fiber.Ctx) error {
	page, err := pagination.FromQuery(c, representatorSortColumns, "lastName")
	if err != nil {
		return respondError(c, err)
	}
	representators, total, err := rc.representatorRepo.List(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(representators, page, total))
}

func (rc *RepresentatorController) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	representator, err := rc.representatorRepo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(representator)
}

func (rc *RepresentatorController) HandleCreate(c *fiber.Ctx) error {
	var representator models.Representator
	if err := parseBody(c, &representator); err != nil {
		return respondError(c, err)
	}
	representator.ID = 0
	if err := rc.check(&representator); err != nil {
		return respondError(c, err)
	}
	if err := rc.representatorRepo.Create(&representator); err != nil {
		return respondError(c, err)
	}
	log.Infof("[Representator] Created representator %d for provider %d", representator.ID, representator.ProviderID)
	return c.Status(fiber.StatusCreated).JSON(representator)
}

func (rc *RepresentatorController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	existing, err := rc.representatorRepo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	var representator models.Representator
	if err := parseBody(c, &representator); err != nil {
		return respondError(c, err)
	}
	representator.ID = id
	representator.CreatedAt = existing.CreatedAt
	// Moving a representator to another provider would orphan its clearances.
	if representator.ProviderID != existing.ProviderID {
		if dependents, err := rc.representatorRepo.CountDependents(id); err != nil {
			return respondError(c, err)
		} else if dependents > 0 {
			return respondError(c, apperror.Conflict("representator %d has %d clearances and cannot change provider", id, dependents))
		}
	}
	if err := rc.check(&representator); err != nil {
		return respondError(c, err)
	}
	if err := rc.representatorRepo.Update(&representator); err != nil {
		return respondError(c, err)
	}
	return c.JSON(representator)
}

func (rc *RepresentatorController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := rc.representatorRepo.GetByID(id); err != nil {
		return respondError(c, err)
	}
	dependents, err := rc.representatorRepo.CountDependents(id)
	if err != nil {
		return respondError(c, err)
	}
	if dependents > 0 {
		return respondError(c, apperror.Conflict("representator %d still has %d clearances", id, dependents))
	}
	if err := rc.representatorRepo.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (rc *RepresentatorController) check(representator *models.Representator) error {
	if err := representator.Validate(); err != nil {
		return err
	}
	ok, err := rc.providerRepo.Exists(representator.ProviderID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("provider %d not found", representator.ProviderID)
	}
	taken, err := rc.representatorRepo.NationalIDExistsExceptID(representator.NationalIDNumber, representator.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict("national id number %s is already registered", representator.NationalIDNumber)
	}
	return nil
}
