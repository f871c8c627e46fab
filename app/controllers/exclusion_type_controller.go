package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
)

var exclusionTypeSortColumns = pagination.SortColumns{
	"id":            "F_00",
	"code":          "F_01",
	"designationFr": "F_02",
	"maxDays":       "F_05",
}

type ExclusionTypeController struct {
	exclusionTypeRepo repository.ExclusionTypeRepository
}

func NewExclusionTypeController(exclusionTypeRepo repository.ExclusionTypeRepository) *ExclusionTypeController {
	return &ExclusionTypeController{exclusionTypeRepo: exclusionTypeRepo}
}

// HandleList pages exclusion types; q filters on code and designations
func (ec *ExclusionTypeController) HandleList(c *fiber.Ctx) error {
	page, err := pagination.FromQuery(c, exclusionTypeSortColumns, "code")
	if err != nil {
		return respondError(c, err)
	}

	var types []models.ExclusionType
	var total int64
	if q := c.Query("q"); q != "" {
		types, total, err = ec.exclusionTypeRepo.Search(q, page)
	} else {
		types, total, err = ec.exclusionTypeRepo.List(page)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(types, page, total))
}

func (ec *ExclusionTypeController) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	exclusionType, err := ec.exclusionTypeRepo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exclusionType)
}

func (ec *ExclusionTypeController) HandleCreate(c *fiber.Ctx) error {
	var exclusionType models.ExclusionType
	if err := parseBody(c, &exclusionType); err != nil {
		return respondError(c, err)
	}
	exclusionType.ID = 0
	if err := ec.check(&exclusionType); err != nil {
		return respondError(c, err)
	}
	if err := ec.exclusionTypeRepo.Create(&exclusionType); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exclusionType)
}

func (ec *ExclusionTypeController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	existing, err := ec.exclusionTypeRepo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	var exclusionType models.ExclusionType
	if err := parseBody(c, &exclusionType); err != nil {
		return respondError(c, err)
	}
	exclusionType.ID = id
	exclusionType.CreatedAt = existing.CreatedAt
	if err := ec.check(&exclusionType); err != nil {
		return respondError(c, err)
	}
	if err := ec.exclusionTypeRepo.Update(&exclusionType); err != nil {
		return respondError(c, err)
	}
	return c.JSON(exclusionType)
}

func (ec *ExclusionTypeController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := ec.exclusionTypeRepo.GetByID(id); err != nil {
		return respondError(c, err)
	}
	dependents, err := ec.exclusionTypeRepo.CountDependents(id)
	if err != nil {
		return respondError(c, err)
	}
	if dependents > 0 {
		return respondError(c, apperror.Conflict("exclusion type %d is used by %d exclusions", id, dependents))
	}
	if err := ec.exclusionTypeRepo.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ec *ExclusionTypeController) check(exclusionType *models.ExclusionType) error {
	if err := exclusionType.Validate(); err != nil {
		return err
	}
	taken, err := ec.exclusionTypeRepo.CodeExistsExceptID(exclusionType.Code, exclusionType.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict("exclusion type code %s is already used", exclusionType.Code)
	}
	return nil
}
