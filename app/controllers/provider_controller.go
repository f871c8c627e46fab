package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
)

var providerSortColumns = pagination.SortColumns{
	"id":          "F_00",
	"code":        "F_01",
	"companyName": "F_02",
	"nif":         "F_03",
	"createdAt":   "created_at",
}

// ProviderController handles provider HTTP requests using repository pattern
type ProviderController struct {
	providerRepo      repository.ProviderRepository
	representatorRepo repository.RepresentatorRepository
}

func NewProviderController(providerRepo repository.ProviderRepository, representatorRepo repository.RepresentatorRepository) *ProviderController {
	return &ProviderController{
		providerRepo:      providerRepo,
		representatorRepo: representatorRepo,
	}
}

// HandleList returns one page of providers
func (pc *ProviderController) HandleList(c *fiber.Ctx) error {
	page, err := pagination.FromQuery(c, providerSortColumns, "id")
	if err != nil {
		return respondError(c, err)
	}
	providers, total, err := pc.providerRepo.List(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(providers, page, total))
}

// HandleSearch matches q against code, company name and NIF
func (pc *ProviderController) HandleSearch(c *fiber.Ctx) error {
	page, err := pagination.FromQuery(c, providerSortColumns, "companyName")
	if err != nil {
		return respondError(c, err)
	}
	providers, total, err := pc.providerRepo.Search(c.Query("q"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(providers, page, total))
}

func (pc *ProviderController) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	provider, err := pc.providerRepo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(provider)
}

func (pc *ProviderController) HandleCreate(c *fiber.Ctx) error {
	var provider models.Provider
	if err := parseBody(c, &provider); err != nil {
		return respondError(c, err)
	}
	provider.ID = 0
	if err := pc.checkProvider(&provider); err != nil {
		return respondError(c, err)
	}
	if err := pc.providerRepo.Create(&provider); err != nil {
		return respondError(c, err)
	}
	log.Infof("[Provider] Created provider %d (%s)", provider.ID, provider.Code)
	return c.Status(fiber.StatusCreated).JSON(provider)
}

func (pc *ProviderController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	existing, err := pc.providerRepo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	var provider models.Provider
	if err := parseBody(c, &provider); err != nil {
		return respondError(c, err)
	}
	provider.ID = id
	provider.CreatedAt = existing.CreatedAt
	if err := pc.checkProvider(&provider); err != nil {
		return respondError(c, err)
	}
	if err := pc.providerRepo.Update(&provider); err != nil {
		return respondError(c, err)
	}
	return c.JSON(provider)
}

// HandleDelete refuses to remove a provider that still owns records
func (pc *ProviderController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := pc.providerRepo.GetByID(id); err != nil {
		return respondError(c, err)
	}
	dependents, err := pc.providerRepo.CountDependents(id)
	if err != nil {
		return respondError(c, err)
	}
	if dependents > 0 {
		return respondError(c, apperror.Conflict("provider %d still has %d dependent records", id, dependents))
	}
	if err := pc.providerRepo.Delete(id); err != nil {
		return respondError(c, err)
	}
	log.Infof("[Provider] Deleted provider %d", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListRepresentators returns the representators of one provider
func (pc *ProviderController) HandleListRepresentators(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	page, err := pagination.FromQuery(c, representatorSortColumns, "lastName")
	if err != nil {
		return respondError(c, err)
	}
	if ok, err := pc.providerRepo.Exists(id); err != nil {
		return respondError(c, err)
	} else if !ok {
		return respondError(c, apperror.NotFound("provider %d not found", id))
	}
	representators, total, err := pc.representatorRepo.ListByProvider(id, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pagination.NewPage(representators, page, total))
}

func (pc *ProviderController) checkProvider(provider *models.Provider) error {
	if err := provider.Validate(); err != nil {
		return err
	}
	if taken, err := pc.providerRepo.CodeExistsExceptID(provider.Code, provider.ID); err != nil {
		return err
	} else if taken {
		return apperror.Conflict("provider code %s is already used", provider.Code)
	}
	if taken, err := pc.providerRepo.NIFExistsExceptID(provider.NIF, provider.ID); err != nil {
		return err
	} else if taken {
		return apperror.Conflict("NIF %s is already registered", provider.NIF)
	}
	return nil
}
