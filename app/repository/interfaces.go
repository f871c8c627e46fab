package repository

import (
	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"gorm.io/gorm"
)

// ProviderRepository defines the interface for provider-related database operations
type ProviderRepository interface {
	Create(provider *models.Provider) error
	GetByID(id uint) (*models.Provider, error)
	Exists(id uint) (bool, error)
	Update(provider *models.Provider) error
	Delete(id uint) error
	List(page pagination.Request) ([]models.Provider, int64, error)
	Search(query string, page pagination.Request) ([]models.Provider, int64, error)
	CodeExistsExceptID(code string, id uint) (bool, error)
	NIFExistsExceptID(nif string, id uint) (bool, error)
	CountDependents(id uint) (int64, error)
}

// ExclusionTypeRepository defines the interface for exclusion type operations
type ExclusionTypeRepository interface {
	Create(exclusionType *models.ExclusionType) error
	GetByID(id uint) (*models.ExclusionType, error)
	Update(exclusionType *models.ExclusionType) error
	Delete(id uint) error
	List(page pagination.Request) ([]models.ExclusionType, int64, error)
	Search(query string, page pagination.Request) ([]models.ExclusionType, int64, error)
	CodeExistsExceptID(code string, id uint) (bool, error)
	CountDependents(id uint) (int64, error)
}

// RepresentatorRepository defines the interface for representator operations
type RepresentatorRepository interface {
	Create(representator *models.Representator) error
	GetByID(id uint) (*models.Representator, error)
	Update(representator *models.Representator) error
	Delete(id uint) error
	List(page pagination.Request) ([]models.Representator, int64, error)
	ListByProvider(providerID uint, page pagination.Request) ([]models.Representator, int64, error)
	NationalIDExistsExceptID(nationalID string, id uint) (bool, error)
	CountDependents(id uint) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Provider      ProviderRepository
	ExclusionType ExclusionTypeRepository
	Representator RepresentatorRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Provider:      NewProviderRepository(db),
		ExclusionType: NewExclusionTypeRepository(db),
		Representator: NewRepresentatorRepository(db),
	}
}

// exists counts rows of model matching the condition.
func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := db.Model(model).Where(query, args...).Count(&count).Error
	return count > 0, err
}

// paginate runs a counted, paged query into dest. The query is wrapped in a
// session so the count and the select each start from the same conditions.
func paginate(query *gorm.DB, page pagination.Request, dest interface{}) (int64, error) {
	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := page.Apply(base).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func likePattern(q string) string {
	return "%" + q + "%"
}
