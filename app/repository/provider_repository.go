package repository

import (
	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"gorm.io/gorm"
)

// providerRepository implements the ProviderRepository interface
type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new provider repository instance
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

// Create creates a new provider in the database
func (r *providerRepository) Create(provider *models.Provider) error {
	return r.db.Create(provider).Error
}

// GetByID retrieves a provider by its ID
func (r *providerRepository) GetByID(id uint) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.First(&provider, id).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// Exists checks if a provider with the given ID exists
func (r *providerRepository) Exists(id uint) (bool, error) {
	return exists(r.db, &models.Provider{}, "F_00 = ?", id)
}

// Update updates an existing provider in the database
func (r *providerRepository) Update(provider *models.Provider) error {
	return r.db.Save(provider).Error
}

// Delete deletes a provider by its ID
func (r *providerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Provider{}, id).Error
}

// List retrieves one page of providers
func (r *providerRepository) List(page pagination.Request) ([]models.Provider, int64, error) {
	var providers []models.Provider
	total, err := paginate(r.db.Model(&models.Provider{}), page, &providers)
	return providers, total, err
}

// Search matches the query against code, company name and NIF
func (r *providerRepository) Search(query string, page pagination.Request) ([]models.Provider, int64, error) {
	var providers []models.Provider
	like := likePattern(query)
	q := r.db.Model(&models.Provider{}).
		Where("F_01 LIKE ? OR F_02 LIKE ? OR F_03 LIKE ?", like, like, like)
	total, err := paginate(q, page, &providers)
	return providers, total, err
}

// CodeExistsExceptID checks if a code is used by another provider (id 0 checks all)
func (r *providerRepository) CodeExistsExceptID(code string, id uint) (bool, error) {
	return exists(r.db, &models.Provider{}, "F_01 = ? AND F_00 <> ?", code, id)
}

// NIFExistsExceptID checks if a tax id is used by another provider (id 0 checks all)
func (r *providerRepository) NIFExistsExceptID(nif string, id uint) (bool, error) {
	return exists(r.db, &models.Provider{}, "F_03 = ? AND F_00 <> ?", nif, id)
}

// CountDependents counts representators, exclusions and clearances owned by the provider
func (r *providerRepository) CountDependents(id uint) (int64, error) {
	var total int64
	for _, model := range []interface{}{&models.Representator{}, &models.ProviderExclusion{}, &models.Clearance{}} {
		var count int64
		if err := r.db.Model(model).Where("F_01 = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}
