package repository

import (
	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"gorm.io/gorm"
)

// representatorRepository implements the RepresentatorRepository interface
type representatorRepository struct {
	db *gorm.DB
}

// NewRepresentatorRepository creates a new representator repository instance
func NewRepresentatorRepository(db *gorm.DB) RepresentatorRepository {
	return &representatorRepository{db: db}
}

func (r *representatorRepository) Create(representator *models.Representator) error {
	return r.db.Create(representator).Error
}

func (r *representatorRepository) GetByID(id uint) (*models.Representator, error) {
	var representator models.Representator
	err := r.db.First(&representator, id).Error
	if err != nil {
		return nil, err
	}
	return &representator, nil
}

func (r *representatorRepository) Update(representator *models.Representator) error {
	return r.db.Save(representator).Error
}

func (r *representatorRepository) Delete(id uint) error {
	return r.db.Delete(&models.Representator{}, id).Error
}

func (r *representatorRepository) List(page pagination.Request) ([]models.Representator, int64, error) {
	var representators []models.Representator
	total, err := paginate(r.db.Model(&models.Representator{}), page, &representators)
	return representators, total, err
}

// ListByProvider retrieves the representators of one provider
func (r *representatorRepository) ListByProvider(providerID uint, page pagination.Request) ([]models.Representator, int64, error) {
	var representators []models.Representator
	q := r.db.Model(&models.Representator{}).Where("F_01 = ?", providerID)
	total, err := paginate(q, page, &representators)
	return representators, total, err
}

func (r *representatorRepository) NationalIDExistsExceptID(nationalID string, id uint) (bool, error) {
	return exists(r.db, &models.Representator{}, "F_05 = ? AND F_00 <> ?", nationalID, id)
}

// CountDependents counts clearances granted to the representator
func (r *representatorRepository) CountDependents(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Clearance{}).Where("F_02 = ?", id).Count(&count).Error
	return count, err
}
