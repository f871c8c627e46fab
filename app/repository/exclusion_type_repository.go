package repository

import (
	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"gorm.io/gorm"
)

// exclusionTypeRepository implements the ExclusionTypeRepository interface
type exclusionTypeRepository struct {
	db *gorm.DB
}

// NewExclusionTypeRepository creates a new exclusion type repository instance
func NewExclusionTypeRepository(db *gorm.DB) ExclusionTypeRepository {
	return &exclusionTypeRepository{db: db}
}

func (r *exclusionTypeRepository) Create(exclusionType *models.ExclusionType) error {
	return r.db.Create(exclusionType).Error
}

func (r *exclusionTypeRepository) GetByID(id uint) (*models.ExclusionType, error) {
	var exclusionType models.ExclusionType
	err := r.db.First(&exclusionType, id).Error
	if err != nil {
		return nil, err
	}
	return &exclusionType, nil
}

func (r *exclusionTypeRepository) Update(exclusionType *models.ExclusionType) error {
	return r.db.Save(exclusionType).Error
}

func (r *exclusionTypeRepository) Delete(id uint) error {
	return r.db.Delete(&models.ExclusionType{}, id).Error
}

func (r *exclusionTypeRepository) List(page pagination.Request) ([]models.ExclusionType, int64, error) {
	var types []models.ExclusionType
	total, err := paginate(r.db.Model(&models.ExclusionType{}), page, &types)
	return types, total, err
}

// Search matches the query against the code and the three designations
func (r *exclusionTypeRepository) Search(query string, page pagination.Request) ([]models.ExclusionType, int64, error) {
	var types []models.ExclusionType
	like := likePattern(query)
	q := r.db.Model(&models.ExclusionType{}).
		Where("F_01 LIKE ? OR F_02 LIKE ? OR F_03 LIKE ? OR F_04 LIKE ?", like, like, like, like)
	total, err := paginate(q, page, &types)
	return types, total, err
}

func (r *exclusionTypeRepository) CodeExistsExceptID(code string, id uint) (bool, error) {
	return exists(r.db, &models.ExclusionType{}, "F_01 = ? AND F_00 <> ?", code, id)
}

// CountDependents counts exclusions referencing the type
func (r *exclusionTypeRepository) CountDependents(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProviderExclusion{}).Where("F_02 = ?", id).Count(&count).Error
	return count, err
}
