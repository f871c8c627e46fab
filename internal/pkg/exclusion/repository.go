package exclusion

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/intervalstore"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
)

// Repository provides DB operations used by the exclusion service.
type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	Create(ctx context.Context, pe *models.ProviderExclusion) error
	Update(ctx context.Context, pe *models.ProviderExclusion) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.ProviderExclusion, error)
	ListBySubject(ctx context.Context, providerID, exclusionTypeID uint) ([]models.ProviderExclusion, error)
	List(ctx context.Context, filter Filter, page pagination.Request) ([]models.ProviderExclusion, int64, error)
	ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.ProviderExclusion, error)
	ListAll(ctx context.Context) ([]models.ProviderExclusion, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an exclusion repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) Create(ctx context.Context, pe *models.ProviderExclusion) error {
	return r.db.WithContext(ctx).Omit("Provider", "ExclusionType").Create(pe).Error
}

func (r *gormRepository) Update(ctx context.Context, pe *models.ProviderExclusion) error {
	return r.db.WithContext(ctx).Omit("Provider", "ExclusionType").Save(pe).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProviderExclusion{}, id).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*models.ProviderExclusion, error) {
	var pe models.ProviderExclusion
	err := r.db.WithContext(ctx).Preload("Provider").Preload("ExclusionType").First(&pe, id).Error
	if err != nil {
		return nil, err
	}
	return &pe, nil
}

func (r *gormRepository) ListBySubject(ctx context.Context, providerID, exclusionTypeID uint) ([]models.ProviderExclusion, error) {
	var records []models.ProviderExclusion
	err := r.db.WithContext(ctx).
		Where("F_01 = ? AND F_02 = ?", providerID, exclusionTypeID).
		Order("F_03 ASC, F_00 ASC").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) List(ctx context.Context, filter Filter, page pagination.Request) ([]models.ProviderExclusion, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProviderExclusion{})
	if filter.ProviderID != 0 {
		query = query.Where("F_01 = ?", filter.ProviderID)
	}
	if filter.ExclusionTypeID != 0 {
		query = query.Where("F_02 = ?", filter.ExclusionTypeID)
	}
	if filter.Status != "" {
		query = query.Scopes(intervalstore.StatusScope(filter.Status, filter.At))
	}

	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.ProviderExclusion
	if err := page.Apply(base.Preload("Provider").Preload("ExclusionType")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *gormRepository) ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.ProviderExclusion, error) {
	var records []models.ProviderExclusion
	err := r.db.WithContext(ctx).
		Preload("Provider").Preload("ExclusionType").
		Scopes(intervalstore.EndingWithin(from, to)).
		Order("F_04 ASC, F_00 ASC").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) ListAll(ctx context.Context) ([]models.ProviderExclusion, error) {
	var records []models.ProviderExclusion
	err := r.db.WithContext(ctx).Order("F_01 ASC, F_02 ASC, F_03 ASC").Find(&records).Error
	return records, err
}
