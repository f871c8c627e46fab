package clearance

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/intervalstore"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
)

// Repository provides DB operations used by the clearance service.
type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	Create(ctx context.Context, c *models.Clearance) error
	Update(ctx context.Context, c *models.Clearance) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Clearance, error)
	ListBySubject(ctx context.Context, providerID, representatorID uint) ([]models.Clearance, error)
	List(ctx context.Context, filter Filter, page pagination.Request) ([]models.Clearance, int64, error)
	ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.Clearance, error)
	ListAll(ctx context.Context) ([]models.Clearance, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a clearance repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) Create(ctx context.Context, c *models.Clearance) error {
	return r.db.WithContext(ctx).Omit("Provider", "Representator").Create(c).Error
}

func (r *gormRepository) Update(ctx context.Context, c *models.Clearance) error {
	return r.db.WithContext(ctx).Omit("Provider", "Representator").Save(c).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Clearance{}, id).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uint) (*models.Clearance, error) {
	var c models.Clearance
	err := r.db.WithContext(ctx).Preload("Provider").Preload("Representator").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) ListBySubject(ctx context.Context, providerID, representatorID uint) ([]models.Clearance, error) {
	var records []models.Clearance
	err := r.db.WithContext(ctx).
		Where("F_01 = ? AND F_02 = ?", providerID, representatorID).
		Order("F_03 ASC, F_00 ASC").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) List(ctx context.Context, filter Filter, page pagination.Request) ([]models.Clearance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Clearance{})
	if filter.ProviderID != 0 {
		query = query.Where("F_01 = ?", filter.ProviderID)
	}
	if filter.RepresentatorID != 0 {
		query = query.Where("F_02 = ?", filter.RepresentatorID)
	}
	if filter.Status != "" {
		query = query.Scopes(intervalstore.StatusScope(filter.Status, filter.At))
	}

	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.Clearance
	if err := page.Apply(base.Preload("Provider").Preload("Representator")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *gormRepository) ListEndingWithin(ctx context.Context, from, to time.Time) ([]models.Clearance, error) {
	var records []models.Clearance
	err := r.db.WithContext(ctx).
		Preload("Provider").Preload("Representator").
		Scopes(intervalstore.EndingWithin(from, to)).
		Order("F_04 ASC, F_00 ASC").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) ListAll(ctx context.Context) ([]models.Clearance, error) {
	var records []models.Clearance
	err := r.db.WithContext(ctx).Order("F_01 ASC, F_02 ASC, F_03 ASC").Find(&records).Error
	return records, err
}
