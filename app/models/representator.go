package models

import (
	"strings"
	"time"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

// Representator is a person acting on behalf of a provider.
type Representator struct {
	ID               uint      `gorm:"column:F_00;primaryKey" json:"id"`
	ProviderID       uint      `gorm:"column:F_01;not null;index:IX_T_02_01_03_F_01" json:"provider_id" validate:"required"`
	LastName         string    `gorm:"column:F_02;type:varchar(100);not null" json:"last_name" validate:"required,max=100"`
	FirstName        string    `gorm:"column:F_03;type:varchar(100);not null" json:"first_name" validate:"required,max=100"`
	Function         string    `gorm:"column:F_04;type:varchar(150)" json:"function" validate:"max=150"`
	NationalIDNumber string    `gorm:"column:F_05;type:varchar(30);not null;uniqueIndex:UK_T_02_01_03_F_05" json:"national_id_number" validate:"required,max=30"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Representator) TableName() string {
	return "T_02_01_03"
}

func (r *Representator) Validate() error {
	return apperror.ValidateStruct(r)
}

// FullName returns "LASTNAME Firstname".
func (r *Representator) FullName() string {
	return strings.TrimSpace(strings.ToUpper(r.LastName) + " " + r.FirstName)
}
