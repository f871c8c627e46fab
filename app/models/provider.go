package models

import (
	"time"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

// Provider is an economic operator that can bid on procurement contracts.
type Provider struct {
	ID          uint      `gorm:"column:F_00;primaryKey" json:"id"`
	Code        string    `gorm:"column:F_01;type:varchar(20);not null;uniqueIndex:UK_T_02_01_01_F_01" json:"code" validate:"required,max=20"`
	CompanyName string    `gorm:"column:F_02;type:varchar(255);not null" json:"company_name" validate:"required,min=2,max=255"`
	NIF         string    `gorm:"column:F_03;type:varchar(20);not null;uniqueIndex:UK_T_02_01_01_F_03" json:"nif" validate:"required,numeric,min=15,max=20"`
	Address     string    `gorm:"column:F_04;type:varchar(500)" json:"address" validate:"max=500"`
	Phone       string    `gorm:"column:F_05;type:varchar(30)" json:"phone" validate:"max=30"`
	Email       string    `gorm:"column:F_06;type:varchar(200)" json:"email" validate:"omitempty,email,max=200"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Provider) TableName() string {
	return "T_02_01_01"
}

func (p *Provider) Validate() error {
	return apperror.ValidateStruct(p)
}
