package models

import (
	"time"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

// ExclusionType is a category of exclusion decision (fraud, failure to perform, ...).
type ExclusionType struct {
	ID            uint      `gorm:"column:F_00;primaryKey" json:"id"`
	Code          string    `gorm:"column:F_01;type:varchar(20);not null;uniqueIndex:UK_T_02_01_02_F_01" json:"code" validate:"required,max=20"`
	DesignationFr string    `gorm:"column:F_02;type:varchar(255);not null" json:"designation_fr" validate:"required,max=255"`
	DesignationEn string    `gorm:"column:F_03;type:varchar(255)" json:"designation_en" validate:"max=255"`
	DesignationAr string    `gorm:"column:F_04;type:varchar(255)" json:"designation_ar" validate:"max=255"`
	MaxDays       int       `gorm:"column:F_05;default:0" json:"max_days" validate:"gte=0"` // 0 = no limit
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExclusionType) TableName() string {
	return "T_02_01_02"
}

func (et *ExclusionType) Validate() error {
	return apperror.ValidateStruct(et)
}

// HasMaxDuration reports whether exclusions of this type must be bounded.
func (et *ExclusionType) HasMaxDuration() bool {
	return et.MaxDays > 0
}
