package models

import (
	"fmt"
	"time"

	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

// ProviderExclusion bars a provider from tendering for a period. A nil EndDate
// means the exclusion is permanent.
type ProviderExclusion struct {
	ID              uint          `gorm:"column:F_00;primaryKey" json:"id"`
	ProviderID      uint          `gorm:"column:F_01;not null;index:IX_T_02_02_01_SUBJECT,priority:1" json:"provider_id"`
	ExclusionTypeID uint          `gorm:"column:F_02;not null;index:IX_T_02_02_01_SUBJECT,priority:2" json:"exclusion_type_id"`
	StartDate       time.Time     `gorm:"column:F_03;type:datetime;not null" json:"start_date"`
	EndDate         *time.Time    `gorm:"column:F_04;type:datetime" json:"end_date"`
	Reference       string        `gorm:"column:F_05;type:varchar(100)" json:"reference"`
	Cause           string        `gorm:"column:F_06;type:text" json:"cause"`
	Provider        Provider      `gorm:"foreignKey:ProviderID" json:"-"`
	ExclusionType   ExclusionType `gorm:"foreignKey:ExclusionTypeID" json:"-"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProviderExclusion) TableName() string {
	return "T_02_02_01"
}

// ExclusionSubjectKey scopes the no-overlap rule to one provider and exclusion type.
func ExclusionSubjectKey(providerID, exclusionTypeID uint) string {
	return fmt.Sprintf("provider:%d/exclusion-type:%d", providerID, exclusionTypeID)
}

func (pe *ProviderExclusion) SubjectKey() string {
	return ExclusionSubjectKey(pe.ProviderID, pe.ExclusionTypeID)
}

func (pe *ProviderExclusion) Interval() validity.Interval {
	return validity.Interval{
		SubjectKey: pe.SubjectKey(),
		RecordID:   pe.ID,
		Start:      pe.StartDate,
		End:        pe.EndDate,
	}
}
