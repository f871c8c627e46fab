package models

import (
	"fmt"
	"time"

	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

// Clearance authorizes a representator to act for a provider during a period.
// A nil EndDate means the clearance is permanent.
type Clearance struct {
	ID              uint          `gorm:"column:F_00;primaryKey" json:"id"`
	ProviderID      uint          `gorm:"column:F_01;not null;index:IX_T_02_02_02_SUBJECT,priority:1" json:"provider_id"`
	RepresentatorID uint          `gorm:"column:F_02;not null;index:IX_T_02_02_02_SUBJECT,priority:2" json:"representator_id"`
	StartDate       time.Time     `gorm:"column:F_03;type:datetime;not null" json:"start_date"`
	EndDate         *time.Time    `gorm:"column:F_04;type:datetime" json:"end_date"`
	Reference       string        `gorm:"column:F_05;type:varchar(100)" json:"reference"`
	Object          string        `gorm:"column:F_06;type:text" json:"object"`
	Provider        Provider      `gorm:"foreignKey:ProviderID" json:"-"`
	Representator   Representator `gorm:"foreignKey:RepresentatorID" json:"-"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Clearance) TableName() string {
	return "T_02_02_02"
}

// ClearanceSubjectKey scopes the no-overlap rule to one provider and representator.
func ClearanceSubjectKey(providerID, representatorID uint) string {
	return fmt.Sprintf("provider:%d/representator:%d", providerID, representatorID)
}

func (c *Clearance) SubjectKey() string {
	return ClearanceSubjectKey(c.ProviderID, c.RepresentatorID)
}

func (c *Clearance) Interval() validity.Interval {
	return validity.Interval{
		SubjectKey: c.SubjectKey(),
		RecordID:   c.ID,
		Start:      c.StartDate,
		End:        c.EndDate,
	}
}
