package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

func TestProviderValidate(t *testing.T) {
	p := &Provider{Code: "F-001", CompanyName: "SARL Atlas", NIF: "000116001234567"}
	require.NoError(t, p.Validate())

	p.NIF = "12AB"
	err := p.Validate()
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "nif", appErr.Field)

	p.NIF = "000116001234567"
	p.Email = "not-an-email"
	assert.Error(t, p.Validate())
}

func TestExclusionTypeValidate(t *testing.T) {
	et := &ExclusionType{Code: "FRAUDE", DesignationFr: "Fraude fiscale"}
	require.NoError(t, et.Validate())
	assert.False(t, et.HasMaxDuration())

	et.MaxDays = 365
	assert.True(t, et.HasMaxDuration())

	et.MaxDays = -1
	assert.Error(t, et.Validate())
}

func TestRepresentatorFullName(t *testing.T) {
	r := &Representator{LastName: "Benali", FirstName: "Karim"}
	assert.Equal(t, "BENALI Karim", r.FullName())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "T_02_01_01", Provider{}.TableName())
	assert.Equal(t, "T_02_01_02", ExclusionType{}.TableName())
	assert.Equal(t, "T_02_01_03", Representator{}.TableName())
	assert.Equal(t, "T_02_02_01", ProviderExclusion{}.TableName())
	assert.Equal(t, "T_02_02_02", Clearance{}.TableName())
}

func TestIntervalProjection(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 6, 0)

	pe := &ProviderExclusion{ID: 4, ProviderID: 7, ExclusionTypeID: 2, StartDate: start, EndDate: &end}
	iv := pe.Interval()
	assert.Equal(t, "provider:7/exclusion-type:2", iv.SubjectKey)
	assert.Equal(t, uint(4), iv.RecordID)
	assert.Equal(t, start, iv.Start)
	assert.Equal(t, &end, iv.End)

	c := &Clearance{ID: 9, ProviderID: 7, RepresentatorID: 3, StartDate: start}
	civ := c.Interval()
	assert.Equal(t, "provider:7/representator:3", civ.SubjectKey)
	assert.True(t, civ.IsPermanent())
}
