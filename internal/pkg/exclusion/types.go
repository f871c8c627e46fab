package exclusion

import (
	"time"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/intervalstore"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

// Resource is the metrics and message label of provider exclusions.
const Resource = "provider_exclusion"

// Request is the body of a create or update. A missing end_date makes the exclusion permanent.
type Request struct {
	ProviderID      uint       `json:"provider_id" validate:"required"`
	ExclusionTypeID uint       `json:"exclusion_type_id" validate:"required"`
	StartDate       *time.Time `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date"`
	Reference       string     `json:"reference" validate:"max=100"`
	Cause           string     `json:"cause" validate:"max=2000"`
}

func (r Request) apply(pe *models.ProviderExclusion) {
	pe.ProviderID = r.ProviderID
	pe.ExclusionTypeID = r.ExclusionTypeID
	pe.StartDate = intervalstore.Normalize(*r.StartDate)
	pe.EndDate = intervalstore.NormalizePtr(r.EndDate)
	pe.Reference = r.Reference
	pe.Cause = r.Cause
}

// Filter narrows a listing. Zero values match everything; Status is evaluated at At.
type Filter struct {
	ProviderID      uint
	ExclusionTypeID uint
	Status          validity.Status
	At              time.Time
}

// Response is an exclusion with its derived validity evaluated at the request instant.
type Response struct {
	ID                uint              `json:"id"`
	ProviderID        uint              `json:"provider_id"`
	ProviderName      string            `json:"provider_name,omitempty"`
	ExclusionTypeID   uint              `json:"exclusion_type_id"`
	ExclusionTypeCode string            `json:"exclusion_type_code,omitempty"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           *time.Time        `json:"end_date"`
	Reference         string            `json:"reference"`
	Cause             string            `json:"cause"`
	Validity          validity.Snapshot `json:"validity"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewResponse builds the API view of pe at now.
func NewResponse(pe *models.ProviderExclusion, now time.Time) Response {
	return Response{
		ID:                pe.ID,
		ProviderID:        pe.ProviderID,
		ProviderName:      pe.Provider.CompanyName,
		ExclusionTypeID:   pe.ExclusionTypeID,
		ExclusionTypeCode: pe.ExclusionType.Code,
		StartDate:         pe.StartDate,
		EndDate:           pe.EndDate,
		Reference:         pe.Reference,
		Cause:             pe.Cause,
		Validity:          validity.Describe(pe.Interval(), now),
		CreatedAt:         pe.CreatedAt,
		UpdatedAt:         pe.UpdatedAt,
	}
}

// NewResponses maps a slice of exclusions at now.
func NewResponses(records []models.ProviderExclusion, now time.Time) []Response {
	out := make([]Response, 0, len(records))
	for i := range records {
		out = append(out, NewResponse(&records[i], now))
	}
	return out
}
