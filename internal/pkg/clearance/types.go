package clearance

import (
	"time"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/intervalstore"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

const Resource = "clearance"

// Request is the body of a create or update. A missing end_date makes the clearance permanent.
type Request struct {
	ProviderID      uint       `json:"provider_id" validate:"required"`
	RepresentatorID uint       `json:"representator_id" validate:"required"`
	StartDate       *time.Time `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date"`
	Reference       string     `json:"reference" validate:"max=100"`
	Object          string     `json:"object" validate:"max=2000"`
}

func (r Request) apply(c *models.Clearance) {
	c.ProviderID = r.ProviderID
	c.RepresentatorID = r.RepresentatorID
	c.StartDate = intervalstore.Normalize(*r.StartDate)
	c.EndDate = intervalstore.NormalizePtr(r.EndDate)
	c.Reference = r.Reference
	c.Object = r.Object
}

// Filter narrows a listing. Zero values match everything; Status is evaluated at At.
type Filter struct {
	ProviderID      uint
	RepresentatorID uint
	Status          validity.Status
	At              time.Time
}

type Response struct {
	ID                uint              `json:"id"`
	ProviderID        uint              `json:"provider_id"`
	ProviderName      string            `json:"provider_name,omitempty"`
	RepresentatorID   uint              `json:"representator_id"`
	RepresentatorName string            `json:"representator_name,omitempty"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           *time.Time        `json:"end_date"`
	Reference         string            `json:"reference"`
	Object            string            `json:"object"`
	Validity          validity.Snapshot `json:"validity"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func NewResponse(c *models.Clearance, now time.Time) Response {
	return Response{
		ID:                c.ID,
		ProviderID:        c.ProviderID,
		ProviderName:      c.Provider.CompanyName,
		RepresentatorID:   c.RepresentatorID,
		RepresentatorName: c.Representator.FullName(),
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		Reference:         c.Reference,
		Object:            c.Object,
		Validity:          validity.Describe(c.Interval(), now),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func NewResponses(records []models.Clearance, now time.Time) []Response {
	out := make([]Response, 0, len(records))
	for i := range records {
		out = append(out, NewResponse(&records[i], now))
	}
	return out
}
