// Package clearance manages clearances: periods during which a representator
// may act for a provider. A provider and representator pair can hold at most
// one clearance at any instant.
package clearance

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/intervalstore"
	"github.com/ManuelReschke/RAAS/internal/pkg/metrics"
	"github.com/ManuelReschke/RAAS/internal/pkg/pagination"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

type ProviderLookup interface {
	Exists(id uint) (bool, error)
}

type RepresentatorLookup interface {
	GetByID(id uint) (*models.Representator, error)
}

// Service validates and stores clearances.
type Service struct {
	repo           Repository
	providers      ProviderLookup
	representators RepresentatorLookup
	locker         subjectlock.Locker
}

func NewService(repo Repository, providers ProviderLookup, representators RepresentatorLookup, locker subjectlock.Locker) *Service {
	return &Service{repo: repo, providers: providers, representators: representators, locker: locker}
}

// Create validates req and inserts a new clearance.
func (s *Service) Create(ctx context.Context, req Request, now time.Time) (c *models.Clearance, err error) {
	defer func() { metrics.ObserveWrite(Resource, metrics.OutcomeCreated, err) }()

	record := &models.Clearance{}
	if err := s.prepare(req, record, now); err != nil {
		return nil, err
	}
	if err := s.save(ctx, record, nil); err != nil {
		return nil, err
	}

	log.Infof("[Clearance] Created clearance %d for %s %s", record.ID, record.SubjectKey(), record.Interval())
	return s.Get(ctx, record.ID)
}

// Update replaces every field of clearance id with req.
func (s *Service) Update(ctx context.Context, id uint, req Request, now time.Time) (c *models.Clearance, err error) {
	defer func() { metrics.ObserveWrite(Resource, metrics.OutcomeUpdated, err) }()

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(req, record, now); err != nil {
		return nil, err
	}
	if err := s.save(ctx, record, &id); err != nil {
		return nil, err
	}

	log.Infof("[Clearance] Updated clearance %d for %s %s", record.ID, record.SubjectKey(), record.Interval())
	return s.Get(ctx, record.ID)
}

// save runs the overlap check and the write under the subject lock.
// A nil excludeRecordID inserts, otherwise the record is updated in place.
func (s *Service) save(ctx context.Context, record *models.Clearance, excludeRecordID *uint) error {
	return intervalstore.WithSubjectLock(ctx, s.locker, Resource, record.SubjectKey(), func() error {
		return s.repo.Transaction(ctx, func(tx Repository) error {
			existing, err := tx.ListBySubject(ctx, record.ProviderID, record.RepresentatorID)
			if err != nil {
				return err
			}
			intervals := make([]validity.Interval, 0, len(existing))
			for i := range existing {
				intervals = append(intervals, existing[i].Interval())
			}
			if err := intervalstore.CheckNoOverlap(Resource, record.Interval(), intervals, excludeRecordID); err != nil {
				return err
			}
			if excludeRecordID == nil {
				return tx.Create(ctx, record)
			}
			return tx.Update(ctx, record)
		})
	})
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Clearance, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("clearance %d not found", id)
	}
	return c, err
}

func (s *Service) Delete(ctx context.Context, id uint) (err error) {
	defer func() { metrics.ObserveWrite(Resource, metrics.OutcomeDeleted, err) }()

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Infof("[Clearance] Deleted clearance %d", id)
	return nil
}

func (s *Service) List(ctx context.Context, filter Filter, page pagination.Request) ([]models.Clearance, int64, error) {
	return s.repo.List(ctx, filter, page)
}

// ActiveForProvider returns the clearances of a provider in force at at.
func (s *Service) ActiveForProvider(ctx context.Context, providerID uint, at time.Time) ([]models.Clearance, error) {
	if err := s.requireProvider(providerID); err != nil {
		return nil, err
	}
	records, _, err := s.repo.List(ctx,
		Filter{ProviderID: providerID, Status: validity.StatusActive, At: at},
		pagination.Request{SortBy: "F_03", SortDir: "asc"})
	return records, err
}

// Expiring returns bounded clearances whose remaining whole days at now are in (0, days].
func (s *Service) Expiring(ctx context.Context, now time.Time, days int) ([]models.Clearance, error) {
	if err := intervalstore.ValidateExpiringWindow(days); err != nil {
		return nil, err
	}
	from, to := intervalstore.ExpiringRange(now, days)
	candidates, err := s.repo.ListEndingWithin(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var records []models.Clearance
	for i := range candidates {
		if validity.IsWithinDaysOfExpiration(candidates[i].Interval(), now, int64(days)) {
			records = append(records, candidates[i])
		}
	}
	return records, nil
}

// AuditOverlaps reports stored pairs that break the no-overlap rule.
func (s *Service) AuditOverlaps(ctx context.Context) ([][2]validity.Interval, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	intervals := make([]validity.Interval, 0, len(records))
	for i := range records {
		intervals = append(intervals, records[i].Interval())
	}
	return validity.FindOverlapsBySubject(intervals), nil
}

func (s *Service) prepare(req Request, record *models.Clearance, now time.Time) error {
	if err := apperror.ValidateStruct(req); err != nil {
		return err
	}
	req.apply(record)

	if err := validity.ValidateBounds(record.Interval(), now); err != nil {
		return err
	}
	if err := s.requireProvider(record.ProviderID); err != nil {
		return err
	}

	representator, err := s.representators.GetByID(record.RepresentatorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("representator %d not found", record.RepresentatorID)
	}
	if err != nil {
		return err
	}
	if representator.ProviderID != record.ProviderID {
		return apperror.Validation("representator_id", "representator %d does not belong to provider %d", representator.ID, record.ProviderID)
	}
	return nil
}

func (s *Service) requireProvider(id uint) error {
	ok, err := s.providers.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("provider %d not found", id)
	}
	return nil
}
