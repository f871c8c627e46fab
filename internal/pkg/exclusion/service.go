// Package exclusion manages provider exclusions: periods during which a
// provider is barred from tendering. Writes for one provider and exclusion
// type are serialized and checked against the no-overlap rule.
package exclusion

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

// ProviderLookup is the part of the provider repository the service needs.
type ProviderLookup interface {
	Exists(id uint) (bool, error)
}

// TypeLookup is the part of the exclusion type repository the service needs.
type TypeLookup interface {
	GetByID(id uint) (*models.ExclusionType, error)
}

// Service validates and stores provider exclusions.
type Service struct {
	repo      Repository
	providers ProviderLookup
	types     TypeLookup
	locker    subjectlock.Locker
}

// NewService creates an exclusion service from injected dependencies.
func NewService(repo Repository, providers ProviderLookup, types TypeLookup, locker subjectlock.Locker) *Service {
	return &Service{repo: repo, providers: providers, types: types, locker: locker}
}

// Create validates req and inserts a new exclusion.
func (s *Service) Create(ctx context.Context, req Request, now time.Time) (pe *models.ProviderExclusion, err error) {
	defer func() { metrics.ObserveWrite(Resource, metrics.OutcomeCreated, err) }()

	record := &models.ProviderExclusion{}
	if err := s.prepare(req, record, now); err != nil {
		return nil, err
	}

	err = intervalstore.WithSubjectLock(ctx, s.locker, Resource, record.SubjectKey(), func() error {
		return s.repo.Transaction(ctx, func(tx Repository) error {
			if err := checkSubject(ctx, tx, record, nil); err != nil {
				return err
			}
			return tx.Create(ctx, record)
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Exclusion] Created exclusion %d for %s %s", record.ID, record.SubjectKey(), record.Interval())
	return s.Get(ctx, record.ID)
}

// Update replaces every field of exclusion id with req.
func (s *Service) Update(ctx context.Context, id uint, req Request, now time.Time) (pe *models.ProviderExclusion, err error) {
	defer func() { metrics.ObserveWrite(Resource, metrics.OutcomeUpdated, err) }()

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(req, record, now); err != nil {
		return nil, err
	}

	err = intervalstore.WithSubjectLock(ctx, s.locker, Resource, record.SubjectKey(), func() error {
		return s.repo.Transaction(ctx, func(tx Repository) error {
			if err := checkSubject(ctx, tx, record, &id); err != nil {
				return err
			}
			return tx.Update(ctx, record)
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Exclusion] Updated exclusion %d for %s %s", record.ID, record.SubjectKey(), record.Interval())
	return s.Get(ctx, record.ID)
}

// Get returns exclusion id with its provider and exclusion type loaded.
func (s *Service) Get(ctx context.Context, id uint) (*models.ProviderExclusion, error) {
	pe, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("provider exclusion %d not found", id)
	}
	return pe, err
}

// Delete removes exclusion id.
func (s *Service) Delete(ctx context.Context, id uint) (err error) {
	defer func() { metrics.ObserveWrite(Resource, metrics.OutcomeDeleted, err) }()

	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Infof("[Exclusion] Deleted exclusion %d for %s", id, record.SubjectKey())
	return nil
}

// List returns one page of exclusions matching filter.
func (s *Service) List(ctx context.Context, filter Filter, page pagination.Request) ([]models.ProviderExclusion, int64, error) {
	return s.repo.List(ctx, filter, page)
}

// ActiveForProvider returns the exclusions of a provider that are in force at at.
func (s *Service) ActiveForProvider(ctx context.Context, providerID uint, at time.Time) ([]models.ProviderExclusion, error) {
	if err := s.requireProvider(providerID); err != nil {
		return nil, err
	}
	filter := Filter{ProviderID: providerID, Status: validity.StatusActive, At: at}
	records, _, err := s.repo.List(ctx, filter, pagination.Request{SortBy: "F_03", SortDir: "asc"})
	return records, err
}

// Expiring returns bounded exclusions whose remaining whole days at now are in (0, days].
func (s *Service) Expiring(ctx context.Context, now time.Time, days int) ([]models.ProviderExclusion, error) {
	if err := intervalstore.ValidateExpiringWindow(days); err != nil {
		return nil, err
	}
	from, to := intervalstore.ExpiringRange(now, days)
	candidates, err := s.repo.ListEndingWithin(ctx, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]models.ProviderExclusion, 0, len(candidates))
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

// prepare validates req and copies it onto record. Everything checked here
// is independent of the other records of the subject.
func (s *Service) prepare(req Request, record *models.ProviderExclusion, now time.Time) error {
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

	exclusionType, err := s.types.GetByID(record.ExclusionTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("exclusion type %d not found", record.ExclusionTypeID)
	}
	if err != nil {
		return err
	}
	return checkMaxDuration(exclusionType, record.Interval())
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

func checkMaxDuration(exclusionType *models.ExclusionType, iv validity.Interval) error {
	if !exclusionType.HasMaxDuration() {
		return nil
	}
	if iv.IsPermanent() {
		return apperror.Validation("end_date", "exclusion type %s requires an end date", exclusionType.Code)
	}
	if d := validity.DurationDays(iv); *d > int64(exclusionType.MaxDays) {
		return apperror.Validation("end_date", "exclusion type %s allows at most %d days, got %d", exclusionType.Code, exclusionType.MaxDays, *d)
	}
	return nil
}

// checkSubject validates record against the stored exclusions of its subject.
func checkSubject(ctx context.Context, tx Repository, record *models.ProviderExclusion, excludeRecordID *uint) error {
	existing, err := tx.ListBySubject(ctx, record.ProviderID, record.ExclusionTypeID)
	if err != nil {
		return err
	}
	intervals := make([]validity.Interval, 0, len(existing))
	for i := range existing {
		intervals = append(intervals, existing[i].Interval())
	}
	return intervalstore.CheckNoOverlap(Resource, record.Interval(), intervals, excludeRecordID)
}
