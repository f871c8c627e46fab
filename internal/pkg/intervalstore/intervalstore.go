// Package intervalstore holds the persistence and write-guard pieces shared by
// the provider exclusion and clearance stores. Both tables keep the start
// instant in F_03 and the optional end instant in F_04.
package intervalstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/metrics"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

const (
	StartColumn = "F_03"
	EndColumn   = "F_04"
)

// StatusScope restricts a query to records having status at now. It mirrors validity.Classify.
func StatusScope(status validity.Status, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch status {
		case validity.StatusFuture:
			return db.Where(StartColumn+" > ?", now)
		case validity.StatusActive:
			return db.Where(StartColumn+" <= ?", now).
				Where(db.Session(&gorm.Session{NewDB: true}).
					Where(EndColumn + " IS NULL").
					Or(EndColumn+" > ?", now))
		case validity.StatusExpired:
			return db.Where(EndColumn+" IS NOT NULL AND "+EndColumn+" <= ?", now)
		default:
			return db
		}
	}
}

// EndingWithin restricts a query to bounded records ending in (from, to).
func EndingWithin(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(EndColumn+" IS NOT NULL AND "+EndColumn+" > ? AND "+EndColumn+" < ?", from, to)
	}
}

// Normalize drops sub-second precision and converts to UTC, matching what the
// datetime columns keep.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// NormalizePtr is Normalize for optional instants.
func NormalizePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := Normalize(*t)
	return &n
}

// WithSubjectLock runs fn while holding the lock of key. A busy subject is a conflict.
func WithSubjectLock(ctx context.Context, locker subjectlock.Locker, resource, key string, fn func() error) error {
	started := time.Now()
	unlock, err := locker.Lock(ctx, key)
	metrics.ObserveLockWait(resource, started)
	if err != nil {
		if errors.Is(err, subjectlock.ErrBusy) {
			return apperror.Conflict("another change for %s is in progress", key).Wrap(err)
		}
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer unlock()
	return fn()
}

// CheckNoOverlap runs the overlap validator and turns an overlap into a conflict.
func CheckNoOverlap(resource string, candidate validity.Interval, existing []validity.Interval, excludeRecordID *uint) error {
	err := validity.ValidateNoOverlap(candidate, existing, excludeRecordID)
	if err == nil {
		return nil
	}
	var overlapErr *validity.OverlapError
	if errors.As(err, &overlapErr) {
		return apperror.Conflict("%s period %s overlaps existing %s %d", resource, candidate, resource, overlapErr.ConflictingID).Wrap(err)
	}
	return err
}

// ValidateExpiringWindow checks the days parameter of the expiring reports.
func ValidateExpiringWindow(days int) error {
	if days < 1 || days > 366 {
		return apperror.Validation("days", "days must be between 1 and 366")
	}
	return nil
}

// ExpiringRange is the SQL prefilter for records whose remaining whole days fall in (0, days].
func ExpiringRange(now time.Time, days int) (time.Time, time.Time) {
	return now, now.AddDate(0, 0, days+1)
}
