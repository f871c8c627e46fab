// Package validity holds the time-window rules shared by provider exclusions
// and clearances: bounds checks, the per-subject no-overlap rule and the
// status derived from "now". Every function takes now explicitly.
package validity

import (
	"fmt"
	"time"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

// MaxStartAheadYears is how far in the future an interval may start.
const MaxStartAheadYears = 1

// Interval is the projection of an exclusion or clearance record used for validation.
// A nil End means the interval is permanent.
type Interval struct {
	SubjectKey string
	RecordID   uint
	Start      time.Time
	End        *time.Time
}

// IsPermanent reports whether the interval never closes.
func (iv Interval) IsPermanent() bool {
	return iv.End == nil
}

func (iv Interval) String() string {
	if iv.End == nil {
		return fmt.Sprintf("[%s, permanent)", iv.Start.Format(time.RFC3339))
	}
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// ValidateBounds checks the rules a single interval must satisfy on create and update.
func ValidateBounds(iv Interval, now time.Time) error {
	if iv.Start.IsZero() {
		return apperror.Validation("start_date", "start date is required")
	}
	if iv.End != nil && !iv.End.After(iv.Start) {
		return apperror.Validation("end_date", "end date must be after start date")
	}
	if limit := now.AddDate(MaxStartAheadYears, 0, 0); iv.Start.After(limit) {
		return apperror.Validation("start_date", "start date cannot be more than %d year in the future", MaxStartAheadYears)
	}
	return nil
}
