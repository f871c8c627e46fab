package validity

import "time"

// Status is derived on read, never stored.
type Status string

const (
	StatusFuture  Status = "FUTURE"
	StatusActive  Status = "ACTIVE"
	StatusExpired Status = "EXPIRED"
)

// CloseToExpirationDays is the window used by IsCloseToExpiration.
const CloseToExpirationDays = 30

const day = 24 * time.Hour

// ParseStatus accepts the status names case-sensitively.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusFuture, StatusActive, StatusExpired:
		return Status(s), true
	}
	return "", false
}

func Classify(iv Interval, now time.Time) Status {
	if now.Before(iv.Start) {
		return StatusFuture
	}
	if iv.End != nil && !now.Before(*iv.End) {
		return StatusExpired
	}
	return StatusActive
}

// DurationDays is nil for a permanent interval.
func DurationDays(iv Interval) *int64 {
	if iv.End == nil {
		return nil
	}
	d := int64(iv.End.Sub(iv.Start) / day)
	return &d
}

// RemainingDays is nil for a permanent interval and zero once expired.
func RemainingDays(iv Interval, now time.Time) *int64 {
	if iv.End == nil {
		return nil
	}
	var d int64
	if now.Before(*iv.End) {
		d = int64(iv.End.Sub(now) / day)
	}
	return &d
}

func DaysSinceStart(iv Interval, now time.Time) int64 {
	if now.Before(iv.Start) {
		return 0
	}
	return int64(now.Sub(iv.Start) / day)
}

func IsCloseToExpiration(iv Interval, now time.Time) bool {
	return IsWithinDaysOfExpiration(iv, now, CloseToExpirationDays)
}

// IsWithinDaysOfExpiration reports remaining days in (0, days].
func IsWithinDaysOfExpiration(iv Interval, now time.Time, days int64) bool {
	remaining := RemainingDays(iv, now)
	return remaining != nil && *remaining > 0 && *remaining <= days
}

// Snapshot is the read-only view of an interval at a given instant.
type Snapshot struct {
	Status            Status `json:"status"`
	Permanent         bool   `json:"permanent"`
	DurationDays      *int64 `json:"duration_days"`
	RemainingDays     *int64 `json:"remaining_days"`
	DaysSinceStart    int64  `json:"days_since_start"`
	CloseToExpiration bool   `json:"close_to_expiration"`
}

func Describe(iv Interval, now time.Time) Snapshot {
	return Snapshot{
		Status:            Classify(iv, now),
		Permanent:         iv.IsPermanent(),
		DurationDays:      DurationDays(iv),
		RemainingDays:     RemainingDays(iv, now),
		DaysSinceStart:    DaysSinceStart(iv, now),
		CloseToExpiration: IsCloseToExpiration(iv, now),
	}
}
