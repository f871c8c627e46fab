package validity

import (
	"fmt"
	"time"
)

// OverlapError names the stored record a candidate interval collides with.
type OverlapError struct {
	ConflictingID uint
	Start         time.Time
	End           *time.Time
}

func (e *OverlapError) Error() string {
	period := Interval{Start: e.Start, End: e.End}
	return fmt.Sprintf("period overlaps existing record %d %s", e.ConflictingID, period)
}

// Overlaps applies the two-branch rule. When either side is permanent the
// comparison is inclusive, so touching at a boundary counts as overlap. When
// both sides are bounded the comparison is strict and touching does not.
func Overlaps(a, b Interval) bool {
	if a.End == nil || b.End == nil {
		return !a.Start.After(endOrInfinity(b)) && !b.Start.After(endOrInfinity(a))
	}
	return a.Start.Before(*b.End) && a.End.After(b.Start)
}

// ValidateNoOverlap rejects candidate if it overlaps any existing interval of the
// same subject. The record matching excludeRecordID is skipped so an update can be
// checked against everything but its own prior state. The first conflict in
// input order is reported.
func ValidateNoOverlap(candidate Interval, existing []Interval, excludeRecordID *uint) error {
	for _, other := range existing {
		if excludeRecordID != nil && other.RecordID == *excludeRecordID {
			continue
		}
		if Overlaps(candidate, other) {
			return &OverlapError{
				ConflictingID: other.RecordID,
				Start:         other.Start,
				End:           other.End,
			}
		}
	}
	return nil
}

// FindOverlaps returns every overlapping pair among intervals of one subject.
func FindOverlaps(intervals []Interval) [][2]Interval {
	var pairs [][2]Interval
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			if Overlaps(intervals[i], intervals[j]) {
				pairs = append(pairs, [2]Interval{intervals[i], intervals[j]})
			}
		}
	}
	return pairs
}

// FindOverlapsBySubject groups intervals by SubjectKey and runs FindOverlaps on
// each group. Groups are reported in order of first appearance.
func FindOverlapsBySubject(intervals []Interval) [][2]Interval {
	var order []string
	groups := make(map[string][]Interval)
	for _, iv := range intervals {
		if _, ok := groups[iv.SubjectKey]; !ok {
			order = append(order, iv.SubjectKey)
		}
		groups[iv.SubjectKey] = append(groups[iv.SubjectKey], iv)
	}
	var pairs [][2]Interval
	for _, key := range order {
		pairs = append(pairs, FindOverlaps(groups[key])...)
	}
	return pairs
}

var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

func endOrInfinity(iv Interval) time.Time {
	if iv.End == nil {
		return farFuture
	}
	return *iv.End
}
