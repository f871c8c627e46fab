package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

// Write outcomes recorded for interval records.
const (
	OutcomeCreated    = "created"
	OutcomeUpdated    = "updated"
	OutcomeDeleted    = "deleted"
	OutcomeValidation = "validation_error"
	OutcomeConflict   = "conflict"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

var (
	IntervalWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raas_interval_writes_total",
		Help: "Writes of exclusion and clearance records by outcome",
	}, []string{"resource", "outcome"})

	SubjectLockWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "raas_subject_lock_wait_seconds",
		Help:    "Time spent waiting for a per-subject write lock",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"resource"})
)

// OutcomeFor maps a write result to its outcome label; success is the label to use when err is nil.
func OutcomeFor(err error, success string) string {
	if err == nil {
		return success
	}
	appErr, ok := apperror.As(err)
	if !ok {
		return OutcomeError
	}
	switch appErr.Kind {
	case apperror.KindValidation:
		return OutcomeValidation
	case apperror.KindConflict:
		return OutcomeConflict
	case apperror.KindNotFound:
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// ObserveWrite records the result of a create, update or delete.
func ObserveWrite(resource, success string, err error) {
	IntervalWrites.WithLabelValues(resource, OutcomeFor(err, success)).Inc()
}

// ObserveLockWait records how long a writer waited for its subject lock.
func ObserveLockWait(resource string, started time.Time) {
	SubjectLockWait.WithLabelValues(resource).Observe(time.Since(started).Seconds())
}
