package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, OutcomeCreated},
		{"validation", apperror.Validation("start_date", "required"), OutcomeValidation},
		{"conflict", apperror.Conflict("overlap"), OutcomeConflict},
		{"not found", apperror.NotFound("missing"), OutcomeNotFound},
		{"plain error", errors.New("db down"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeFor(tt.err, OutcomeCreated))
		})
	}
}

func TestObserveWriteIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(IntervalWrites.WithLabelValues("test_resource", OutcomeConflict))
	ObserveWrite("test_resource", OutcomeCreated, apperror.Conflict("overlap"))
	after := testutil.ToFloat64(IntervalWrites.WithLabelValues("test_resource", OutcomeConflict))

	assert.Equal(t, before+1, after)
}

func TestObserveLockWait(t *testing.T) {
	ObserveLockWait("test_resource", time.Now().Add(-10*time.Millisecond))
	assert.Equal(t, 1, testutil.CollectAndCount(SubjectLockWait))
}
