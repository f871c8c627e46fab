package validity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	now := date(2024, 7, 1)

	tests := []struct {
		name string
		iv   Interval
		want Status
	}{
		{"bounded in the past", bounded(0, date(2024, 1, 1), date(2024, 6, 1)), StatusExpired},
		{"permanent starting later", permanent(0, date(2024, 8, 1)), StatusFuture},
		{"permanent already started", permanent(0, date(2024, 1, 1)), StatusActive},
		{"bounded in range", bounded(0, date(2024, 6, 1), date(2024, 8, 1)), StatusActive},
		{"starts exactly now", bounded(0, now, date(2024, 8, 1)), StatusActive},
		{"ends exactly now", bounded(0, date(2024, 6, 1), now), StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.iv, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Classify(tt.iv, now), "classification must be stable")
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("ACTIVE")
	assert.True(t, ok)
	assert.Equal(t, StatusActive, s)

	_, ok = ParseStatus("active")
	assert.False(t, ok)
}

func TestDerivedMetrics(t *testing.T) {
	now := date(2024, 7, 1)

	t.Run("permanent", func(t *testing.T) {
		iv := permanent(0, date(2024, 6, 1))
		assert.Nil(t, DurationDays(iv))
		assert.Nil(t, RemainingDays(iv, now))
		assert.Equal(t, int64(30), DaysSinceStart(iv, now))
		assert.False(t, IsCloseToExpiration(iv, now))
	})

	t.Run("bounded active", func(t *testing.T) {
		iv := bounded(0, date(2024, 6, 1), date(2024, 7, 21))
		require.NotNil(t, DurationDays(iv))
		assert.Equal(t, int64(50), *DurationDays(iv))
		require.NotNil(t, RemainingDays(iv, now))
		assert.Equal(t, int64(20), *RemainingDays(iv, now))
		assert.True(t, IsCloseToExpiration(iv, now))
	})

	t.Run("future start", func(t *testing.T) {
		iv := bounded(0, date(2024, 8, 1), date(2024, 12, 1))
		assert.Equal(t, int64(0), DaysSinceStart(iv, now))
		assert.False(t, IsCloseToExpiration(iv, now))
	})

	t.Run("expired clamps remaining to zero", func(t *testing.T) {
		iv := bounded(0, date(2024, 1, 1), date(2024, 6, 1))
		require.NotNil(t, RemainingDays(iv, now))
		assert.Equal(t, int64(0), *RemainingDays(iv, now))
		assert.False(t, IsCloseToExpiration(iv, now))
	})

	t.Run("close to expiration window is (0, 30]", func(t *testing.T) {
		assert.True(t, IsCloseToExpiration(bounded(0, date(2024, 1, 1), now.AddDate(0, 0, 30)), now))
		assert.False(t, IsCloseToExpiration(bounded(0, date(2024, 1, 1), now.AddDate(0, 0, 31)), now))
		assert.False(t, IsCloseToExpiration(bounded(0, date(2024, 1, 1), now.Add(12*time.Hour)), now))
	})
}

func TestDescribe(t *testing.T) {
	now := date(2024, 7, 1)
	snap := Describe(bounded(0, date(2024, 6, 1), date(2024, 7, 11)), now)

	assert.Equal(t, StatusActive, snap.Status)
	assert.False(t, snap.Permanent)
	require.NotNil(t, snap.RemainingDays)
	assert.Equal(t, int64(10), *snap.RemainingDays)
	assert.Equal(t, int64(30), snap.DaysSinceStart)
	assert.True(t, snap.CloseToExpiration)

	perm := Describe(permanent(0, date(2024, 1, 1)), now)
	assert.True(t, perm.Permanent)
	assert.Nil(t, perm.DurationDays)
	assert.Nil(t, perm.RemainingDays)
}
