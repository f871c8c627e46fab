package intervalstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
	"github.com/ManuelReschke/RAAS/internal/pkg/database"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedExclusions(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	end1 := date(2024, 6, 1)
	end2 := date(2024, 7, 20)
	rows := []models.ProviderExclusion{
		{ProviderID: 1, ExclusionTypeID: 1, StartDate: date(2024, 1, 1), EndDate: &end1, Reference: "expired"},
		{ProviderID: 1, ExclusionTypeID: 2, StartDate: date(2024, 6, 1), EndDate: &end2, Reference: "active-bounded"},
		{ProviderID: 2, ExclusionTypeID: 1, StartDate: date(2024, 2, 1), Reference: "active-permanent"},
		{ProviderID: 3, ExclusionTypeID: 1, StartDate: date(2024, 9, 1), Reference: "future"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
	return db
}

func references(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var rows []models.ProviderExclusion
	require.NoError(t, db.Order("F_00").Find(&rows).Error)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Reference)
	}
	return out
}

func TestStatusScopeMatchesClassify(t *testing.T) {
	db := seedExclusions(t)
	now := date(2024, 7, 1)

	tests := []struct {
		status validity.Status
		want   []string
	}{
		{validity.StatusExpired, []string{"expired"}},
		{validity.StatusActive, []string{"active-bounded", "active-permanent"}},
		{validity.StatusFuture, []string{"future"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			scoped := db.Model(&models.ProviderExclusion{}).Scopes(StatusScope(tt.status, now))
			assert.Equal(t, tt.want, references(t, scoped))

			var rows []models.ProviderExclusion
			require.NoError(t, db.Find(&rows).Error)
			var classified []string
			for _, r := range rows {
				if validity.Classify(r.Interval(), now) == tt.status {
					classified = append(classified, r.Reference)
				}
			}
			assert.Equal(t, tt.want, classified)
		})
	}
}

func TestStatusScopeActiveKeepsOtherConditions(t *testing.T) {
	db := seedExclusions(t)
	now := date(2024, 7, 1)

	scoped := db.Model(&models.ProviderExclusion{}).Where("F_01 = ?", 1).Scopes(StatusScope(validity.StatusActive, now))
	assert.Equal(t, []string{"active-bounded"}, references(t, scoped))
}

func TestEndingWithin(t *testing.T) {
	db := seedExclusions(t)
	from, to := ExpiringRange(date(2024, 7, 1), 30)

	scoped := db.Model(&models.ProviderExclusion{}).Scopes(EndingWithin(from, to))
	assert.Equal(t, []string{"active-bounded"}, references(t, scoped))
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2024, 1, 1, 12, 0, 0, 999, loc)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), Normalize(in))
	assert.Nil(t, NormalizePtr(nil))
	assert.Equal(t, time.UTC, NormalizePtr(&in).Location())
}

func TestWithSubjectLock(t *testing.T) {
	locker := subjectlock.NewLocalLocker(10 * time.Millisecond)
	ctx := context.Background()

	called := false
	require.NoError(t, WithSubjectLock(ctx, locker, "test", "k", func() error {
		called = true
		// A nested writer on the same subject is rejected as a conflict.
		err := WithSubjectLock(ctx, locker, "test", "k", func() error { return nil })
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		return nil
	}))
	assert.True(t, called)

	boom := errors.New("boom")
	assert.ErrorIs(t, WithSubjectLock(ctx, locker, "test", "k", func() error { return boom }), boom)
}

func TestCheckNoOverlap(t *testing.T) {
	end := date(2024, 6, 1)
	existing := []validity.Interval{{RecordID: 5, Start: date(2024, 1, 1), End: &end}}
	candidate := validity.Interval{Start: date(2024, 3, 1)}

	err := CheckNoOverlap("exclusion", candidate, existing, nil)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Contains(t, appErr.Message, "existing exclusion 5")

	var overlapErr *validity.OverlapError
	assert.ErrorAs(t, err, &overlapErr)

	self := uint(5)
	assert.NoError(t, CheckNoOverlap("exclusion", candidate, existing, &self))
}

func TestValidateExpiringWindow(t *testing.T) {
	assert.NoError(t, ValidateExpiringWindow(30))
	assert.Error(t, ValidateExpiringWindow(0))
	assert.Error(t, ValidateExpiringWindow(400))
}
