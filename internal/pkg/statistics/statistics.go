// Package statistics computes the back office dashboard counters. Summaries are
// cached in Redis for a minute when the cache is reachable.
package statistics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/models"
	"github.com/ManuelReschke/RAAS/internal/pkg/cache"
	"github.com/ManuelReschke/RAAS/internal/pkg/intervalstore"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

const (
	CacheKeySummary = "statistics:summary:%d:%d" // unix minute, expiring window
	CacheExpiration = time.Minute
)

// StatusCounts counts interval records per status at one instant.
type StatusCounts struct {
	Future   int64 `json:"future"`
	Active   int64 `json:"active"`
	Expired  int64 `json:"expired"`
	Expiring int64 `json:"expiring"`
}

type Summary struct {
	At                time.Time    `json:"at"`
	ExpiringDays      int          `json:"expiring_days"`
	Providers         int64        `json:"providers"`
	ExcludedProviders int64        `json:"excluded_providers"`
	Exclusions        StatusCounts `json:"provider_exclusions"`
	Clearances        StatusCounts `json:"clearances"`
}

type Collector struct {
	db *gorm.DB
}

func NewCollector(db *gorm.DB) *Collector {
	return &Collector{db: db}
}

// Summary returns the counters at the start of the minute containing at.
func (c *Collector) Summary(at time.Time, days int) (*Summary, error) {
	if err := intervalstore.ValidateExpiringWindow(days); err != nil {
		return nil, err
	}
	at = intervalstore.Normalize(at).Truncate(time.Minute)
	key := fmt.Sprintf(CacheKeySummary, at.Unix(), days)

	if cached, ok := loadCached(key); ok {
		return cached, nil
	}

	summary, err := c.compute(at, days)
	if err != nil {
		return nil, err
	}
	storeCached(key, summary)
	return summary, nil
}

func (c *Collector) compute(at time.Time, days int) (*Summary, error) {
	summary := &Summary{At: at, ExpiringDays: days}

	if err := c.db.Model(&models.Provider{}).Count(&summary.Providers).Error; err != nil {
		return nil, fmt.Errorf("count providers: %w", err)
	}
	if err := c.db.Model(&models.ProviderExclusion{}).
		Scopes(intervalstore.StatusScope(validity.StatusActive, at)).
		Distinct("F_01").
		Count(&summary.ExcludedProviders).Error; err != nil {
		return nil, fmt.Errorf("count excluded providers: %w", err)
	}

	var err error
	summary.Exclusions, err = c.countStatuses(&models.ProviderExclusion{}, at)
	if err != nil {
		return nil, err
	}
	summary.Clearances, err = c.countStatuses(&models.Clearance{}, at)
	if err != nil {
		return nil, err
	}

	var exclusions []models.ProviderExclusion
	if err := c.endingSoon(&exclusions, at, days); err != nil {
		return nil, err
	}
	for i := range exclusions {
		if validity.IsWithinDaysOfExpiration(exclusions[i].Interval(), at, int64(days)) {
			summary.Exclusions.Expiring++
		}
	}

	var clearances []models.Clearance
	if err := c.endingSoon(&clearances, at, days); err != nil {
		return nil, err
	}
	for i := range clearances {
		if validity.IsWithinDaysOfExpiration(clearances[i].Interval(), at, int64(days)) {
			summary.Clearances.Expiring++
		}
	}

	return summary, nil
}

func (c *Collector) countStatuses(model interface{}, at time.Time) (StatusCounts, error) {
	var counts StatusCounts
	targets := map[validity.Status]*int64{
		validity.StatusFuture:  &counts.Future,
		validity.StatusActive:  &counts.Active,
		validity.StatusExpired: &counts.Expired,
	}
	for status, target := range targets {
		if err := c.db.Model(model).Scopes(intervalstore.StatusScope(status, at)).Count(target).Error; err != nil {
			return counts, fmt.Errorf("count %s records: %w", status, err)
		}
	}
	return counts, nil
}

func (c *Collector) endingSoon(dest interface{}, at time.Time, days int) error {
	from, to := intervalstore.ExpiringRange(at, days)
	if err := c.db.Scopes(intervalstore.EndingWithin(from, to)).Find(dest).Error; err != nil {
		return fmt.Errorf("load expiring records: %w", err)
	}
	return nil
}

func loadCached(key string) (*Summary, bool) {
	if !cache.IsAvailable() {
		return nil, false
	}
	raw, err := cache.Get(key)
	if err != nil {
		return nil, false
	}
	var summary Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		log.Warnf("[Statistics] Dropping unreadable cache entry %s: %v", key, err)
		return nil, false
	}
	return &summary, true
}

func storeCached(key string, summary *Summary) {
	if !cache.IsAvailable() {
		return
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := cache.Set(key, encoded, CacheExpiration); err != nil {
		log.Warnf("[Statistics] Error caching summary: %v", err)
	}
}
