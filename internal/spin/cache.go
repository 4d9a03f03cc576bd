package spin

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/luckydraw/internal/domain"
)

// scheduleCache keeps each event's golden hour schedule in memory. Only the
// schedule is cached; counters are always read from the store.
type scheduleCache struct {
	lru *expirable.LRU[int64, []domain.GoldenHour]
}

// newScheduleCache creates a cache holding at most size event schedules for ttl
func newScheduleCache(size int, ttl time.Duration) *scheduleCache {
	if ttl <= 0 {
		ttl = DefaultScheduleCacheTTL
	}
	return &scheduleCache{
		lru: expirable.NewLRU[int64, []domain.GoldenHour](size, nil, ttl),
	}
}

// Get returns the cached schedule for eventID
func (c *scheduleCache) Get(eventID int64) ([]domain.GoldenHour, bool) {
	return c.lru.Get(eventID)
}

// Set stores a copy of the schedule for eventID
func (c *scheduleCache) Set(eventID int64, hours []domain.GoldenHour) {
	stored := make([]domain.GoldenHour, len(hours))
	copy(stored, hours)
	c.lru.Add(eventID, stored)
}

