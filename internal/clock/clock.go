// Package clock answers time questions for a campaign: whether an event is
// open, which calendar day a spin falls on and which golden hour applies.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/osse101/luckydraw/internal/domain"
)

// DefaultOffsetHours is the campaign time zone used when none is configured (UTC+7)
const DefaultOffsetHours = 7

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock returns a settable instant. Safe for concurrent use.
type FixedClock struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixedClock creates a clock frozen at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Zone returns the fixed campaign time zone for an hour offset from UTC
func Zone(offsetHours int) *time.Location {
	if offsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*60*60)
}

// Day truncates now to midnight of its calendar day in loc
func Day(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// UntilNextMidnight returns the duration from now until the next 00:00 in loc
func UntilNextMidnight(now time.Time, loc *time.Location) time.Duration {
	next := Day(now, loc).AddDate(0, 0, 1)
	return next.Sub(now)
}

// IsEventOpen reports whether spins may be taken against the event at now.
// The window is inclusive on both ends.
func IsEventOpen(event domain.Event, now time.Time) bool {
	return EventStatus(event, now) == nil
}

// EventStatus returns the eligibility error describing why the event is
// closed at now, or nil when it is open.
func EventStatus(event domain.Event, now time.Time) error {
	switch {
	case !event.Active:
		return domain.ErrEventNotActive
	case now.Before(event.StartDate):
		return domain.ErrEventNotStarted
	case now.After(event.EndDate):
		return domain.ErrEventExpired
	case event.RemainingSpins <= 0:
		return domain.ErrEventQuotaExhausted
	}
	return nil
}
