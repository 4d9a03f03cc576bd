package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/luckydraw/internal/domain"
)

func TestEventStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	base := domain.Event{ID: 1, Active: true, StartDate: start, EndDate: end, TotalSpins: 100, RemainingSpins: 10}

	tests := []struct {
		name    string
		mutate  func(e *domain.Event)
		now     time.Time
		wantErr error
	}{
		{"open", nil, start.Add(time.Hour), nil},
		{"open at exact start", nil, start, nil},
		{"open at exact end", nil, end, nil},
		{"inactive", func(e *domain.Event) { e.Active = false }, start.Add(time.Hour), domain.ErrEventNotActive},
		{"not started", nil, start.Add(-time.Second), domain.ErrEventNotStarted},
		{"expired", nil, end.Add(time.Second), domain.ErrEventExpired},
		{"no spins left", func(e *domain.Event) { e.RemainingSpins = 0 }, start.Add(time.Hour), domain.ErrEventQuotaExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			if tt.mutate != nil {
				tt.mutate(&e)
			}
			err := EventStatus(e, tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.True(t, IsEventOpen(e, tt.now))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrNotEligible)
			assert.False(t, IsEventOpen(e, tt.now))
		})
	}
}

func TestDay(t *testing.T) {
	loc := Zone(DefaultOffsetHours)

	// 18:30 UTC is 01:30 the next day in UTC+7
	now := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)
	day := Day(now, loc)

	assert.Equal(t, 11, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, "UTC+7", day.Location().String())
}

func TestUntilNextMidnight(t *testing.T) {
	loc := Zone(DefaultOffsetHours)
	now := time.Date(2026, 5, 10, 16, 0, 0, 0, time.UTC) // 23:00 local
	assert.Equal(t, time.Hour, UntilNextMidnight(now, loc))
}

func TestZone(t *testing.T) {
	assert.Equal(t, time.UTC, Zone(0))
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, Zone(-5)).Zone()
	assert.Equal(t, -5*3600, offset)
}

func TestFixedClock(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixedClock(t0)
	assert.Equal(t, t0, c.Now())

	c.Advance(90 * time.Minute)
	assert.Equal(t, t0.Add(90*time.Minute), c.Now())

	c.Set(t0)
	assert.Equal(t, t0, c.Now())
}
