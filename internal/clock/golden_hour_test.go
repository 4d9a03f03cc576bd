package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/luckydraw/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestMultiplier_WindowBoundaries(t *testing.T) {
	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	hours := []domain.GoldenHour{
		{ID: 1, EventID: 1, RewardID: ptr(int64(10)), StartTime: start, EndTime: end, Multiplier: 2.0, Active: true},
	}

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"before window", start.Add(-time.Nanosecond), 1.0},
		{"at start", start, 2.0},
		{"inside", start.Add(30 * time.Minute), 2.0},
		{"just before end", end.Add(-time.Nanosecond), 2.0},
		{"at end", end, 1.0},
		{"after", end.Add(time.Minute), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Multiplier(hours, 10, tt.now))
		})
	}
}

func TestMultiplier_Targeting(t *testing.T) {
	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(10 * time.Minute)
	hours := []domain.GoldenHour{
		{ID: 1, RewardID: ptr(int64(10)), StartTime: start, EndTime: start.Add(time.Hour), Multiplier: 3.0, Active: true},
		{ID: 2, RewardID: nil, StartTime: start, EndTime: start.Add(time.Hour), Multiplier: 1.5, Active: true},
		{ID: 3, RewardID: ptr(int64(20)), StartTime: start, EndTime: start.Add(time.Hour), Multiplier: 5.0, Active: false},
	}

	t.Run("reward specific window beats event wide", func(t *testing.T) {
		assert.Equal(t, 3.0, Multiplier(hours, 10, now))
	})

	t.Run("event wide applies to other rewards", func(t *testing.T) {
		assert.Equal(t, 1.5, Multiplier(hours, 30, now))
	})

	t.Run("inactive window ignored", func(t *testing.T) {
		h, ok := CurrentGoldenHour(hours, 20, now)
		assert.True(t, ok)
		assert.Equal(t, int64(2), h.ID)
	})

	t.Run("multipliers map", func(t *testing.T) {
		m := Multipliers(hours, []domain.Reward{{ID: 10}, {ID: 30}}, now)
		assert.Equal(t, map[int64]float64{10: 3.0, 30: 1.5}, m)
	})
}

func TestCurrentGoldenHour_None(t *testing.T) {
	h, ok := CurrentGoldenHour(nil, 1, time.Now())
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestEventMultiplier(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rewardID := int64(7)
	hours := []domain.GoldenHour{
		{ID: 1, StartTime: base, EndTime: base.Add(3 * time.Hour), Multiplier: 2, Active: true},
		{ID: 2, StartTime: base, EndTime: base.Add(3 * time.Hour), Multiplier: 4, Active: false},
		{ID: 3, RewardID: &rewardID, StartTime: base, EndTime: base.Add(3 * time.Hour), Multiplier: 5, Active: true},
	}

	assert.Equal(t, 2.0, EventMultiplier(hours, base.Add(time.Hour)))
	assert.Equal(t, domain.NeutralMultiplier, EventMultiplier(hours, base.Add(3*time.Hour)))
	assert.Equal(t, domain.NeutralMultiplier, EventMultiplier(nil, base))
}
