package clock

import (
	"time"

	"github.com/osse101/luckydraw/internal/domain"
)

// CurrentGoldenHour returns the active window attached to rewardID (or
// event-wide) that contains now. When several overlap, the one with the
// highest multiplier wins; ties go to the lowest ID.
func CurrentGoldenHour(hours []domain.GoldenHour, rewardID int64, now time.Time) (*domain.GoldenHour, bool) {
	var best *domain.GoldenHour
	for i := range hours {
		h := hours[i]
		if !h.Active || !h.AppliesTo(rewardID) || !h.Contains(now) {
			continue
		}
		if best == nil || h.Multiplier > best.Multiplier ||
			(h.Multiplier == best.Multiplier && h.ID < best.ID) {
			best = &h
		}
	}
	return best, best != nil
}

// Multiplier returns the golden hour multiplier for rewardID at now, or
// domain.NeutralMultiplier outside every window.
func Multiplier(hours []domain.GoldenHour, rewardID int64, now time.Time) float64 {
	if h, ok := CurrentGoldenHour(hours, rewardID, now); ok && h.Multiplier > 0 {
		return h.Multiplier
	}
	return domain.NeutralMultiplier
}

// Multipliers resolves the multiplier of every candidate at the same instant
// so a single spin sees one consistent golden hour view.
func Multipliers(hours []domain.GoldenHour, rewards []domain.Reward, now time.Time) map[int64]float64 {
	out := make(map[int64]float64, len(rewards))
	for _, r := range rewards {
		out[r.ID] = Multiplier(hours, r.ID, now)
	}
	return out
}

// EventMultiplier returns the strongest event-wide window open at now, or
// domain.NeutralMultiplier when none is.
func EventMultiplier(hours []domain.GoldenHour, now time.Time) float64 {
	best := domain.NeutralMultiplier
	for _, h := range hours {
		if h.Active && h.RewardID == nil && h.Contains(now) && h.Multiplier > best {
			best = h.Multiplier
		}
	}
	return best
}
