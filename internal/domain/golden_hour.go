package domain

import "time"

// NeutralMultiplier is applied when no golden hour window is active.
const NeutralMultiplier = 1.0

// GoldenHour boosts win probability inside [StartTime, EndTime).
// A nil RewardID applies the multiplier to every reward of the event.
type GoldenHour struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"event_id"`
	RewardID   *int64    `json:"reward_id,omitempty"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Multiplier float64   `json:"multiplier"`
	Active     bool      `json:"active"`
}

// Contains reports whether t falls inside the half-open window.
func (g GoldenHour) Contains(t time.Time) bool {
	return !t.Before(g.StartTime) && t.Before(g.EndTime)
}

// AppliesTo reports whether the window targets the given reward.
func (g GoldenHour) AppliesTo(rewardID int64) bool {
	return g.RewardID == nil || *g.RewardID == rewardID
}
