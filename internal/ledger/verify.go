package ledger

import (
	"time"

	"github.com/osse101/luckydraw/internal/domain"
)

// CalendarDate returns the calendar date of t, in t's own location, as a
// UTC midnight. Stores persist reset dates in this form.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ApplyDailyReset restores the location's daily allowance when day is a later
// calendar date than its last reset. Reports whether a reset happened.
func ApplyDailyReset(loc *domain.EventLocation, day time.Time) bool {
	today := CalendarDate(day)
	if !loc.LastResetDate.IsZero() && !CalendarDate(loc.LastResetDate).Before(today) {
		return false
	}
	loc.RemainingSpinsToday = loc.DailySpinLimit
	loc.LastResetDate = today
	return true
}

// RemainingToday is what the location has left on day without mutating it
func RemainingToday(loc domain.EventLocation, day time.Time) int {
	ApplyDailyReset(&loc, day)
	return loc.RemainingSpinsToday
}

// Check verifies every precondition of a commit against freshly read state.
// Counter gates are checked before the reward so a spin that cannot happen
// at all is never downgraded to a loss.
func Check(event domain.Event, loc domain.EventLocation, p domain.Participant, reward *domain.Reward) Reason {
	switch {
	case !event.Active:
		return ReasonEventInactive
	case event.RemainingSpins <= 0:
		return ReasonEventExhausted
	case !loc.Active:
		return ReasonLocationInactive
	case loc.HasDailyLimit() && loc.RemainingSpinsToday <= 0:
		return ReasonLocationExhausted
	case !p.Active:
		return ReasonParticipantInactive
	case p.RemainingSpins <= 0:
		return ReasonParticipantExhausted
	}
	if reward != nil {
		if !reward.Active {
			return ReasonRewardInactive
		}
		if reward.RemainingQuantity <= 0 {
			return ReasonRewardExhausted
		}
	}
	return ReasonNone
}

// Apply decrements each counter by exactly one and bumps every version.
// Callers must have passed Check first.
func Apply(snap *Snapshot) {
	snap.Event.RemainingSpins--
	snap.Event.Version++
	if snap.Location.HasDailyLimit() {
		snap.Location.RemainingSpinsToday--
	}
	snap.Location.Version++
	snap.Participant.RemainingSpins--
	snap.Participant.Version++
	if snap.Reward != nil {
		snap.Reward.RemainingQuantity--
		snap.Reward.Version++
	}
}

// NewHistory builds the audit row for a committed spin from post-commit state
func NewHistory(req CommitRequest, snap Snapshot) domain.SpinHistory {
	h := domain.SpinHistory{
		EventID:        req.EventID,
		LocationID:     req.LocationID,
		ParticipantID:  req.ParticipantID,
		Result:         domain.SpinResultLose,
		Multiplier:     req.Multiplier,
		GoldenHour:     req.GoldenHour,
		RemainingSpins: snap.Participant.RemainingSpins,
		SpinTime:       req.SpinTime,
	}
	if h.Multiplier <= 0 {
		h.Multiplier = domain.NeutralMultiplier
	}
	if snap.Reward != nil {
		id := snap.Reward.ID
		points := snap.Reward.Points
		h.RewardID = &id
		h.Won = true
		h.Result = domain.SpinResultWin
		h.PointsEarned = &points
	}
	return h
}
