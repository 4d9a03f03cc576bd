package domain

import "time"

// Event is a time-bounded promotional campaign with a global spin pool.
type Event struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Active         bool      `json:"active"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalSpins     int       `json:"total_spins"`
	RemainingSpins int       `json:"remaining_spins"`
	Version        int64     `json:"version"`
}

// EventLocation is a physical venue participating in an event. Its daily
// counter is reset lazily on the first access of a new campaign day.
type EventLocation struct {
	ID                  int64     `json:"id"`
	EventID             int64     `json:"event_id"`
	Code                string    `json:"code"`
	Name                string    `json:"name"`
	Province            string    `json:"province"`
	DailySpinLimit      int       `json:"daily_spin_limit"`
	RemainingSpinsToday int       `json:"remaining_spins_today"`
	LastResetDate       time.Time `json:"last_reset_date"`
	Active              bool      `json:"active"`
	Version             int64     `json:"version"`
}

// HasDailyLimit reports whether the location caps spins per day.
// A zero limit means unlimited.
func (l EventLocation) HasDailyLimit() bool {
	return l.DailySpinLimit > 0
}
