package domain

import "time"

// Spin result values stored on history rows
const (
	SpinResultWin  = "WIN"
	SpinResultLose = "LOSE"
)

// EventTypeSpinCompleted is published after a spin has been recorded
const EventTypeSpinCompleted = "spin.completed"

// SpinState tracks the allocator's progress through a single spin
type SpinState string

const (
	SpinStateRequested          SpinState = "Requested"
	SpinStateEligibilityChecked SpinState = "EligibilityChecked"
	SpinStateCandidateSelected  SpinState = "CandidateSelected"
	SpinStateCommitted          SpinState = "Committed"
	SpinStateRecorded           SpinState = "Recorded"
)

// SpinRequest asks the allocator to perform one spin. The optional fields are
// facts an upstream caller may already know; when nil they are derived from
// stored state.
type SpinRequest struct {
	EventID       int64 `json:"event_id" validate:"required,gt=0"`
	ParticipantID int64 `json:"participant_id" validate:"required,gt=0"`
	LocationID    int64 `json:"location_id" validate:"required,gt=0"`

	HasActiveParticipation       *bool              `json:"has_active_participation,omitempty"`
	RemainingSpinsForParticipant *int               `json:"remaining_spins_for_participant,omitempty" validate:"omitnil,gte=0"`
	ParticipantStatus            *ParticipantStatus `json:"participant_status,omitempty" validate:"omitnil,oneof=ACTIVE INACTIVE"`
}

// SpinOutcome is returned to the caller of a successful spin
type SpinOutcome struct {
	SpinID            int64   `json:"spin_id"`
	Won               bool    `json:"won"`
	RewardID          *int64  `json:"reward_id,omitempty"`
	RewardName        string  `json:"reward_name,omitempty"`
	PointsEarned      *int    `json:"points_earned,omitempty"`
	AppliedMultiplier float64 `json:"applied_multiplier"`
	IsGoldenHour      bool    `json:"is_golden_hour"`
	RemainingSpins    int     `json:"remaining_spins"`
}

// SpinHistory is the immutable audit record of one committed spin.
// Only the finalize step mutates it, and only once.
type SpinHistory struct {
	ID             int64      `json:"id"`
	EventID        int64      `json:"event_id"`
	LocationID     int64      `json:"location_id"`
	ParticipantID  int64      `json:"participant_id"`
	RewardID       *int64     `json:"reward_id,omitempty"`
	Won            bool       `json:"won"`
	Result         string     `json:"result"`
	PointsEarned   *int       `json:"points_earned,omitempty"`
	Multiplier     float64    `json:"multiplier"`
	GoldenHour     bool       `json:"golden_hour"`
	RemainingSpins int        `json:"remaining_spins"`
	SpinTime       time.Time  `json:"spin_time"`
	Finalized      bool       `json:"finalized"`
	FinalizedAt    *time.Time `json:"finalized_at,omitempty"`
}

// SpinStatistics summarises a participant's spins
type SpinStatistics struct {
	ParticipantID   int64   `json:"participant_id"`
	TotalSpins      int     `json:"total_spins"`
	WinningSpins    int     `json:"winning_spins"`
	WinRate         float64 `json:"win_rate"`
	TotalPoints     int     `json:"total_points"`
	RemainingSpins  int     `json:"remaining_spins"`
	UnfinalizedWins int     `json:"unfinalized_wins"`
}

// SpinCompletedPayload is the event payload for spin.completed events
type SpinCompletedPayload struct {
	SpinID        int64   `json:"spin_id"`
	EventID       int64   `json:"event_id"`
	LocationID    int64   `json:"location_id"`
	ParticipantID int64   `json:"participant_id"`
	RewardID      *int64  `json:"reward_id,omitempty"`
	Won           bool    `json:"won"`
	Multiplier    float64 `json:"multiplier"`
	GoldenHour    bool    `json:"golden_hour"`
	Timestamp     int64   `json:"timestamp"`
}
