// Package ledger defines the atomic multi-counter commit contract and the
// bounded retry loop that drives it under optimistic concurrency.
package ledger

import (
	"time"

	"github.com/osse101/luckydraw/internal/domain"
)

// DefaultMaxAttempts is the retry bound used when none is configured
const DefaultMaxAttempts = 3

// Status is the outcome class of one commit attempt
type Status int

const (
	// StatusCommitted means every counter was decremented and the history row written
	StatusCommitted Status = iota
	// StatusConflict means a version token changed between read and write; retryable
	StatusConflict
	// StatusNoCapacity means a precondition failed; not retryable
	StatusNoCapacity
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusConflict:
		return "conflict"
	case StatusNoCapacity:
		return "no_capacity"
	default:
		return "unknown"
	}
}

// Reason explains a StatusNoCapacity result
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonEventInactive        Reason = "EVENT_INACTIVE"
	ReasonEventExhausted       Reason = "EVENT_EXHAUSTED"
	ReasonLocationInactive     Reason = "LOCATION_INACTIVE"
	ReasonLocationExhausted    Reason = "LOCATION_EXHAUSTED"
	ReasonParticipantInactive  Reason = "PARTICIPANT_INACTIVE"
	ReasonParticipantExhausted Reason = "PARTICIPANT_EXHAUSTED"
	ReasonRewardInactive       Reason = "REWARD_INACTIVE"
	ReasonRewardExhausted      Reason = "REWARD_EXHAUSTED"
)

// RewardUnavailable reports whether the failure only concerns the chosen
// reward. The spin itself still has capacity and can commit as a loss.
func (r Reason) RewardUnavailable() bool {
	return r == ReasonRewardExhausted || r == ReasonRewardInactive
}

// Err maps a counter reason to its eligibility error
func (r Reason) Err() error {
	switch r {
	case ReasonEventInactive:
		return domain.ErrEventNotActive
	case ReasonEventExhausted:
		return domain.ErrEventQuotaExhausted
	case ReasonLocationInactive:
		return domain.ErrLocationInactive
	case ReasonLocationExhausted:
		return domain.ErrLocationQuotaExhausted
	case ReasonParticipantInactive:
		return domain.ErrParticipantInactive
	case ReasonParticipantExhausted:
		return domain.ErrParticipantQuotaExhausted
	case ReasonRewardInactive, ReasonRewardExhausted:
		return domain.ErrRewardUnavailable
	default:
		return domain.ErrCommitRejected
	}
}

// CommitRequest is everything the store needs for one attempt. RewardID nil
// commits a losing spin. Day is the campaign calendar day used for the
// location's lazy daily reset.
type CommitRequest struct {
	EventID       int64
	LocationID    int64
	ParticipantID int64
	RewardID      *int64
	Day           time.Time
	SpinTime      time.Time
	Multiplier    float64
	GoldenHour    bool
}

// Snapshot holds the counters after a successful commit
type Snapshot struct {
	Event       domain.Event
	Location    domain.EventLocation
	Participant domain.Participant
	Reward      *domain.Reward
}

// CommitResult is returned by a store's AttemptCommit
type CommitResult struct {
	Status   Status
	Reason   Reason
	Snapshot Snapshot
	History  *domain.SpinHistory
}

// Committed builds a successful result
func Committed(snap Snapshot, history *domain.SpinHistory) CommitResult {
	return CommitResult{Status: StatusCommitted, Snapshot: snap, History: history}
}

// Conflict builds a retryable result
func Conflict() CommitResult {
	return CommitResult{Status: StatusConflict}
}

// NoCapacity builds a terminal result
func NoCapacity(reason Reason) CommitResult {
	return CommitResult{Status: StatusNoCapacity, Reason: reason}
}
