package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Category errors
	ErrMsgNotEligible = "spin not eligible"
	ErrMsgNotFound    = "not found"

	// Integrity errors
	ErrMsgEventNotFound       = "event not found"
	ErrMsgLocationNotFound    = "event location not found"
	ErrMsgParticipantNotFound = "participant not found"
	ErrMsgRewardNotFound      = "reward not found"
	ErrMsgSpinNotFound        = "spin history not found"

	// Eligibility errors
	ErrMsgEventNotActive            = "event is not active"
	ErrMsgEventNotStarted           = "event has not started"
	ErrMsgEventExpired              = "event has ended"
	ErrMsgEventQuotaExhausted       = "no spins remaining for this event"
	ErrMsgLocationInactive          = "event location is not active"
	ErrMsgLocationNotInEvent        = "location does not belong to this event"
	ErrMsgLocationQuotaExhausted    = "daily spin limit reached for this location"
	ErrMsgParticipantInactive       = "participant is not active"
	ErrMsgParticipantNotInEvent     = "participant does not belong to this event"
	ErrMsgParticipantQuotaExhausted = "participant has no remaining spins"
	ErrMsgParticipationNotActive    = "participant has no active participation"
	ErrMsgRewardUnavailable         = "reward is no longer available"
	ErrMsgCommitRejected            = "spin could not be committed"

	// Concurrency errors
	ErrMsgVersionConflict      = "version conflict"
	ErrMsgConcurrencyExhausted = "could not allocate spin under contention"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Category sentinels. Every eligibility error wraps ErrNotEligible and every
// integrity error wraps ErrNotFound so callers can branch on the category with
// errors.Is without enumerating reasons.
var (
	ErrNotEligible = errors.New(ErrMsgNotEligible)
	ErrNotFound    = errors.New(ErrMsgNotFound)
)

// Data-integrity errors: a referenced entity does not exist. Never retried.
var (
	ErrEventNotFound       = newCategorized(ErrMsgEventNotFound, ErrNotFound)
	ErrLocationNotFound    = newCategorized(ErrMsgLocationNotFound, ErrNotFound)
	ErrParticipantNotFound = newCategorized(ErrMsgParticipantNotFound, ErrNotFound)
	ErrRewardNotFound      = newCategorized(ErrMsgRewardNotFound, ErrNotFound)
	ErrSpinNotFound        = newCategorized(ErrMsgSpinNotFound, ErrNotFound)
)

// Eligibility errors: business rejections, terminal, surfaced with a reason code.
var (
	ErrEventNotActive            = newCategorized(ErrMsgEventNotActive, ErrNotEligible)
	ErrEventNotStarted           = newCategorized(ErrMsgEventNotStarted, ErrNotEligible)
	ErrEventExpired              = newCategorized(ErrMsgEventExpired, ErrNotEligible)
	ErrEventQuotaExhausted       = newCategorized(ErrMsgEventQuotaExhausted, ErrNotEligible)
	ErrLocationInactive          = newCategorized(ErrMsgLocationInactive, ErrNotEligible)
	ErrLocationNotInEvent        = newCategorized(ErrMsgLocationNotInEvent, ErrNotEligible)
	ErrLocationQuotaExhausted    = newCategorized(ErrMsgLocationQuotaExhausted, ErrNotEligible)
	ErrParticipantInactive       = newCategorized(ErrMsgParticipantInactive, ErrNotEligible)
	ErrParticipantNotInEvent     = newCategorized(ErrMsgParticipantNotInEvent, ErrNotEligible)
	ErrParticipantQuotaExhausted = newCategorized(ErrMsgParticipantQuotaExhausted, ErrNotEligible)
	ErrParticipationNotActive    = newCategorized(ErrMsgParticipationNotActive, ErrNotEligible)
	ErrRewardUnavailable         = newCategorized(ErrMsgRewardUnavailable, ErrNotEligible)
	ErrCommitRejected            = newCategorized(ErrMsgCommitRejected, ErrNotEligible)
)

// Concurrency errors
var (
	// ErrVersionConflict is internal to the ledger retry loop and is never
	// returned from a successful spin.
	ErrVersionConflict = errors.New(ErrMsgVersionConflict)

	// ErrConcurrencyExhausted is returned when every commit attempt lost a
	// version race. Callers may retry at a higher level or report "busy".
	ErrConcurrencyExhausted = errors.New(ErrMsgConcurrencyExhausted)
)

// Common errors
var (
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// categorizedError carries its own message and reports its category through
// errors.Is.
type categorizedError struct {
	msg      string
	category error
}

func newCategorized(msg string, category error) error {
	return &categorizedError{msg: msg, category: category}
}

func (e *categorizedError) Error() string { return e.msg }

func (e *categorizedError) Unwrap() error { return e.category }

// ReasonCode returns a stable machine-readable code for a business rejection,
// or an empty string when err is not an eligibility or integrity error.
func ReasonCode(err error) string {
	for sentinel, code := range reasonCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

var reasonCodes = map[error]string{
	ErrEventNotFound:             "EVENT_NOT_FOUND",
	ErrLocationNotFound:          "LOCATION_NOT_FOUND",
	ErrParticipantNotFound:       "PARTICIPANT_NOT_FOUND",
	ErrRewardNotFound:            "REWARD_NOT_FOUND",
	ErrSpinNotFound:              "SPIN_NOT_FOUND",
	ErrEventNotActive:            "EVENT_NOT_ACTIVE",
	ErrEventNotStarted:           "EVENT_NOT_STARTED",
	ErrEventExpired:              "EVENT_EXPIRED",
	ErrEventQuotaExhausted:       "EVENT_QUOTA_EXHAUSTED",
	ErrLocationInactive:          "LOCATION_INACTIVE",
	ErrLocationNotInEvent:        "LOCATION_NOT_IN_EVENT",
	ErrLocationQuotaExhausted:    "LOCATION_QUOTA_EXHAUSTED",
	ErrParticipantInactive:       "PARTICIPANT_INACTIVE",
	ErrParticipantNotInEvent:     "PARTICIPANT_NOT_IN_EVENT",
	ErrParticipantQuotaExhausted: "PARTICIPANT_QUOTA_EXHAUSTED",
	ErrParticipationNotActive:    "PARTICIPATION_NOT_ACTIVE",
	ErrRewardUnavailable:         "REWARD_UNAVAILABLE",
	ErrCommitRejected:            "COMMIT_REJECTED",
	ErrConcurrencyExhausted:      "CONCURRENCY_EXHAUSTED",
}
