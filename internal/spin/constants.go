package spin

import "time"

// ============================================================================
// History Limits
// ============================================================================

// DefaultHistoryLimit is used when a history request does not ask for a size
const DefaultHistoryLimit = 20

// MaxHistoryLimit caps a single history page
const MaxHistoryLimit = 100

// ============================================================================
// Schedule Cache
// ============================================================================

// DefaultScheduleCacheTTL bounds how long an edited golden hour schedule can
// stay invisible to the allocator.
const DefaultScheduleCacheTTL = 30 * time.Second

// ============================================================================
// Error Context Messages
// ============================================================================

const (
	ErrContextFailedToGetEvent        = "failed to get event"
	ErrContextFailedToGetLocation     = "failed to get event location"
	ErrContextFailedToGetParticipant  = "failed to get participant"
	ErrContextFailedToGetRewards      = "failed to get rewards"
	ErrContextFailedToGetGoldenHours  = "failed to get golden hours"
	ErrContextFailedToCommitSpin      = "failed to commit spin"
	ErrContextFailedToGetSpin         = "failed to get spin"
	ErrContextFailedToListSpins       = "failed to list spins"
	ErrContextFailedToFinalizeSpin    = "failed to finalize spin"
	ErrContextFailedToGetStatistics   = "failed to get spin statistics"
	ErrContextFailedToGetRemainingDay = "failed to get remaining spins today"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgSpinRequested        = "Spin requested"
	LogMsgSpinRejected         = "Spin rejected"
	LogMsgCandidateSelected    = "Spin candidate selected"
	LogMsgRewardUnavailable    = "Selected reward unavailable at commit, recording as loss"
	LogMsgSpinRecorded         = "Spin recorded"
	LogMsgSpinFinalized        = "Spin finalized"
	LogMsgSpinAlreadyFinalized = "Spin already finalized"
	LogMsgShuttingDown         = "Shutting down spin service, waiting for async publishes"
	LogMsgShutdownDone         = "Spin service shutdown complete"
	LogMsgShutdownForced       = "Spin service shutdown forced by context"
	LogMsgScheduleCacheMiss    = "Golden hour schedule cache miss"
)
