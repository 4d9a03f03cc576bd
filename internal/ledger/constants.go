package ledger

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgCommitFailed = "spin commit failed"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCommitConflict  = "Spin commit lost version race, retrying"
	LogMsgCommitExhausted = "Spin commit retries exhausted"
)
