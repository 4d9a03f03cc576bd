package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Parameter validation error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidIDParam    = "Invalid %s"
	ErrMsgInvalidLimit      = "Invalid limit parameter"

	// Spin operation error messages
	ErrMsgSpinFailed              = "Failed to spin"
	ErrMsgFinalizeSpinFailed      = "Failed to finalize spin"
	ErrMsgGetSpinFailed           = "Failed to get latest spin"
	ErrMsgGetHistoryFailed        = "Failed to get spin history"
	ErrMsgGetStatisticsFailed     = "Failed to get spin statistics"
	ErrMsgGetRemainingTodayFailed = "Failed to get remaining spins for today"
)

// Response reason codes that are not tied to a domain sentinel
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "INTERNAL"
)

// RetryAfterSeconds is sent with 503 responses when a spin lost every commit race
const RetryAfterSeconds = "1"

// Log messages
const (
	LogMsgSpinCompleted    = "Spin request completed"
	LogMsgRequestRejected  = "Request rejected"
	LogMsgRequestFailed    = "Request failed"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgDecodeFailedFmt  = "Failed to decode %s request"
	LogMsgDecodedFmt       = "%s request decoded"
	LogMsgMissingParamFmt  = "Missing %s query parameter"
	LogMsgOddRequestFields = "LogRequestFields called with odd number of arguments"
)
