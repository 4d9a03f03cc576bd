package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Spin Repository
const (
	ErrMsgFailedToGetEvent       = "failed to get event"
	ErrMsgFailedToGetLocation    = "failed to get event location"
	ErrMsgFailedToGetParticipant = "failed to get participant"
	ErrMsgFailedToGetRewards     = "failed to get rewards"
	ErrMsgFailedToGetGoldenHours = "failed to get golden hours"
	ErrMsgFailedToUpdateCounter  = "failed to update spin counter"
	ErrMsgFailedToInsertSpin     = "failed to insert spin history"
	ErrMsgFailedToGetSpin        = "failed to get spin history"
	ErrMsgFailedToGetStatistics  = "failed to get spin statistics"
	ErrMsgFailedToFinalizeSpin   = "failed to finalize spin"
	ErrMsgFailedToExpireEvents   = "failed to deactivate expired events"
	ErrMsgFailedToSeed           = "failed to seed campaign data"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
	LogMsgVersionConflict  = "Spin counter version changed during commit"
)
