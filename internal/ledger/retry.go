package ledger

import (
	"context"
	"fmt"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/logger"
)

// AttemptFunc runs one read-verify-write attempt. n starts at 1.
type AttemptFunc func(ctx context.Context, n int) (CommitResult, error)

// CommitWithRetry calls attempt until it returns something other than a
// conflict, at most maxAttempts times, with no backoff between attempts.
// Errors and StatusNoCapacity are returned immediately. When every attempt
// conflicts it returns domain.ErrConcurrencyExhausted.
func CommitWithRetry(ctx context.Context, maxAttempts int, attempt AttemptFunc) (CommitResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	log := logger.FromContext(ctx)

	for n := 1; n <= maxAttempts; n++ {
		res, err := attempt(ctx, n)
		if err != nil {
			return CommitResult{}, err
		}
		if res.Status != StatusConflict {
			return res, nil
		}
		log.Debug(LogMsgCommitConflict, "attempt", n, "max_attempts", maxAttempts)
	}

	log.Warn(LogMsgCommitExhausted, "max_attempts", maxAttempts)
	return CommitResult{}, fmt.Errorf("%s after %d attempts: %w", ErrMsgCommitFailed, maxAttempts, domain.ErrConcurrencyExhausted)
}
