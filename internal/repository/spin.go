package repository

import (
	"context"
	"time"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/ledger"
)

// Spin defines the data access required by the spin service.
// Get* methods return domain.Err*NotFound sentinels for missing rows.
type Spin interface {
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	GetLocation(ctx context.Context, id int64) (*domain.EventLocation, error)
	GetParticipant(ctx context.Context, id int64) (*domain.Participant, error)
	GetRewardsByEvent(ctx context.Context, eventID int64) ([]domain.Reward, error)
	GetActiveGoldenHours(ctx context.Context, eventID int64, now time.Time) ([]domain.GoldenHour, error)
	// GetGoldenHoursByEvent returns every enabled window of the event regardless of time
	GetGoldenHoursByEvent(ctx context.Context, eventID int64) ([]domain.GoldenHour, error)

	// AttemptCommit re-reads every counter, verifies preconditions and
	// decrements them under version checks in a single transaction, appending
	// the spin history row on success.
	AttemptCommit(ctx context.Context, req ledger.CommitRequest) (ledger.CommitResult, error)

	// GetRemainingSpinsToday returns what the location has left on day,
	// treating a stale reset date as a full daily allowance.
	GetRemainingSpinsToday(ctx context.Context, locationID int64, day time.Time) (int, error)

	GetSpin(ctx context.Context, id int64) (*domain.SpinHistory, error)
	GetLatestSpin(ctx context.Context, participantID int64) (*domain.SpinHistory, error)
	ListSpins(ctx context.Context, participantID int64, limit int) ([]domain.SpinHistory, error)
	GetSpinStatistics(ctx context.Context, participantID int64) (*domain.SpinStatistics, error)

	// FinalizeSpin marks a spin finalized. Returns false when it already was.
	FinalizeSpin(ctx context.Context, id int64, at time.Time) (bool, error)
}

// EventAdmin covers administrative status transitions run by background workers
type EventAdmin interface {
	// DeactivateExpiredEvents flips Active off for events whose end date is before now
	DeactivateExpiredEvents(ctx context.Context, now time.Time) (int64, error)
}
