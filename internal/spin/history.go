package spin

import (
	"context"
	"fmt"

	"github.com/osse101/luckydraw/internal/clock"
	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/logger"
)

// FinalizeSpin marks a spin as claimed. Finalizing twice is a no-op that
// returns the already finalized row.
func (s *service) FinalizeSpin(ctx context.Context, spinID int64) (*domain.SpinHistory, error) {
	log := logger.FromContext(ctx)
	at := s.clock.Now()

	changed, err := s.repo.FinalizeSpin(ctx, spinID, at)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToFinalizeSpin, err)
	}

	spin, err := s.repo.GetSpin(ctx, spinID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetSpin, err)
	}

	if !changed {
		log.Info(LogMsgSpinAlreadyFinalized, "spin_id", spinID)
		return spin, nil
	}

	log.Info(LogMsgSpinFinalized, "spin_id", spinID, "won", spin.Won)
	s.publishAsync(context.WithoutCancel(ctx), event.NewSpinFinalizedEvent(spinID, at))
	return spin, nil
}

func (s *service) LatestSpin(ctx context.Context, participantID int64) (*domain.SpinHistory, error) {
	spin, err := s.repo.GetLatestSpin(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetSpin, err)
	}
	return spin, nil
}

// History returns the participant's most recent spins, newest first
func (s *service) History(ctx context.Context, participantID int64, limit int) ([]domain.SpinHistory, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	spins, err := s.repo.ListSpins(ctx, participantID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListSpins, err)
	}
	return spins, nil
}

func (s *service) Statistics(ctx context.Context, participantID int64) (*domain.SpinStatistics, error) {
	stats, err := s.repo.GetSpinStatistics(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetStatistics, err)
	}
	return stats, nil
}

// RemainingSpinsToday reports what a location has left for the current
// campaign day, or UnlimitedDaily when it has no daily limit.
func (s *service) RemainingSpinsToday(ctx context.Context, locationID int64) (int, error) {
	location, err := s.repo.GetLocation(ctx, locationID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToGetLocation, err)
	}
	if !location.HasDailyLimit() {
		return UnlimitedDaily, nil
	}

	day := clock.Day(s.clock.Now(), s.zone)
	remaining, err := s.repo.GetRemainingSpinsToday(ctx, locationID, day)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToGetRemainingDay, err)
	}
	return remaining, nil
}
