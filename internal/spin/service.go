package spin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/luckydraw/internal/clock"
	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/ledger"
	"github.com/osse101/luckydraw/internal/logger"
	"github.com/osse101/luckydraw/internal/metrics"
	"github.com/osse101/luckydraw/internal/repository"
	"github.com/osse101/luckydraw/internal/reward"
)

// UnlimitedDaily is reported by RemainingSpinsToday for locations without a daily limit
const UnlimitedDaily = -1

// Service defines the interface for spin operations
type Service interface {
	Spin(ctx context.Context, req domain.SpinRequest) (*domain.SpinOutcome, error)
	FinalizeSpin(ctx context.Context, spinID int64) (*domain.SpinHistory, error)
	LatestSpin(ctx context.Context, participantID int64) (*domain.SpinHistory, error)
	History(ctx context.Context, participantID int64, limit int) ([]domain.SpinHistory, error)
	Statistics(ctx context.Context, participantID int64) (*domain.SpinStatistics, error)
	RemainingSpinsToday(ctx context.Context, locationID int64) (int, error)
	Shutdown(ctx context.Context) error
}

// Config tunes the allocator. Zero values fall back to defaults.
type Config struct {
	MaxCommitAttempts int
	Zone              *time.Location
	// ScheduleCacheSize enables the golden hour schedule cache when positive
	ScheduleCacheSize int
	ScheduleCacheTTL  time.Duration
}

type service struct {
	repo        repository.Spin
	publisher   event.Publisher
	selector    *reward.Selector
	clock       clock.Clock
	zone        *time.Location
	maxAttempts int
	schedules   *scheduleCache
	wg          sync.WaitGroup // Tracks async publishes for graceful shutdown
}

// NewService creates a new spin service. publisher may be nil.
func NewService(repo repository.Spin, publisher event.Publisher, selector *reward.Selector, clk clock.Clock, cfg Config) Service {
	s := &service{
		repo:        repo,
		publisher:   publisher,
		selector:    selector,
		clock:       clk,
		zone:        cfg.Zone,
		maxAttempts: cfg.MaxCommitAttempts,
	}
	if s.selector == nil {
		s.selector = reward.NewSelector()
	}
	if s.clock == nil {
		s.clock = clock.SystemClock{}
	}
	if s.zone == nil {
		s.zone = clock.Zone(clock.DefaultOffsetHours)
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = ledger.DefaultMaxAttempts
	}
	if cfg.ScheduleCacheSize > 0 {
		s.schedules = newScheduleCache(cfg.ScheduleCacheSize, cfg.ScheduleCacheTTL)
	}
	return s
}

// eligibility carries the state read while checking a request
type eligibility struct {
	event       domain.Event
	location    domain.EventLocation
	participant domain.Participant
}

// province used for reward filtering, preferring where the spin happens
func (e eligibility) province() string {
	if e.location.Province != "" {
		return e.location.Province
	}
	return e.participant.Province
}

// Spin runs one spin through eligibility, selection, commit and recording.
// The request context's cancellation is ignored once the spin starts so a
// caller timeout cannot interrupt a commit.
func (s *service) Spin(ctx context.Context, req domain.SpinRequest) (*domain.SpinOutcome, error) {
	start := time.Now()
	log := logger.FromContext(ctx)
	log.Info(LogMsgSpinRequested,
		"event_id", req.EventID,
		"participant_id", req.ParticipantID,
		"location_id", req.LocationID)

	outcome, err := s.spin(context.WithoutCancel(ctx), req)

	metrics.SpinDuration.Observe(time.Since(start).Seconds())
	metrics.SpinRequests.WithLabelValues(outcomeLabel(outcome, err)).Inc()

	if err != nil {
		if errors.Is(err, domain.ErrNotEligible) || errors.Is(err, domain.ErrNotFound) {
			log.Info(LogMsgSpinRejected, "reason", domain.ReasonCode(err), "error", err)
		}
		return nil, err
	}
	return outcome, nil
}

func (s *service) spin(ctx context.Context, req domain.SpinRequest) (*domain.SpinOutcome, error) {
	log := logger.FromContext(ctx)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	day := clock.Day(now, s.zone)
	state := domain.SpinStateRequested

	elig, err := s.checkEligibility(ctx, req, now, day)
	if err != nil {
		return nil, err
	}
	state = advance(ctx, state, domain.SpinStateEligibilityChecked)

	selection, err := s.selectCandidate(ctx, elig, now)
	if err != nil {
		return nil, err
	}
	state = advance(ctx, state, domain.SpinStateCandidateSelected)

	result, err := s.commit(ctx, elig, selection, now, day)
	if err != nil {
		return nil, err
	}
	state = advance(ctx, state, domain.SpinStateCommitted)

	// The history row is written in the commit transaction
	history := *result.History
	advance(ctx, state, domain.SpinStateRecorded)

	log.Info(LogMsgSpinRecorded,
		"spin_id", history.ID,
		"won", history.Won,
		"reward_id", history.RewardID,
		"multiplier", history.Multiplier,
		"remaining_spins", history.RemainingSpins)

	s.publishAsync(ctx, event.NewSpinCompletedEvent(history))

	return buildOutcome(result), nil
}

func validateRequest(req domain.SpinRequest) error {
	if req.EventID <= 0 || req.ParticipantID <= 0 || req.LocationID <= 0 {
		return fmt.Errorf("%w: event, participant and location ids must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// checkEligibility reads the event, participant and location and applies the
// eligibility rules in a fixed order. Pre-supplied request facts win over
// stored state.
func (s *service) checkEligibility(ctx context.Context, req domain.SpinRequest, now, day time.Time) (eligibility, error) {
	var elig eligibility

	evt, err := s.repo.GetEvent(ctx, req.EventID)
	if err != nil {
		return elig, fmt.Errorf("%s: %w", ErrContextFailedToGetEvent, err)
	}
	participant, err := s.repo.GetParticipant(ctx, req.ParticipantID)
	if err != nil {
		return elig, fmt.Errorf("%s: %w", ErrContextFailedToGetParticipant, err)
	}
	location, err := s.repo.GetLocation(ctx, req.LocationID)
	if err != nil {
		return elig, fmt.Errorf("%s: %w", ErrContextFailedToGetLocation, err)
	}
	elig = eligibility{event: *evt, location: *location, participant: *participant}

	if err := clock.EventStatus(elig.event, now); err != nil {
		return elig, err
	}

	if location.EventID != evt.ID {
		return elig, domain.ErrLocationNotInEvent
	}
	if !location.Active {
		return elig, domain.ErrLocationInactive
	}

	active := participant.Active
	if req.ParticipantStatus != nil {
		active = *req.ParticipantStatus == domain.ParticipantStatusActive
	}
	if !active {
		return elig, domain.ErrParticipantInactive
	}
	if participant.EventID != evt.ID {
		return elig, domain.ErrParticipantNotInEvent
	}
	if req.HasActiveParticipation != nil && !*req.HasActiveParticipation {
		return elig, domain.ErrParticipationNotActive
	}

	remaining := participant.RemainingSpins
	if req.RemainingSpinsForParticipant != nil {
		remaining = *req.RemainingSpinsForParticipant
	}
	if remaining <= 0 {
		return elig, domain.ErrParticipantQuotaExhausted
	}

	if location.HasDailyLimit() && ledger.RemainingToday(*location, day) <= 0 {
		return elig, domain.ErrLocationQuotaExhausted
	}

	return elig, nil
}

// selectCandidate draws a reward. An empty pool yields a losing selection
// that still reports any event-wide golden hour.
func (s *service) selectCandidate(ctx context.Context, elig eligibility, now time.Time) (reward.Selection, error) {
	rewards, err := s.repo.GetRewardsByEvent(ctx, elig.event.ID)
	if err != nil {
		return reward.Selection{}, fmt.Errorf("%s: %w", ErrContextFailedToGetRewards, err)
	}

	hours, err := s.goldenHours(ctx, elig.event.ID, now)
	if err != nil {
		return reward.Selection{}, err
	}

	candidates := reward.Candidates(rewards, elig.event.ID, elig.province())
	if len(candidates) == 0 {
		m := clock.EventMultiplier(hours, now)
		return reward.Selection{Multiplier: m, GoldenHour: m > domain.NeutralMultiplier}, nil
	}

	selection := s.selector.Select(candidates, clock.Multipliers(hours, candidates, now))

	log := logger.FromContext(ctx)
	if selection.Won() {
		log.Debug(LogMsgCandidateSelected,
			"reward_id", selection.Reward.ID,
			"multiplier", selection.Multiplier,
			"golden_hour", selection.GoldenHour)
	} else {
		log.Debug(LogMsgCandidateSelected,
			"reward_id", nil,
			"candidates", len(candidates),
			"multiplier", selection.Multiplier)
	}
	return selection, nil
}

func (s *service) goldenHours(ctx context.Context, eventID int64, now time.Time) ([]domain.GoldenHour, error) {
	if s.schedules == nil {
		hours, err := s.repo.GetActiveGoldenHours(ctx, eventID, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetGoldenHours, err)
		}
		return hours, nil
	}

	if hours, ok := s.schedules.Get(eventID); ok {
		return hours, nil
	}

	logger.FromContext(ctx).Debug(LogMsgScheduleCacheMiss, "event_id", eventID)
	hours, err := s.repo.GetGoldenHoursByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetGoldenHours, err)
	}
	s.schedules.Set(eventID, hours)
	return hours, nil
}

// commit runs the ledger commit under the retry bound. When the chosen reward
// ran out in the meantime the same attempt re-commits the spin as a loss.
func (s *service) commit(ctx context.Context, elig eligibility, selection reward.Selection, now, day time.Time) (ledger.CommitResult, error) {
	log := logger.FromContext(ctx)

	req := ledger.CommitRequest{
		EventID:       elig.event.ID,
		LocationID:    elig.location.ID,
		ParticipantID: elig.participant.ID,
		Day:           day,
		SpinTime:      now,
		Multiplier:    selection.Multiplier,
		GoldenHour:    selection.GoldenHour,
	}
	if selection.Won() {
		id := selection.Reward.ID
		req.RewardID = &id
	}

	attempt := func(ctx context.Context, n int) (ledger.CommitResult, error) {
		res, err := s.repo.AttemptCommit(ctx, req)
		if err != nil {
			return res, err
		}

		if res.Status == ledger.StatusNoCapacity && res.Reason.RewardUnavailable() && req.RewardID != nil {
			log.Info(LogMsgRewardUnavailable, "reward_id", *req.RewardID, "reason", res.Reason, "attempt", n)
			req.RewardID = nil
			res, err = s.repo.AttemptCommit(ctx, req)
			if err != nil {
				return res, err
			}
		}

		if res.Status == ledger.StatusConflict {
			metrics.SpinCommitConflicts.Inc()
		}
		return res, nil
	}

	result, err := ledger.CommitWithRetry(ctx, s.maxAttempts, attempt)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyExhausted) {
			return result, err
		}
		return result, fmt.Errorf("%s: %w", ErrContextFailedToCommitSpin, err)
	}

	if result.Status == ledger.StatusNoCapacity {
		return result, result.Reason.Err()
	}

	if result.History == nil {
		return result, fmt.Errorf("%s: store returned no history row", ErrContextFailedToCommitSpin)
	}
	return result, nil
}

func buildOutcome(result ledger.CommitResult) *domain.SpinOutcome {
	h := result.History
	outcome := &domain.SpinOutcome{
		SpinID:            h.ID,
		Won:               h.Won,
		RewardID:          h.RewardID,
		PointsEarned:      h.PointsEarned,
		AppliedMultiplier: h.Multiplier,
		IsGoldenHour:      h.GoldenHour,
		RemainingSpins:    h.RemainingSpins,
	}
	if result.Snapshot.Reward != nil {
		outcome.RewardName = result.Snapshot.Reward.Name
	}
	return outcome
}

func advance(ctx context.Context, from, to domain.SpinState) domain.SpinState {
	logger.FromContext(ctx).Debug("spin state", "from", from, "to", to)
	return to
}

func outcomeLabel(outcome *domain.SpinOutcome, err error) string {
	switch {
	case err == nil && outcome != nil && outcome.Won:
		return metrics.OutcomeWin
	case err == nil:
		return metrics.OutcomeLose
	case errors.Is(err, domain.ErrNotEligible):
		return metrics.OutcomeNotEligible
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrConcurrencyExhausted):
		return metrics.OutcomeContention
	default:
		return metrics.OutcomeError
	}
}

// publishAsync hands an event to the publisher without blocking the caller
func (s *service) publishAsync(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.publisher.PublishWithRetry(ctx, evt)
	}()
}

// Shutdown waits for in-flight publishes
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownForced)
		return ctx.Err()
	}
}
