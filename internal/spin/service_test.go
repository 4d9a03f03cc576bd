package spin

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/luckydraw/internal/clock"
	"github.com/osse101/luckydraw/internal/database/memory"
	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/ledger"
	"github.com/osse101/luckydraw/internal/reward"
)

var (
	campaignZone = clock.Zone(7)
	spinTime     = time.Date(2026, 7, 1, 10, 0, 0, 0, campaignZone)
)

type fixture struct {
	store       *memory.Store
	clock       *clock.FixedClock
	publisher   *recordingPublisher
	svc         Service
	event       domain.Event
	location    domain.EventLocation
	participant domain.Participant
}

func newFixture(t *testing.T, draws []float64, opts ...memory.Option) *fixture {
	t.Helper()

	store := memory.NewStore(opts...)
	evt := store.PutEvent(domain.Event{
		Code:           "SUMMER",
		Active:         true,
		StartDate:      spinTime.AddDate(0, 0, -1),
		EndDate:        spinTime.AddDate(0, 0, 30),
		TotalSpins:     100,
		RemainingSpins: 100,
	})
	loc := store.PutLocation(domain.EventLocation{
		EventID:             evt.ID,
		Province:            "Hanoi",
		DailySpinLimit:      50,
		RemainingSpinsToday: 50,
		LastResetDate:       ledger.CalendarDate(clock.Day(spinTime, campaignZone)),
		Active:              true,
	})
	p := store.PutParticipant(domain.Participant{
		EventID:        evt.ID,
		LocationID:     loc.ID,
		Name:           "Participant",
		Province:       "Hanoi",
		RemainingSpins: 5,
		Active:         true,
	})

	f := &fixture{
		store:       store,
		clock:       clock.NewFixedClock(spinTime),
		publisher:   newRecordingPublisher(),
		event:       evt,
		location:    loc,
		participant: p,
	}
	f.svc = f.newService(draws, Config{Zone: campaignZone})
	return f
}

func (f *fixture) newService(draws []float64, cfg Config) Service {
	selector := reward.NewSelector(reward.WithSource(&sequenceSource{draws: draws}))
	return NewService(f.store, f.publisher, selector, f.clock, cfg)
}

func (f *fixture) addReward(name string, probability float64, quantity int) domain.Reward {
	return f.store.PutReward(domain.Reward{
		EventID:           f.event.ID,
		Code:              name,
		Name:              name,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		Probability:       probability,
		Points:            10,
		Active:            true,
	})
}

func (f *fixture) request() domain.SpinRequest {
	return domain.SpinRequest{
		EventID:       f.event.ID,
		ParticipantID: f.participant.ID,
		LocationID:    f.location.ID,
	}
}

func TestSpin_Win(t *testing.T) {
	f := newFixture(t, []float64{0.1})
	r := f.addReward("voucher", 0.5, 3)
	ctx := context.Background()

	outcome, err := f.svc.Spin(ctx, f.request())
	require.NoError(t, err)

	assert.True(t, outcome.Won)
	require.NotNil(t, outcome.RewardID)
	assert.Equal(t, r.ID, *outcome.RewardID)
	assert.Equal(t, "voucher", outcome.RewardName)
	require.NotNil(t, outcome.PointsEarned)
	assert.Equal(t, 10, *outcome.PointsEarned)
	assert.Equal(t, domain.NeutralMultiplier, outcome.AppliedMultiplier)
	assert.False(t, outcome.IsGoldenHour)
	assert.Equal(t, 4, outcome.RemainingSpins)

	e, _ := f.store.GetEvent(ctx, f.event.ID)
	l, _ := f.store.GetLocation(ctx, f.location.ID)
	rewards, _ := f.store.GetRewardsByEvent(ctx, f.event.ID)
	assert.Equal(t, 99, e.RemainingSpins)
	assert.Equal(t, 49, l.RemainingSpinsToday)
	assert.Equal(t, 2, rewards[0].RemainingQuantity)

	history, err := f.store.GetSpin(ctx, outcome.SpinID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpinResultWin, history.Result)
	assert.True(t, history.SpinTime.Equal(spinTime))

	evt := f.publisher.next(t)
	assert.Equal(t, event.SpinCompleted, evt.Type)
	payload, err := event.DecodePayload[domain.SpinCompletedPayload](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, outcome.SpinID, payload.SpinID)
	assert.True(t, payload.Won)
}

func TestSpin_Loss(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		draw  float64
	}{
		{
			name:  "zero weight reward",
			setup: func(f *fixture) { f.addReward("voucher", 0, 3) },
			draw:  0.9,
		},
		{
			name:  "empty reward pool",
			setup: func(f *fixture) {},
			draw:  0.0,
		},
		{
			name: "reward outside province",
			setup: func(f *fixture) {
				f.store.PutReward(domain.Reward{
					EventID: f.event.ID, Name: "south-only", Quantity: 1, RemainingQuantity: 1,
					Probability: 1, Provinces: []string{"Da Nang"}, Active: true,
				})
			},
			draw: 0.0,
		},
		{
			name: "only depleted reward",
			setup: func(f *fixture) {
				f.store.PutReward(domain.Reward{
					EventID: f.event.ID, Name: "gone", Quantity: 1, RemainingQuantity: 0,
					Probability: 1, Active: true,
				})
			},
			draw: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []float64{tt.draw})
			tt.setup(f)
			ctx := context.Background()

			outcome, err := f.svc.Spin(ctx, f.request())
			require.NoError(t, err)

			assert.False(t, outcome.Won)
			assert.Nil(t, outcome.RewardID)
			assert.Nil(t, outcome.PointsEarned)
			assert.Equal(t, domain.NeutralMultiplier, outcome.AppliedMultiplier)
			assert.Equal(t, 4, outcome.RemainingSpins, "a loss still consumes a spin")

			e, _ := f.store.GetEvent(ctx, f.event.ID)
			assert.Equal(t, 99, e.RemainingSpins)

			history, err := f.store.GetSpin(ctx, outcome.SpinID)
			require.NoError(t, err)
			assert.Equal(t, domain.SpinResultLose, history.Result)
		})
	}
}

func TestSpin_GoldenHour(t *testing.T) {
	tests := []struct {
		name           string
		now            time.Time
		wantBoosted    bool
		wantMultiplier float64
	}{
		{"inside window", spinTime, true, 2.0},
		{"at window start", spinTime.Add(-time.Hour), true, 2.0},
		{"at window end is outside", spinTime.Add(time.Hour), false, domain.NeutralMultiplier},
		{"before window", spinTime.Add(-2 * time.Hour), false, domain.NeutralMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Weights 0.3 and 0.4 put a 0.5 draw on the pen (0.35 of 0.7).
			// Doubled, the phone covers 0.6 of 1.0 and takes it.
			f := newFixture(t, []float64{0.5})
			phone := f.addReward("phone", 0.3, 5)
			pen := f.addReward("pen", 0.4, 5)
			f.store.PutGoldenHour(domain.GoldenHour{
				EventID:    f.event.ID,
				RewardID:   &phone.ID,
				Name:       "lunch rush",
				StartTime:  spinTime.Add(-time.Hour),
				EndTime:    spinTime.Add(time.Hour),
				Multiplier: 2.0,
				Active:     true,
			})
			f.clock.Set(tt.now)

			outcome, err := f.svc.Spin(context.Background(), f.request())
			require.NoError(t, err)

			require.True(t, outcome.Won)
			require.NotNil(t, outcome.RewardID)
			if tt.wantBoosted {
				assert.Equal(t, phone.ID, *outcome.RewardID)
			} else {
				assert.Equal(t, pen.ID, *outcome.RewardID)
			}
			assert.Equal(t, tt.wantMultiplier, outcome.AppliedMultiplier)
			assert.Equal(t, tt.wantBoosted, outcome.IsGoldenHour)
		})
	}
}

func TestSpin_LossInsideGoldenHour(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"zero weight candidates", func(f *fixture) { f.addReward("voucher", 0, 3) }},
		{"empty reward pool", func(f *fixture) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []float64{0.5})
			tt.setup(f)
			f.store.PutGoldenHour(domain.GoldenHour{
				EventID:    f.event.ID,
				Name:       "happy hour",
				StartTime:  spinTime.Add(-time.Hour),
				EndTime:    spinTime.Add(time.Hour),
				Multiplier: 2.0,
				Active:     true,
			})
			ctx := context.Background()

			outcome, err := f.svc.Spin(ctx, f.request())
			require.NoError(t, err)

			assert.False(t, outcome.Won)
			assert.Equal(t, 2.0, outcome.AppliedMultiplier)
			assert.True(t, outcome.IsGoldenHour)

			history, err := f.store.GetSpin(ctx, outcome.SpinID)
			require.NoError(t, err)
			assert.Equal(t, domain.SpinResultLose, history.Result)
			assert.Equal(t, 2.0, history.Multiplier)
			assert.True(t, history.GoldenHour)
		})
	}
}

func TestSpin_Eligibility(t *testing.T) {
	inactive := domain.ParticipantStatusInactive
	no := false
	zero := 0

	tests := []struct {
		name    string
		mutate  func(f *fixture, req *domain.SpinRequest)
		wantErr error
	}{
		{
			name:    "event not found",
			mutate:  func(f *fixture, req *domain.SpinRequest) { req.EventID = 9999 },
			wantErr: domain.ErrEventNotFound,
		},
		{
			name:    "participant not found",
			mutate:  func(f *fixture, req *domain.SpinRequest) { req.ParticipantID = 9999 },
			wantErr: domain.ErrParticipantNotFound,
		},
		{
			name:    "location not found",
			mutate:  func(f *fixture, req *domain.SpinRequest) { req.LocationID = 9999 },
			wantErr: domain.ErrLocationNotFound,
		},
		{
			name: "event inactive",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.event.Active = false
				f.store.PutEvent(f.event)
			},
			wantErr: domain.ErrEventNotActive,
		},
		{
			name: "event not started",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.event.StartDate = spinTime.Add(time.Minute)
				f.store.PutEvent(f.event)
			},
			wantErr: domain.ErrEventNotStarted,
		},
		{
			name: "event expired",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.event.EndDate = spinTime.Add(-time.Minute)
				f.store.PutEvent(f.event)
			},
			wantErr: domain.ErrEventExpired,
		},
		{
			name: "event spins exhausted",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.event.RemainingSpins = 0
				f.store.PutEvent(f.event)
			},
			wantErr: domain.ErrEventQuotaExhausted,
		},
		{
			name: "location of another event",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				other := f.store.PutEvent(domain.Event{Active: true, StartDate: spinTime, EndDate: spinTime.AddDate(0, 0, 1), RemainingSpins: 1})
				loc := f.store.PutLocation(domain.EventLocation{EventID: other.ID, Active: true})
				req.LocationID = loc.ID
			},
			wantErr: domain.ErrLocationNotInEvent,
		},
		{
			name: "location inactive",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.location.Active = false
				f.store.PutLocation(f.location)
			},
			wantErr: domain.ErrLocationInactive,
		},
		{
			name: "participant inactive",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.participant.Active = false
				f.store.PutParticipant(f.participant)
			},
			wantErr: domain.ErrParticipantInactive,
		},
		{
			name:    "participant status supplied as inactive",
			mutate:  func(f *fixture, req *domain.SpinRequest) { req.ParticipantStatus = &inactive },
			wantErr: domain.ErrParticipantInactive,
		},
		{
			name: "participant of another event",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				p := f.store.PutParticipant(domain.Participant{EventID: f.event.ID + 1000, Active: true, RemainingSpins: 3})
				req.ParticipantID = p.ID
			},
			wantErr: domain.ErrParticipantNotInEvent,
		},
		{
			name:    "no active participation",
			mutate:  func(f *fixture, req *domain.SpinRequest) { req.HasActiveParticipation = &no },
			wantErr: domain.ErrParticipationNotActive,
		},
		{
			name: "participant spins exhausted",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.participant.RemainingSpins = 0
				f.store.PutParticipant(f.participant)
			},
			wantErr: domain.ErrParticipantQuotaExhausted,
		},
		{
			name:    "remaining spins supplied as zero",
			mutate:  func(f *fixture, req *domain.SpinRequest) { req.RemainingSpinsForParticipant = &zero },
			wantErr: domain.ErrParticipantQuotaExhausted,
		},
		{
			name: "location daily limit reached",
			mutate: func(f *fixture, req *domain.SpinRequest) {
				f.location.RemainingSpinsToday = 0
				f.store.PutLocation(f.location)
			},
			wantErr: domain.ErrLocationQuotaExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []float64{0.0})
			f.addReward("voucher", 1, 1)
			req := f.request()
			tt.mutate(f, &req)

			outcome, err := f.svc.Spin(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.store.Attempts(), "rejected spins never reach the ledger")
		})
	}
}

func TestSpin_ErrorCategories(t *testing.T) {
	f := newFixture(t, []float64{0.0})
	req := f.request()
	req.EventID = 9999

	_, err := f.svc.Spin(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "EVENT_NOT_FOUND", domain.ReasonCode(err))

	req = f.request()
	no := false
	req.HasActiveParticipation = &no
	_, err = f.svc.Spin(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotEligible)
}

func TestSpin_InvalidInput(t *testing.T) {
	f := newFixture(t, []float64{0.0})

	_, err := f.svc.Spin(context.Background(), domain.SpinRequest{EventID: f.event.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSpin_DailyLimitResetsNextCampaignDay(t *testing.T) {
	f := newFixture(t, []float64{0.99})
	f.location.DailySpinLimit = 1
	f.location.RemainingSpinsToday = 1
	f.store.PutLocation(f.location)
	ctx := context.Background()

	_, err := f.svc.Spin(ctx, f.request())
	require.NoError(t, err)

	_, err = f.svc.Spin(ctx, f.request())
	assert.ErrorIs(t, err, domain.ErrLocationQuotaExhausted)

	// 23:59 UTC+7 is still the same campaign day
	f.clock.Set(time.Date(2026, 7, 1, 23, 59, 0, 0, campaignZone))
	_, err = f.svc.Spin(ctx, f.request())
	assert.ErrorIs(t, err, domain.ErrLocationQuotaExhausted)

	// 17:00 UTC is midnight in the campaign zone
	f.clock.Set(time.Date(2026, 7, 1, 17, 0, 0, 0, time.UTC))
	outcome, err := f.svc.Spin(ctx, f.request())
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.RemainingSpins)

	l, _ := f.store.GetLocation(ctx, f.location.ID)
	assert.Equal(t, 0, l.RemainingSpinsToday)
}

func TestSpin_ConcurrencyExhausted(t *testing.T) {
	f := newFixture(t, []float64{0.0}, memory.WithConflicts(func(ledger.CommitRequest, int) bool { return true }))
	f.addReward("voucher", 1, 1)
	ctx := context.Background()

	_, err := f.svc.Spin(ctx, f.request())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyExhausted)
	assert.Equal(t, ledger.DefaultMaxAttempts, f.store.Attempts())

	p, _ := f.store.GetParticipant(ctx, f.participant.ID)
	assert.Equal(t, 5, p.RemainingSpins, "no counter moves when every attempt conflicts")
	spins, _ := f.store.ListSpins(ctx, f.participant.ID, 0)
	assert.Empty(t, spins)
}

func TestSpin_RetrySucceedsAfterConflicts(t *testing.T) {
	f := newFixture(t, []float64{0.0}, memory.WithConflicts(func(_ ledger.CommitRequest, n int) bool { return n <= 2 }))
	f.addReward("voucher", 1, 1)

	outcome, err := f.svc.Spin(context.Background(), f.request())
	require.NoError(t, err)
	assert.True(t, outcome.Won)
	assert.Equal(t, 3, f.store.Attempts())
}

func TestSpin_MaxCommitAttemptsConfigurable(t *testing.T) {
	f := newFixture(t, []float64{0.0}, memory.WithConflicts(func(ledger.CommitRequest, int) bool { return true }))
	svc := f.newService([]float64{0.0}, Config{Zone: campaignZone, MaxCommitAttempts: 5})

	_, err := svc.Spin(context.Background(), f.request())
	assert.ErrorIs(t, err, domain.ErrConcurrencyExhausted)
	assert.Equal(t, 5, f.store.Attempts())
}

// mockFixture wires a MockRepository that passes eligibility
func mockFixture(t *testing.T) (*MockRepository, Service, domain.SpinRequest) {
	t.Helper()

	evt := &domain.Event{ID: 1, Active: true, StartDate: spinTime.Add(-time.Hour), EndDate: spinTime.Add(time.Hour), TotalSpins: 10, RemainingSpins: 10}
	loc := &domain.EventLocation{ID: 2, EventID: 1, Active: true}
	p := &domain.Participant{ID: 3, EventID: 1, LocationID: 2, Active: true, RemainingSpins: 2}
	rewards := []domain.Reward{{ID: 4, EventID: 1, Name: "voucher", Quantity: 1, RemainingQuantity: 1, Probability: 1, Points: 5, Active: true}}

	repo := new(MockRepository)
	repo.On("GetEvent", mock.Anything, int64(1)).Return(evt, nil)
	repo.On("GetParticipant", mock.Anything, int64(3)).Return(p, nil)
	repo.On("GetLocation", mock.Anything, int64(2)).Return(loc, nil)
	repo.On("GetRewardsByEvent", mock.Anything, int64(1)).Return(rewards, nil)
	repo.On("GetActiveGoldenHours", mock.Anything, int64(1), mock.Anything).Return([]domain.GoldenHour{}, nil)

	selector := reward.NewSelector(reward.WithSource(&sequenceSource{draws: []float64{0.0}}))
	svc := NewService(repo, nil, selector, clock.NewFixedClock(spinTime), Config{Zone: campaignZone})
	return repo, svc, domain.SpinRequest{EventID: 1, ParticipantID: 3, LocationID: 2}
}

func withReward(req ledger.CommitRequest) bool { return req.RewardID != nil }
func withoutReward(req ledger.CommitRequest) bool {
	return req.RewardID == nil && req.Multiplier == domain.NeutralMultiplier && !req.GoldenHour
}

func TestSpin_RewardExhaustedAtCommitRecordsLoss(t *testing.T) {
	repo, svc, req := mockFixture(t)

	lossHistory := &domain.SpinHistory{ID: 77, Result: domain.SpinResultLose, Multiplier: 1, RemainingSpins: 1}
	repo.On("AttemptCommit", mock.Anything, mock.MatchedBy(withReward)).
		Return(ledger.NoCapacity(ledger.ReasonRewardExhausted), nil).Once()
	repo.On("AttemptCommit", mock.Anything, mock.MatchedBy(withoutReward)).
		Return(ledger.Committed(ledger.Snapshot{}, lossHistory), nil).Once()

	outcome, err := svc.Spin(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, outcome.Won)
	assert.Equal(t, int64(77), outcome.SpinID)
	assert.Equal(t, 1, outcome.RemainingSpins)
	repo.AssertNumberOfCalls(t, "AttemptCommit", 2)
}

func TestSpin_CounterGateAtCommit(t *testing.T) {
	tests := []struct {
		reason  ledger.Reason
		wantErr error
	}{
		{ledger.ReasonEventExhausted, domain.ErrEventQuotaExhausted},
		{ledger.ReasonEventInactive, domain.ErrEventNotActive},
		{ledger.ReasonLocationExhausted, domain.ErrLocationQuotaExhausted},
		{ledger.ReasonLocationInactive, domain.ErrLocationInactive},
		{ledger.ReasonParticipantExhausted, domain.ErrParticipantQuotaExhausted},
		{ledger.ReasonParticipantInactive, domain.ErrParticipantInactive},
		{ledger.Reason("LEDGER_CLOSED"), domain.ErrCommitRejected},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			repo, svc, req := mockFixture(t)
			repo.On("AttemptCommit", mock.Anything, mock.Anything).Return(ledger.NoCapacity(tt.reason), nil).Once()

			_, err := svc.Spin(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrNotEligible)
			repo.AssertNumberOfCalls(t, "AttemptCommit", 1)
		})
	}
}

func TestSpin_RepositoryErrors(t *testing.T) {
	dbErr := errors.New("connection reset")

	t.Run("event lookup", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetEvent", mock.Anything, int64(1)).Return(nil, dbErr)
		svc := NewService(repo, nil, nil, clock.NewFixedClock(spinTime), Config{})

		_, err := svc.Spin(context.Background(), domain.SpinRequest{EventID: 1, ParticipantID: 3, LocationID: 2})
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), ErrContextFailedToGetEvent)
	})

	t.Run("commit", func(t *testing.T) {
		repo, svc, req := mockFixture(t)
		repo.On("AttemptCommit", mock.Anything, mock.Anything).Return(ledger.CommitResult{}, dbErr)

		_, err := svc.Spin(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), ErrContextFailedToCommitSpin)
		repo.AssertNumberOfCalls(t, "AttemptCommit", 1)
	})
}

func TestSpin_IgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t, []float64{0.0})
	f.addReward("voucher", 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := f.svc.Spin(ctx, f.request())
	require.NoError(t, err)
	assert.True(t, outcome.Won)
}

// countingStore counts schedule loads through to the memory store
type countingStore struct {
	*memory.Store
	scheduleLoads atomic.Int32
}

func (c *countingStore) GetGoldenHoursByEvent(ctx context.Context, eventID int64) ([]domain.GoldenHour, error) {
	c.scheduleLoads.Add(1)
	return c.Store.GetGoldenHoursByEvent(ctx, eventID)
}

func TestSpin_ScheduleCache(t *testing.T) {
	f := newFixture(t, []float64{0.5})
	phone := f.addReward("phone", 0.3, 10)
	pen := f.addReward("pen", 0.4, 10)
	// Opens after the first spin; the cached schedule must still contain it
	f.store.PutGoldenHour(domain.GoldenHour{
		EventID:    f.event.ID,
		RewardID:   &phone.ID,
		StartTime:  spinTime.Add(30 * time.Minute),
		EndTime:    spinTime.Add(90 * time.Minute),
		Multiplier: 3,
		Active:     true,
	})

	store := &countingStore{Store: f.store}
	selector := reward.NewSelector(reward.WithSource(&sequenceSource{draws: []float64{0.5}}))
	svc := NewService(store, nil, selector, f.clock, Config{Zone: campaignZone, ScheduleCacheSize: 8, ScheduleCacheTTL: time.Hour})
	ctx := context.Background()

	first, err := svc.Spin(ctx, f.request())
	require.NoError(t, err)
	require.NotNil(t, first.RewardID)
	assert.Equal(t, pen.ID, *first.RewardID)
	assert.False(t, first.IsGoldenHour)

	f.clock.Set(spinTime.Add(time.Hour))
	second, err := svc.Spin(ctx, f.request())
	require.NoError(t, err)
	require.NotNil(t, second.RewardID)
	assert.Equal(t, phone.ID, *second.RewardID)
	assert.Equal(t, 3.0, second.AppliedMultiplier)

	assert.Equal(t, int32(1), store.scheduleLoads.Load())
}

func TestFinalizeSpin_Idempotent(t *testing.T) {
	f := newFixture(t, []float64{0.0})
	f.addReward("voucher", 1, 1)
	ctx := context.Background()

	outcome, err := f.svc.Spin(ctx, f.request())
	require.NoError(t, err)
	f.publisher.next(t)

	f.clock.Advance(time.Minute)
	first, err := f.svc.FinalizeSpin(ctx, outcome.SpinID)
	require.NoError(t, err)
	require.True(t, first.Finalized)
	require.NotNil(t, first.FinalizedAt)
	assert.Equal(t, event.SpinFinalized, f.publisher.next(t).Type)

	f.clock.Advance(time.Minute)
	second, err := f.svc.FinalizeSpin(ctx, outcome.SpinID)
	require.NoError(t, err)
	assert.True(t, second.Finalized)
	assert.True(t, first.FinalizedAt.Equal(*second.FinalizedAt), "finalize time is not overwritten")

	require.NoError(t, f.svc.Shutdown(ctx))
	assert.Empty(t, f.publisher.ch, "second finalize publishes nothing")
}

func TestFinalizeSpin_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.FinalizeSpin(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLatestSpinAndHistory(t *testing.T) {
	f := newFixture(t, []float64{0.0, 0.99, 0.0})
	f.addReward("voucher", 0.5, 10)
	ctx := context.Background()

	_, err := f.svc.LatestSpin(ctx, f.participant.ID)
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)

	var ids []int64
	for i := 0; i < 3; i++ {
		outcome, err := f.svc.Spin(ctx, f.request())
		require.NoError(t, err)
		ids = append(ids, outcome.SpinID)
	}

	latest, err := f.svc.LatestSpin(ctx, f.participant.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)

	history, err := f.svc.History(ctx, f.participant.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ids[2], history[0].ID)
	assert.Equal(t, ids[1], history[1].ID)
}

func TestHistory_LimitBounds(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"default", 0, DefaultHistoryLimit},
		{"negative", -3, DefaultHistoryLimit},
		{"within bounds", 5, 5},
		{"capped", 500, MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("ListSpins", mock.Anything, int64(3), tt.want).Return([]domain.SpinHistory{}, nil).Once()
			svc := NewService(repo, nil, nil, nil, Config{})

			_, err := svc.History(context.Background(), 3, tt.requested)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestStatistics(t *testing.T) {
	f := newFixture(t, []float64{0.0, 0.99, 0.0, 0.99})
	f.addReward("voucher", 0.5, 10)
	ctx := context.Background()

	var firstWin int64
	for i := 0; i < 4; i++ {
		outcome, err := f.svc.Spin(ctx, f.request())
		require.NoError(t, err)
		if outcome.Won && firstWin == 0 {
			firstWin = outcome.SpinID
		}
	}
	_, err := f.svc.FinalizeSpin(ctx, firstWin)
	require.NoError(t, err)

	stats, err := f.svc.Statistics(ctx, f.participant.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalSpins)
	assert.Equal(t, 2, stats.WinningSpins)
	assert.InDelta(t, 0.5, stats.WinRate, 1e-9)
	assert.Equal(t, 20, stats.TotalPoints)
	assert.Equal(t, 1, stats.RemainingSpins)
	assert.Equal(t, 1, stats.UnfinalizedWins)

	_, err = f.svc.Statistics(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestRemainingSpinsToday(t *testing.T) {
	f := newFixture(t, []float64{0.99})
	ctx := context.Background()

	remaining, err := f.svc.RemainingSpinsToday(ctx, f.location.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, remaining)

	_, err = f.svc.Spin(ctx, f.request())
	require.NoError(t, err)
	remaining, err = f.svc.RemainingSpinsToday(ctx, f.location.ID)
	require.NoError(t, err)
	assert.Equal(t, 49, remaining)

	// Stale reset date reports the full allowance for the new day
	f.clock.Set(spinTime.AddDate(0, 0, 1))
	remaining, err = f.svc.RemainingSpinsToday(ctx, f.location.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, remaining)

	unlimited := f.store.PutLocation(domain.EventLocation{EventID: f.event.ID, Active: true})
	remaining, err = f.svc.RemainingSpinsToday(ctx, unlimited.ID)
	require.NoError(t, err)
	assert.Equal(t, UnlimitedDaily, remaining)

	_, err = f.svc.RemainingSpinsToday(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestShutdown_ContextExpired(t *testing.T) {
	blocking := make(chan struct{})
	pub := publisherFunc(func(context.Context, event.Event) { <-blocking })
	defer close(blocking)

	f := newFixture(t, []float64{0.0})
	svc := NewService(f.store, pub, nil, f.clock, Config{Zone: campaignZone})

	_, err := svc.Spin(context.Background(), f.request())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Shutdown(ctx), context.DeadlineExceeded)
}

type publisherFunc func(ctx context.Context, evt event.Event)

func (f publisherFunc) PublishWithRetry(ctx context.Context, evt event.Event) { f(ctx, evt) }
