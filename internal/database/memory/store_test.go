package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/ledger"
	"github.com/osse101/luckydraw/internal/repository"
)

var (
	_ repository.Spin       = (*Store)(nil)
	_ repository.EventAdmin = (*Store)(nil)
)

var testDay = time.Date(2026, 7, 1, 0, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))

type fixture struct {
	store       *Store
	event       domain.Event
	location    domain.EventLocation
	participant domain.Participant
	reward      domain.Reward
}

func newFixture(opts ...Option) fixture {
	s := NewStore(opts...)
	e := s.PutEvent(domain.Event{Active: true, TotalSpins: 10, RemainingSpins: 10, EndDate: testDay.AddDate(0, 0, 10)})
	l := s.PutLocation(domain.EventLocation{EventID: e.ID, Active: true, DailySpinLimit: 3, RemainingSpinsToday: 3, LastResetDate: ledger.CalendarDate(testDay)})
	p := s.PutParticipant(domain.Participant{EventID: e.ID, LocationID: l.ID, Active: true, RemainingSpins: 5})
	r := s.PutReward(domain.Reward{EventID: e.ID, Active: true, Quantity: 1, RemainingQuantity: 1, Probability: 1, Points: 20})
	return fixture{store: s, event: e, location: l, participant: p, reward: r}
}

func (f fixture) request(rewardID *int64) ledger.CommitRequest {
	return ledger.CommitRequest{
		EventID:       f.event.ID,
		LocationID:    f.location.ID,
		ParticipantID: f.participant.ID,
		RewardID:      rewardID,
		Day:           testDay,
		SpinTime:      testDay.Add(time.Hour),
	}
}

func TestAttemptCommit_Win(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.store.AttemptCommit(ctx, f.request(&f.reward.ID))
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCommitted, res.Status)
	require.NotNil(t, res.History)
	assert.True(t, res.History.Won)
	assert.Equal(t, 4, res.History.RemainingSpins)

	e, _ := f.store.GetEvent(ctx, f.event.ID)
	l, _ := f.store.GetLocation(ctx, f.location.ID)
	p, _ := f.store.GetParticipant(ctx, f.participant.ID)
	rewards, _ := f.store.GetRewardsByEvent(ctx, f.event.ID)

	assert.Equal(t, 9, e.RemainingSpins)
	assert.Equal(t, 2, l.RemainingSpinsToday)
	assert.Equal(t, 4, p.RemainingSpins)
	assert.Equal(t, 0, rewards[0].RemainingQuantity)
	assert.Equal(t, int64(1), rewards[0].Version)
}

func TestAttemptCommit_RewardExhausted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.store.AttemptCommit(ctx, f.request(&f.reward.ID))
	require.NoError(t, err)

	res, err := f.store.AttemptCommit(ctx, f.request(&f.reward.ID))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusNoCapacity, res.Status)
	assert.Equal(t, ledger.ReasonRewardExhausted, res.Reason)

	// Nothing else moved on the failed attempt
	p, _ := f.store.GetParticipant(ctx, f.participant.ID)
	assert.Equal(t, 4, p.RemainingSpins)
}

func TestAttemptCommit_LocationDailyCapAndReset(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := f.store.AttemptCommit(ctx, f.request(nil))
		require.NoError(t, err)
		require.Equal(t, ledger.StatusCommitted, res.Status)
	}

	res, err := f.store.AttemptCommit(ctx, f.request(nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.ReasonLocationExhausted, res.Reason)

	remaining, err := f.store.GetRemainingSpinsToday(ctx, f.location.ID, testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	tomorrow := testDay.AddDate(0, 0, 1)
	remaining, err = f.store.GetRemainingSpinsToday(ctx, f.location.ID, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)

	req := f.request(nil)
	req.Day = tomorrow
	res, err = f.store.AttemptCommit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCommitted, res.Status)
	assert.Equal(t, 2, res.Snapshot.Location.RemainingSpinsToday)
}

func TestAttemptCommit_MissingEntities(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := f.request(nil)
	req.ParticipantID = 999
	_, err := f.store.AttemptCommit(ctx, req)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	missing := int64(999)
	_, err = f.store.AttemptCommit(ctx, f.request(&missing))
	assert.ErrorIs(t, err, domain.ErrRewardNotFound)
}

func TestAttemptCommit_InjectedConflict(t *testing.T) {
	f := newFixture(WithConflicts(func(_ ledger.CommitRequest, n int) bool { return n == 1 }))
	ctx := context.Background()

	res, err := f.store.AttemptCommit(ctx, f.request(nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusConflict, res.Status)

	res, err = f.store.AttemptCommit(ctx, f.request(nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCommitted, res.Status)
	assert.Equal(t, 2, f.store.Attempts())
}

func TestHistoryReads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	win, err := f.store.AttemptCommit(ctx, f.request(&f.reward.ID))
	require.NoError(t, err)
	_, err = f.store.AttemptCommit(ctx, f.request(nil))
	require.NoError(t, err)

	latest, err := f.store.GetLatestSpin(ctx, f.participant.ID)
	require.NoError(t, err)
	assert.False(t, latest.Won)

	list, err := f.store.ListSpins(ctx, f.participant.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, latest.ID, list[0].ID)

	stats, err := f.store.GetSpinStatistics(ctx, f.participant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSpins)
	assert.Equal(t, 1, stats.WinningSpins)
	assert.Equal(t, 0.5, stats.WinRate)
	assert.Equal(t, 20, stats.TotalPoints)
	assert.Equal(t, 1, stats.UnfinalizedWins)
	assert.Equal(t, 3, stats.RemainingSpins)

	at := testDay.Add(2 * time.Hour)
	changed, err := f.store.FinalizeSpin(ctx, win.History.ID, at)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.store.FinalizeSpin(ctx, win.History.ID, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := f.store.GetSpin(ctx, win.History.ID)
	require.NoError(t, err)
	assert.True(t, got.Finalized)
	assert.Equal(t, at, *got.FinalizedAt)

	_, err = f.store.GetSpin(ctx, 12345)
	assert.ErrorIs(t, err, domain.ErrSpinNotFound)
	_, err = f.store.GetLatestSpin(ctx, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetActiveGoldenHours(t *testing.T) {
	f := newFixture()
	start := testDay.Add(time.Hour)
	f.store.PutGoldenHour(domain.GoldenHour{EventID: f.event.ID, StartTime: start, EndTime: start.Add(time.Hour), Multiplier: 2, Active: true})
	f.store.PutGoldenHour(domain.GoldenHour{EventID: f.event.ID, StartTime: start, EndTime: start.Add(time.Hour), Multiplier: 3, Active: false})

	hours, err := f.store.GetActiveGoldenHours(context.Background(), f.event.ID, start.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, hours, 1)

	hours, err = f.store.GetActiveGoldenHours(context.Background(), f.event.ID, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, hours)
}

func TestDeactivateExpiredEvents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.store.DeactivateExpiredEvents(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = f.store.DeactivateExpiredEvents(ctx, testDay.AddDate(0, 0, 11))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	e, _ := f.store.GetEvent(ctx, f.event.ID)
	assert.False(t, e.Active)
}
