package spin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/event"
	"github.com/osse101/luckydraw/internal/ledger"
)

// MockRepository implements repository.Spin
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockRepository) GetLocation(ctx context.Context, id int64) (*domain.EventLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventLocation), args.Error(1)
}

func (m *MockRepository) GetParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockRepository) GetRewardsByEvent(ctx context.Context, eventID int64) ([]domain.Reward, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reward), args.Error(1)
}

func (m *MockRepository) GetActiveGoldenHours(ctx context.Context, eventID int64, now time.Time) ([]domain.GoldenHour, error) {
	args := m.Called(ctx, eventID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoldenHour), args.Error(1)
}

func (m *MockRepository) GetGoldenHoursByEvent(ctx context.Context, eventID int64) ([]domain.GoldenHour, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoldenHour), args.Error(1)
}

func (m *MockRepository) AttemptCommit(ctx context.Context, req ledger.CommitRequest) (ledger.CommitResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ledger.CommitResult), args.Error(1)
}

func (m *MockRepository) GetRemainingSpinsToday(ctx context.Context, locationID int64, day time.Time) (int, error) {
	args := m.Called(ctx, locationID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) GetSpin(ctx context.Context, id int64) (*domain.SpinHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinHistory), args.Error(1)
}

func (m *MockRepository) GetLatestSpin(ctx context.Context, participantID int64) (*domain.SpinHistory, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinHistory), args.Error(1)
}

func (m *MockRepository) ListSpins(ctx context.Context, participantID int64, limit int) ([]domain.SpinHistory, error) {
	args := m.Called(ctx, participantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpinHistory), args.Error(1)
}

func (m *MockRepository) GetSpinStatistics(ctx context.Context, participantID int64) (*domain.SpinStatistics, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinStatistics), args.Error(1)
}

func (m *MockRepository) FinalizeSpin(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher captures published events on a buffered channel
type recordingPublisher struct {
	ch chan event.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{ch: make(chan event.Event, 1024)}
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, evt event.Event) {
	p.ch <- evt
}

func (p *recordingPublisher) next(t *testing.T) event.Event {
	t.Helper()
	select {
	case evt := <-p.ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
	return event.Event{}
}

// sequenceSource replays draws in order, repeating the last one
type sequenceSource struct {
	mu    sync.Mutex
	draws []float64
	i     int
}

func (s *sequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.draws[s.i]
	if s.i < len(s.draws)-1 {
		s.i++
	}
	return v
}
