package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/luckydraw/internal/domain"
)

// MockSpinService is a mock implementation of spin.Service
type MockSpinService struct {
	mock.Mock
}

func (m *MockSpinService) Spin(ctx context.Context, req domain.SpinRequest) (*domain.SpinOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinOutcome), args.Error(1)
}

func (m *MockSpinService) FinalizeSpin(ctx context.Context, spinID int64) (*domain.SpinHistory, error) {
	args := m.Called(ctx, spinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinHistory), args.Error(1)
}

func (m *MockSpinService) LatestSpin(ctx context.Context, participantID int64) (*domain.SpinHistory, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinHistory), args.Error(1)
}

func (m *MockSpinService) History(ctx context.Context, participantID int64, limit int) ([]domain.SpinHistory, error) {
	args := m.Called(ctx, participantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpinHistory), args.Error(1)
}

func (m *MockSpinService) Statistics(ctx context.Context, participantID int64) (*domain.SpinStatistics, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpinStatistics), args.Error(1)
}

func (m *MockSpinService) RemainingSpinsToday(ctx context.Context, locationID int64) (int, error) {
	args := m.Called(ctx, locationID)
	return args.Int(0), args.Error(1)
}

func (m *MockSpinService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
