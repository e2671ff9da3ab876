package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/kukudrill/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string) (*models.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, progress models.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) List(ctx context.Context, userIDs []string) (map[string]models.Progress, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.Progress), args.Error(1)
}

func (m *MockProgressRepository) Leaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

// MockProgressRecorder is a mock implementation of worker.ProgressRecorder
type MockProgressRecorder struct {
	mock.Mock
}

func (m *MockProgressRecorder) RecordSession(ctx context.Context, userID string, result models.SessionResult) error {
	args := m.Called(ctx, userID, result)
	return args.Error(0)
}
