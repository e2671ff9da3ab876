package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/kukudrill/internal/models"
)

// MockRecordStore is a mock implementation of repository.RecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Append(ctx context.Context, userID string, record models.AttemptRecord) error {
	args := m.Called(ctx, userID, record)
	return args.Error(0)
}

func (m *MockRecordStore) ReadAll(ctx context.Context, userID string) ([]models.AttemptRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttemptRecord), args.Error(1)
}

func (m *MockRecordStore) Query(ctx context.Context, filter models.RecordFilter) ([]models.AttemptRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttemptRecord), args.Error(1)
}

func (m *MockRecordStore) ReadForUsers(ctx context.Context, userIDs []string) (map[string][]models.AttemptRecord, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]models.AttemptRecord), args.Error(1)
}

func (m *MockRecordStore) ReplaceAll(ctx context.Context, userID string, records []models.AttemptRecord) error {
	args := m.Called(ctx, userID, records)
	return args.Error(0)
}

func (m *MockRecordStore) Count(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
