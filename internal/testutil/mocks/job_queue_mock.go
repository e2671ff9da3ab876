package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/kukudrill/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueRecord(userID string, record models.AttemptRecord, onError func(error)) error {
	args := m.Called(userID, record, onError)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSessionComplete(userID string, result models.SessionResult) error {
	args := m.Called(userID, result)
	return args.Error(0)
}
