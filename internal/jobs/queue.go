package jobs

import "github.com/vytor/kukudrill/internal/models"

// JobQueue hands persistence work to background workers.
type JobQueue interface {
	// EnqueueRecord schedules an attempt write. onError, if not nil, runs on
	// the worker goroutine when the write fails.
	EnqueueRecord(userID string, record models.AttemptRecord, onError func(error)) error
	EnqueueSessionComplete(userID string, result models.SessionResult) error
}
