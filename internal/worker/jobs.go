package worker

import (
	"context"
	"fmt"

	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

// ProgressRecorder folds a finished session into the player's progress.
// Declared here so the worker package does not import services.
type ProgressRecorder interface {
	RecordSession(ctx context.Context, userID string, result models.SessionResult) error
}

// AppendRecordJob persists one attempt. OnError, if set, is told about a
// failed write so the session can surface a warning.
type AppendRecordJob struct {
	Store   repository.RecordStore
	UserID  string
	Record  models.AttemptRecord
	OnError func(error)
}

func (j *AppendRecordJob) Name() string { return "append_record" }

func (j *AppendRecordJob) Run(ctx context.Context) error {
	if err := j.Store.Append(ctx, j.UserID, j.Record); err != nil {
		if j.OnError != nil {
			j.OnError(err)
		}
		return fmt.Errorf("append %s for %s: %w", j.Record.Fact, j.UserID, err)
	}
	return nil
}

// SessionCompleteJob updates progress counters once a session ends.
type SessionCompleteJob struct {
	Progress ProgressRecorder
	UserID   string
	Result   models.SessionResult
}

func (j *SessionCompleteJob) Name() string { return "session_complete" }

func (j *SessionCompleteJob) Run(ctx context.Context) error {
	return j.Progress.RecordSession(ctx, j.UserID, j.Result)
}
