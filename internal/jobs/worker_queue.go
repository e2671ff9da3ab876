package jobs

import (
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
	"github.com/vytor/kukudrill/internal/worker"
)

// Submitter is the part of worker.Pool the queue needs.
type Submitter interface {
	Submit(job worker.Job) error
}

// WorkerQueue implements JobQueue on top of a worker pool.
type WorkerQueue struct {
	pool     Submitter
	records  repository.RecordStore
	progress worker.ProgressRecorder
}

func NewWorkerQueue(pool Submitter, records repository.RecordStore, progress worker.ProgressRecorder) JobQueue {
	return &WorkerQueue{
		pool:     pool,
		records:  records,
		progress: progress,
	}
}

func (q *WorkerQueue) EnqueueRecord(userID string, record models.AttemptRecord, onError func(error)) error {
	return q.pool.Submit(&worker.AppendRecordJob{
		Store:   q.records,
		UserID:  userID,
		Record:  record,
		OnError: onError,
	})
}

func (q *WorkerQueue) EnqueueSessionComplete(userID string, result models.SessionResult) error {
	return q.pool.Submit(&worker.SessionCompleteJob{
		Progress: q.progress,
		UserID:   userID,
		Result:   result,
	})
}
