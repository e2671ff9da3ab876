package repository

import (
	"context"
	"errors"

	"github.com/vytor/kukudrill/internal/models"
)

// ErrDuplicateNickname is returned when a nickname is already taken.
var ErrDuplicateNickname = errors.New("nickname already taken")

// RecordStore persists attempt records. Reads return records in generation
// order: by timestamp, then by insertion.
type RecordStore interface {
	Append(ctx context.Context, userID string, record models.AttemptRecord) error
	ReadAll(ctx context.Context, userID string) ([]models.AttemptRecord, error)
	Query(ctx context.Context, filter models.RecordFilter) ([]models.AttemptRecord, error)
	ReadForUsers(ctx context.Context, userIDs []string) (map[string][]models.AttemptRecord, error)
	// ReplaceAll swaps a user's whole history atomically.
	ReplaceAll(ctx context.Context, userID string, records []models.AttemptRecord) error
	Count(ctx context.Context, userID string) (int, error)
}

// UserDirectory handles account metadata. Get and FindByNickname return
// nil, nil when no user matches.
type UserDirectory interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	FindByNickname(ctx context.Context, nickname string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// ProgressRepository stores per-user accumulators. Get returns nil, nil for
// a user who has not finished a session yet.
type ProgressRepository interface {
	Get(ctx context.Context, userID string) (*models.Progress, error)
	Save(ctx context.Context, progress models.Progress) error
	List(ctx context.Context, userIDs []string) (map[string]models.Progress, error)
	Leaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, error)
}
