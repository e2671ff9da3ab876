package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kukudrill/internal/db"
	"github.com/vytor/kukudrill/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// It holds a single connection so every query sees the same memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser adds a bare user row for tests that only need a foreign key target.
func InsertUser(t *testing.T, sqlDB *sql.DB, id, nickname, grade, class string) {
	_, err := sqlDB.Exec(`INSERT INTO users (id, nickname, grade, class) VALUES (?, ?, ?, ?)`, id, nickname, grade, class)
	require.NoError(t, err)
}

// Attempt builds a record for fact m x k.
func Attempt(m, k int, correct bool, ms, ts int64, sessionID string) models.AttemptRecord {
	return models.AttemptRecord{
		Fact:           models.Fact{Multiplier: m, Multiplicand: k},
		IsCorrect:      correct,
		ResponseTimeMs: ms,
		Timestamp:      ts,
		SessionID:      sessionID,
	}
}
