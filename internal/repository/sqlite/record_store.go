package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

var attemptColumns = []string{
	"user_id", "multiplier", "multiplicand", "is_correct", "response_time_ms", "timestamp", "session_id",
}

type recordStore struct {
	db *sql.DB
}

// NewRecordStore creates a RecordStore backed by the attempts table.
func NewRecordStore(db *sql.DB) repository.RecordStore {
	return &recordStore{db: db}
}

func (r *recordStore) Append(ctx context.Context, userID string, rec models.AttemptRecord) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("appending attempt: user_id=%s, fact=%s, session_id=%s", userID, rec.Fact, rec.SessionID)

	query, args, err := sqlBuilder.Insert("attempts").
		Columns(attemptColumns...).
		Values(attemptValues(userID, rec)...).
		ToSql()
	if err != nil {
		log.Error("failed to build insert: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to append attempt: %v", err)
		return err
	}
	return nil
}

func (r *recordStore) ReadAll(ctx context.Context, userID string) ([]models.AttemptRecord, error) {
	return r.Query(ctx, models.RecordFilter{UserID: userID})
}

func (r *recordStore) Query(ctx context.Context, filter models.RecordFilter) ([]models.AttemptRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("querying attempts: user_id=%s, session_id=%s, multiplier=%d, limit=%d",
		filter.UserID, filter.SessionID, filter.Multiplier, filter.Limit)

	query := sqlBuilder.Select(
		"multiplier", "multiplicand", "is_correct", "response_time_ms", "timestamp", "session_id",
	).From("attempts")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.SessionID != "" {
		query = query.Where(squirrel.Eq{"session_id": filter.SessionID})
	}
	if filter.Multiplier != 0 {
		query = query.Where(squirrel.Eq{"multiplier": filter.Multiplier})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"timestamp": filter.Since.UnixMilli()})
	}
	query = query.OrderBy("timestamp ASC", "id ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.AttemptRecord{}
	for rows.Next() {
		var rec models.AttemptRecord
		if err := rows.Scan(&rec.Multiplier, &rec.Multiplicand, &rec.IsCorrect, &rec.ResponseTimeMs, &rec.Timestamp, &rec.SessionID); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate attempts: %v", err)
		return nil, err
	}

	log.Debug("found %d attempts", len(records))
	return records, nil
}

func (r *recordStore) ReadForUsers(ctx context.Context, userIDs []string) (map[string][]models.AttemptRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("reading attempts for %d users", len(userIDs))

	out := make(map[string][]models.AttemptRecord, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	sqlStr, args, err := sqlBuilder.Select(
		"user_id", "multiplier", "multiplicand", "is_correct", "response_time_ms", "timestamp", "session_id",
	).From("attempts").
		Where(squirrel.Eq{"user_id": userIDs}).
		OrderBy("user_id ASC", "timestamp ASC", "id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID string
			rec    models.AttemptRecord
		)
		if err := rows.Scan(&userID, &rec.Multiplier, &rec.Multiplicand, &rec.IsCorrect, &rec.ResponseTimeMs, &rec.Timestamp, &rec.SessionID); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		out[userID] = append(out[userID], rec)
	}
	return out, rows.Err()
}

func (r *recordStore) ReplaceAll(ctx context.Context, userID string, records []models.AttemptRecord) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("replacing attempts: user_id=%s, count=%d", userID, len(records))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attempts WHERE user_id = ?`, userID); err != nil {
			log.Error("failed to clear attempts for %s: %v", userID, err)
			return err
		}
		if len(records) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO attempts (user_id, multiplier, multiplicand, is_correct, response_time_ms, timestamp, session_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, attemptValues(userID, rec)...); err != nil {
				log.Error("failed to insert attempt: %v", err)
				return err
			}
		}
		return nil
	})
}

func (r *recordStore) Count(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attempts WHERE user_id = ?`, userID).Scan(&n); err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, err
	}
	return n, nil
}

func attemptValues(userID string, rec models.AttemptRecord) []any {
	return []any{userID, rec.Multiplier, rec.Multiplicand, rec.IsCorrect, rec.ResponseTimeMs, rec.Timestamp, rec.SessionID}
}
