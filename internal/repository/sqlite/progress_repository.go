package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

var leaderboardColumns = map[models.LeaderboardKind]string{
	models.LeaderboardStreak:     "p.consecutive_days",
	models.LeaderboardTotalScore: "p.total_score",
	models.LeaderboardHighScore:  "p.high_score",
}

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a ProgressRepository backed by the progress
// and multiplier_mistakes tables.
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%s", userID)

	var p models.Progress
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, today_count, consecutive_days, last_date, total_score, high_score, updated_at
FROM progress
WHERE user_id = ?
`, userID).Scan(&p.UserID, &p.TodayCount, &p.ConsecutiveDays, &p.LastDate, &p.TotalScore, &p.HighScore, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress yet: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}

	mistakes, err := r.mistakes(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	p.MultiplierMistakes = mistakes[userID]
	if p.MultiplierMistakes == nil {
		p.MultiplierMistakes = map[int]int{}
	}
	return &p, nil
}

func (r *progressRepository) Save(ctx context.Context, p models.Progress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: user_id=%s, today=%d, streak=%d, total=%d, high=%d",
		p.UserID, p.TodayCount, p.ConsecutiveDays, p.TotalScore, p.HighScore)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO progress (user_id, today_count, consecutive_days, last_date, total_score, high_score, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    today_count = excluded.today_count,
    consecutive_days = excluded.consecutive_days,
    last_date = excluded.last_date,
    total_score = excluded.total_score,
    high_score = excluded.high_score,
    updated_at = excluded.updated_at
`, p.UserID, p.TodayCount, p.ConsecutiveDays, p.LastDate, p.TotalScore, p.HighScore, p.UpdatedAt); err != nil {
			log.Error("failed to upsert progress: %v", err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM multiplier_mistakes WHERE user_id = ?`, p.UserID); err != nil {
			log.Error("failed to clear mistakes: %v", err)
			return err
		}
		if len(p.MultiplierMistakes) == 0 {
			return nil
		}

		insert := sqlBuilder.Insert("multiplier_mistakes").Columns("user_id", "multiplier", "mistakes")
		for dan, n := range p.MultiplierMistakes {
			insert = insert.Values(p.UserID, dan, n)
		}
		sqlStr, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			log.Error("failed to insert mistakes: %v", err)
			return err
		}
		return nil
	})
}

// List returns progress keyed by user id. An empty userIDs lists everyone.
func (r *progressRepository) List(ctx context.Context, userIDs []string) (map[string]models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress for %d users", len(userIDs))

	query := sqlBuilder.Select(
		"user_id", "today_count", "consecutive_days", "last_date", "total_score", "high_score", "updated_at",
	).From("progress")
	if len(userIDs) > 0 {
		query = query.Where(squirrel.Eq{"user_id": userIDs})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]models.Progress)
	var ids []string
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.UserID, &p.TodayCount, &p.ConsecutiveDays, &p.LastDate, &p.TotalScore, &p.HighScore, &p.UpdatedAt); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		out[p.UserID] = p
		ids = append(ids, p.UserID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mistakes, err := r.mistakes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, p := range out {
		p.MultiplierMistakes = mistakes[id]
		if p.MultiplierMistakes == nil {
			p.MultiplierMistakes = map[int]int{}
		}
		out[id] = p
	}
	return out, nil
}

func (r *progressRepository) Leaderboard(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("loading leaderboard: kind=%s, limit=%d", kind, limit)

	column, ok := leaderboardColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard kind %q", kind)
	}

	query := sqlBuilder.Select("p.user_id", "u.nickname", column).
		From("progress p").
		Join("users u ON u.id = p.user_id").
		OrderBy(column+" DESC", "u.nickname ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		e := models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.UserID, &e.Nickname, &e.Value); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *progressRepository) mistakes(ctx context.Context, userIDs []string) (map[string]map[int]int, error) {
	out := make(map[string]map[int]int)
	if len(userIDs) == 0 {
		return out, nil
	}

	sqlStr, args, err := sqlBuilder.Select("user_id", "multiplier", "mistakes").
		From("multiplier_mistakes").
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress_repo").Error("failed to query mistakes: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID        string
			dan, mistakes int
		)
		if err := rows.Scan(&userID, &dan, &mistakes); err != nil {
			return nil, err
		}
		if out[userID] == nil {
			out[userID] = make(map[int]int)
		}
		out[userID][dan] = mistakes
	}
	return out, rows.Err()
}
