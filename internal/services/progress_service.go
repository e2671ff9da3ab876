package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/kukudrill/internal/clock"
	"github.com/vytor/kukudrill/internal/errors"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

// ProgressService keeps the per-player counters behind streaks and leaderboards
type ProgressService interface {
	RecordSession(ctx context.Context, userID string, result models.SessionResult) error
	GetProgress(ctx context.Context, userID string) (*models.Progress, error)
	Leaderboard(ctx context.Context, kind models.LeaderboardKind) ([]models.LeaderboardEntry, error)
}

type progressService struct {
	progress repository.ProgressRepository
	clk      clock.Clock
	limit    int

	// mu serializes read-modify-write cycles; workers may finish two
	// sessions for the same user concurrently.
	mu sync.Mutex
}

// NewProgressService creates a new ProgressService. limit caps leaderboard length.
func NewProgressService(progress repository.ProgressRepository, clk clock.Clock, limit int) ProgressService {
	if limit <= 0 {
		limit = 50
	}
	return &progressService{progress: progress, clk: clk, limit: limit}
}

func (s *progressService) RecordSession(ctx context.Context, userID string, result models.SessionResult) error {
	log := logger.FromContext(ctx)
	log.Debug("recording session: user_id=%s, session_id=%s, correct=%d, score=%d",
		userID, result.SessionID, result.CorrectCount, result.Score)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.progress.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return errors.NewInternalError(err)
	}
	now := s.clk.Now()
	p := newProgress(userID)
	if current != nil {
		p = *current
	}

	p = Rollover(p, now)
	p.TodayCount += result.CorrectCount
	p.TotalScore += result.Score
	if result.Score > p.HighScore {
		p.HighScore = result.Score
	}
	mistakes := make(map[int]int, len(p.MultiplierMistakes))
	for k, v := range p.MultiplierMistakes {
		mistakes[k] = v
	}
	for _, r := range result.History {
		if !r.IsCorrect {
			mistakes[r.Multiplier]++
		}
	}
	p.MultiplierMistakes = mistakes
	p.UpdatedAt = now

	if err := s.progress.Save(ctx, p); err != nil {
		log.Error("failed to save progress: %v", err)
		return errors.NewInternalError(err)
	}
	log.Debug("progress saved: today=%d, streak=%d, total=%d, high=%d",
		p.TodayCount, p.ConsecutiveDays, p.TotalScore, p.HighScore)
	return nil
}

func (s *progressService) GetProgress(ctx context.Context, userID string) (*models.Progress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting progress: user_id=%s", userID)

	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		empty := newProgress(userID)
		return &empty, nil
	}
	view := Current(*p, s.clk.Now())
	return &view, nil
}

func (s *progressService) Leaderboard(ctx context.Context, kind models.LeaderboardKind) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting leaderboard: kind=%s", kind)

	if !kind.Valid() {
		return nil, errors.NewValidationError("kind", "must be one of streak, total-score, high-score")
	}
	entries, err := s.progress.Leaderboard(ctx, kind, s.limit)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func newProgress(userID string) models.Progress {
	return models.Progress{UserID: userID, MultiplierMistakes: map[int]int{}}
}

// Rollover moves p onto the calendar day of now. A practice day directly
// after the previous one extends the streak; any gap restarts it at 1.
func Rollover(p models.Progress, now time.Time) models.Progress {
	today := now.Format(models.DateLayout)
	if p.LastDate == today {
		return p
	}
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)
	if p.LastDate == yesterday {
		p.ConsecutiveDays++
	} else {
		p.ConsecutiveDays = 1
	}
	p.TodayCount = 0
	p.LastDate = today
	return p
}

// Current is p as seen on the day of now without recording practice: the
// day count clears on a new day and a streak with a missed day reads 0.
func Current(p models.Progress, now time.Time) models.Progress {
	today := now.Format(models.DateLayout)
	if p.LastDate == today {
		return p
	}
	p.TodayCount = 0
	if p.LastDate != now.AddDate(0, 0, -1).Format(models.DateLayout) {
		p.ConsecutiveDays = 0
	}
	return p
}
