package services

import (
	"context"
	"time"

	"github.com/vytor/kukudrill/internal/analytics"
	"github.com/vytor/kukudrill/internal/backfill"
	"github.com/vytor/kukudrill/internal/clock"
	"github.com/vytor/kukudrill/internal/errors"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

// StatsService handles attempt-history analytics
type StatsService interface {
	Analyze(ctx context.Context, userID string) (*models.Report, error)
	AnalyzeGroup(ctx context.Context, userIDs []string) (*models.GroupReport, error)
	CohortStats(ctx context.Context) ([]models.CohortStat, error)
	ClassStats(ctx context.Context, grade string) ([]models.CohortStat, error)
	// Backfill persists reconstructed timestamps for a user's legacy records
	// and returns how many records were rewritten. Records that already carry
	// a timestamp are written back unchanged.
	Backfill(ctx context.Context, userID string) (int, error)
	// BackfillAll runs Backfill for every user and returns how many users changed.
	BackfillAll(ctx context.Context) (int, error)
}

type statsService struct {
	records  repository.RecordStore
	users    repository.UserDirectory
	progress repository.ProgressRepository
	clk      clock.Clock
	ids      backfill.IDSource
}

// NewStatsService creates a new StatsService. ids may be nil.
func NewStatsService(records repository.RecordStore, users repository.UserDirectory, progress repository.ProgressRepository, clk clock.Clock, ids backfill.IDSource) StatsService {
	return &statsService{
		records:  records,
		users:    users,
		progress: progress,
		clk:      clk,
		ids:      ids,
	}
}

func (s *statsService) Analyze(ctx context.Context, userID string) (*models.Report, error) {
	log := logger.FromContext(ctx)
	log.Debug("analyzing user: user_id=%s", userID)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	records, err := s.records.ReadAll(ctx, userID)
	if err != nil {
		log.Error("failed to read records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if backfill.NeedsBackfill(records) {
		end, err := s.referenceEnd(ctx, userID)
		if err != nil {
			return nil, err
		}
		log.Debug("reconstructing %d legacy records for analysis", len(records))
		records = backfill.Reconstruct(records, end, s.ids)
	}

	report := analytics.Analyze(records)
	return &report, nil
}

func (s *statsService) AnalyzeGroup(ctx context.Context, userIDs []string) (*models.GroupReport, error) {
	log := logger.FromContext(ctx)
	log.Debug("analyzing group: users=%d", len(userIDs))

	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return nil, errors.NewValidationError("user_ids", "must not be empty")
	}

	members, err := s.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	report := analytics.AnalyzeGroup(members)
	return &report, nil
}

func (s *statsService) CohortStats(ctx context.Context) ([]models.CohortStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing grade cohorts")

	cohort, err := s.cohortMembers(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.GradeCohorts(cohort), nil
}

func (s *statsService) ClassStats(ctx context.Context, grade string) ([]models.CohortStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing class cohorts: grade=%s", grade)

	if grade == "" {
		return nil, errors.NewValidationError("grade", "cannot be empty")
	}
	cohort, err := s.cohortMembers(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ClassCohorts(cohort, grade), nil
}

func (s *statsService) Backfill(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("backfilling user: user_id=%s", userID)

	records, err := s.records.ReadAll(ctx, userID)
	if err != nil {
		log.Error("failed to read records: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if !backfill.NeedsBackfill(records) {
		return 0, nil
	}

	end, err := s.referenceEnd(ctx, userID)
	if err != nil {
		return 0, err
	}
	// Records written after the legacy run keep their real timing and session.
	legacy, rest := backfill.SplitLegacy(records)
	rebuilt := backfill.Reconstruct(legacy, end, s.ids)
	if err := s.records.ReplaceAll(ctx, userID, append(rebuilt, rest...)); err != nil {
		log.Error("failed to replace records: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("backfilled %d legacy records, kept %d: user_id=%s", len(rebuilt), len(rest), userID)
	return len(rebuilt), nil
}

func (s *statsService) BackfillAll(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("backfilling all users")

	users, err := s.users.List(ctx, models.UserFilter{})
	if err != nil {
		log.Error("failed to list users: %v", err)
		return 0, errors.NewInternalError(err)
	}

	changed := 0
	for _, u := range users {
		n, err := s.Backfill(ctx, u.ID)
		if err != nil {
			return changed, err
		}
		if n > 0 {
			changed++
		}
	}
	log.Info("backfill finished: users=%d, changed=%d", len(users), changed)
	return changed, nil
}

// referenceEnd is the start of the user's last practice day, or now when the
// user has no progress yet.
func (s *statsService) referenceEnd(ctx context.Context, userID string) (time.Time, error) {
	now := s.clk.Now()
	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get progress: %v", err)
		return time.Time{}, errors.NewInternalError(err)
	}
	if p == nil || p.LastDate == "" {
		return now, nil
	}
	end, err := time.ParseInLocation(models.DateLayout, p.LastDate, now.Location())
	if err != nil {
		logger.FromContext(ctx).Warn("bad last_date %q for %s, using now", p.LastDate, userID)
		return now, nil
	}
	return end, nil
}

func (s *statsService) members(ctx context.Context, ids []string) ([]analytics.Member, error) {
	log := logger.FromContext(ctx)

	records, err := s.records.ReadForUsers(ctx, ids)
	if err != nil {
		log.Error("failed to read records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	progress, err := s.progress.List(ctx, ids)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	members := make([]analytics.Member, 0, len(ids))
	for _, id := range ids {
		members = append(members, analytics.Member{
			UserID:     id,
			TotalScore: progress[id].TotalScore,
			Records:    records[id],
		})
	}
	return members, nil
}

func (s *statsService) cohortMembers(ctx context.Context) ([]analytics.CohortMember, error) {
	users, err := s.users.List(ctx, models.UserFilter{})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list users: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	members, err := s.members(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]analytics.CohortMember, len(users))
	for i, u := range users {
		out[i] = analytics.CohortMember{Member: members[i], Grade: u.Grade, Class: u.Class}
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
