package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/kukudrill/internal/clock/clocktest"
	"github.com/vytor/kukudrill/internal/drill"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
	"github.com/vytor/kukudrill/internal/repository/sqlite"
	"github.com/vytor/kukudrill/internal/services"
	"github.com/vytor/kukudrill/internal/testutil"
)

// syncQueue persists on the calling goroutine so tests can assert right away.
type syncQueue struct {
	records  repository.RecordStore
	progress services.ProgressService
}

func (q *syncQueue) EnqueueRecord(userID string, record models.AttemptRecord, onError func(error)) error {
	if err := q.records.Append(context.Background(), userID, record); err != nil && onError != nil {
		onError(err)
	}
	return nil
}

func (q *syncQueue) EnqueueSessionComplete(userID string, result models.SessionResult) error {
	return q.progress.RecordSession(context.Background(), userID, result)
}

type APISuite struct {
	suite.Suite
	clock   *clocktest.Fake
	handler http.Handler
	drill   services.DrillService
}

func (s *APISuite) SetupTest() {
	db := testutil.NewTestDB(s.T())
	s.T().Cleanup(func() { testutil.MustClose(s.T(), db) })

	s.clock = clocktest.New(time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))
	users := sqlite.NewUserDirectory(db)
	records := sqlite.NewRecordStore(db)
	progressRepo := sqlite.NewProgressRepository(db)

	progress := services.NewProgressService(progressRepo, s.clock, 10)
	s.drill = services.NewDrillService(users, &syncQueue{records: records, progress: progress}, services.DrillOptions{
		BudgetSeconds: 20,
		Clock:         s.clock,
		NewRand:       func() drill.Rand { return rand.New(rand.NewSource(42)) },
	})
	srv := &Server{
		DB:              db,
		UserService:     services.NewUserService(users),
		DrillService:    s.drill,
		ProgressService: progress,
		StatsService:    services.NewStatsService(records, users, progressRepo, s.clock, nil),
	}
	s.handler = srv.Routes()
}

func (s *APISuite) TearDownTest() {
	s.drill.Shutdown()
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *APISuite) createUser(nick, grade, class string) models.User {
	rec := s.do(http.MethodPost, "/users", map[string]string{"nickname": nick, "grade": grade, "class": class})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.User](s.T(), rec)
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/ready", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestUserLifecycle() {
	user := s.createUser("taro", "2", "A")
	s.NotEmpty(user.ID)

	rec := s.do(http.MethodPost, "/users", map[string]string{"nickname": "taro"})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("CONFLICT", decode[errorBody](s.T(), rec).Error.Code)

	rec = s.do(http.MethodPut, "/users/"+user.ID, map[string]string{"grade": "3"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("3", decode[models.User](s.T(), rec).Grade)

	rec = s.do(http.MethodGet, "/users?grade=3", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(decode[[]models.User](s.T(), rec), 1)

	rec = s.do(http.MethodDelete, "/users/"+user.ID, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/users/"+user.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestBadJSON() {
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{nickname"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", decode[errorBody](s.T(), rec).Error.Code)
}

func (s *APISuite) TestSessionFlow() {
	user := s.createUser("hanako", "1", "B")

	rec := s.do(http.MethodPost, "/users/"+user.ID+"/sessions", map[string][]int{"multipliers": {7}})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	snap := decode[services.SessionSnapshot](s.T(), rec)
	s.Equal("active", snap.Phase)
	s.Equal(20, snap.TimeRemaining)
	s.Require().NotNil(snap.Problem)
	s.Equal(7, snap.Problem.Fact.Multiplier)
	s.Zero(snap.Problem.Answer, "the answer is not sent to clients")

	answer := snap.Problem.Fact.Product()
	rec = s.do(http.MethodPost, "/sessions/"+snap.Handle+"/answer", map[string]int{"choice": answer})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	snap = decode[services.SessionSnapshot](s.T(), rec)
	s.True(snap.Accepted)
	s.Equal(10, snap.Score)

	s.clock.Advance(21 * time.Second)

	rec = s.do(http.MethodGet, "/sessions/"+snap.Handle, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	snap = decode[services.SessionSnapshot](s.T(), rec)
	s.Equal("complete", snap.Phase)
	s.Require().NotNil(snap.Result)
	s.Equal(1, snap.Result.CorrectCount)

	rec = s.do(http.MethodPost, "/sessions/"+snap.Handle+"/answer", map[string]int{"choice": 1})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/users/"+user.ID+"/progress", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	progress := decode[models.Progress](s.T(), rec)
	s.Equal(1, progress.TodayCount)
	s.Equal(1, progress.ConsecutiveDays)
	s.Equal(10, progress.HighScore)

	rec = s.do(http.MethodGet, "/users/"+user.ID+"/analytics", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	report := decode[models.Report](s.T(), rec)
	s.Equal(1, report.TotalAttempts)
	s.InDelta(1.0, report.OverallAccuracy, 1e-9)

	rec = s.do(http.MethodGet, "/leaderboard/high-score", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	entries := decode[[]models.LeaderboardEntry](s.T(), rec)
	s.Require().Len(entries, 1)
	s.Equal("hanako", entries[0].Nickname)
	s.Equal(1, entries[0].Rank)
}

func (s *APISuite) TestSessionErrors() {
	rec := s.do(http.MethodPost, "/users/nobody/sessions", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/sessions/missing", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	user := s.createUser("jiro", "", "")
	rec = s.do(http.MethodPost, "/users/"+user.ID+"/sessions", nil)
	s.Require().Equal(http.StatusCreated, rec.Code)
	snap := decode[services.SessionSnapshot](s.T(), rec)

	rec = s.do(http.MethodPost, "/sessions/"+snap.Handle+"/answer", map[string]int{"choice": 0})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", decode[errorBody](s.T(), rec).Error.Code)

	rec = s.do(http.MethodDelete, "/sessions/"+snap.Handle, nil)
	s.Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/sessions/"+snap.Handle, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestAnalyticsEndpoints() {
	a := s.createUser("a", "2", "A")
	s.createUser("b", "2", "B")
	s.createUser("c", "", "")

	rec := s.do(http.MethodPost, "/analytics/group", map[string][]string{"user_ids": {a.ID}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(1, decode[models.GroupReport](s.T(), rec).UserCount)

	rec = s.do(http.MethodPost, "/analytics/group", map[string][]string{"user_ids": {}})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/analytics/cohorts", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	cohorts := decode[[]models.CohortStat](s.T(), rec)
	s.Require().Len(cohorts, 2)
	s.Equal("2", cohorts[0].Grade)
	s.Equal(2, cohorts[0].UserCount)
	s.Equal("unset", cohorts[1].Grade)

	rec = s.do(http.MethodGet, "/analytics/cohorts/2/classes", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(decode[[]models.CohortStat](s.T(), rec), 2)

	rec = s.do(http.MethodGet, "/leaderboard/fastest", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
