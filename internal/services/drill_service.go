package services

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/kukudrill/internal/clock"
	"github.com/vytor/kukudrill/internal/drill"
	"github.com/vytor/kukudrill/internal/errors"
	"github.com/vytor/kukudrill/internal/jobs"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
	"github.com/vytor/kukudrill/internal/session"
)

// SessionSnapshot is what callers see of a running or finished session.
type SessionSnapshot struct {
	Handle          string                `json:"handle"`
	UserID          string                `json:"user_id"`
	SessionID       string                `json:"session_id"`
	Phase           string                `json:"phase"`
	TimeRemaining   int                   `json:"time_remaining"`
	Score           int                   `json:"score"`
	CorrectCount    int                   `json:"correct_count"`
	ComboLevel      int                   `json:"combo_level"`
	MaxCombo        int                   `json:"max_combo"`
	Problem         *drill.Problem        `json:"problem,omitempty"`
	LastFeedback    *session.Feedback     `json:"last_feedback,omitempty"`
	Accepted        bool                  `json:"accepted"`
	PersistWarnings int                   `json:"persist_warnings"`
	Result          *models.SessionResult `json:"result,omitempty"`
}

// DrillService runs timed sessions and hands their records to persistence
type DrillService interface {
	StartSession(ctx context.Context, userID string, allowed []int) (*SessionSnapshot, error)
	SubmitAnswer(ctx context.Context, handle string, choice int) (*SessionSnapshot, error)
	Session(ctx context.Context, handle string) (*SessionSnapshot, error)
	Abandon(ctx context.Context, handle string) error
	// Shutdown abandons every running session.
	Shutdown()
}

type DrillOptions struct {
	BudgetSeconds int
	// Retention is how long a finished session stays readable.
	Retention time.Duration
	Clock     clock.Clock
	// NewRand seeds one random source per session.
	NewRand func() drill.Rand
	NewID   func() string
}

type drillService struct {
	users repository.UserDirectory
	queue jobs.JobQueue
	opts  DrillOptions

	mu       sync.Mutex
	sessions map[string]*handle
}

type handle struct {
	id     string
	userID string
	engine *session.Engine
	// warnings counts persistence failures; the session keeps running.
	warnings atomic.Int32

	mu       sync.Mutex
	feedback *session.Feedback
	result   *models.SessionResult
}

// NewDrillService creates a new DrillService
func NewDrillService(users repository.UserDirectory, queue jobs.JobQueue, opts DrillOptions) DrillService {
	if opts.BudgetSeconds <= 0 {
		opts.BudgetSeconds = session.DefaultBudgetSeconds
	}
	if opts.Retention <= 0 {
		opts.Retention = 10 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.NewRand == nil {
		opts.NewRand = func() drill.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &drillService{
		users:    users,
		queue:    queue,
		opts:     opts,
		sessions: make(map[string]*handle),
	}
}

func (s *drillService) StartSession(ctx context.Context, userID string, allowed []int) (*SessionSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%s, allowed=%v", userID, allowed)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	normalized := drill.NormalizeMultipliers(allowed)
	if len(allowed) > 0 && len(normalized) == 0 {
		log.Warn("no usable multipliers in %v, drilling all", allowed)
	}

	h := &handle{id: s.opts.NewID(), userID: userID}
	h.engine = session.NewEngine(session.Config{
		SessionID:     s.opts.NewID(),
		BudgetSeconds: s.opts.BudgetSeconds,
		Allowed:       normalized,
	}, drill.NewGenerator(s.opts.NewRand()), s.opts.Clock, s.hooks(h))

	s.mu.Lock()
	s.sessions[h.id] = h
	s.mu.Unlock()

	h.engine.Start()
	log.Info("session started: handle=%s, user_id=%s", h.id, userID)
	return h.snapshot(true), nil
}

func (s *drillService) hooks(h *handle) session.Hooks {
	log := logger.Default().WithPrefix("drill").WithFields(map[string]any{"handle": h.id, "user_id": h.userID})
	warn := func(err error) {
		h.warnings.Add(1)
		log.Warn("attempt not persisted: %v", err)
	}

	return session.Hooks{
		OnRecord: func(rec models.AttemptRecord) {
			if err := s.queue.EnqueueRecord(h.userID, rec, warn); err != nil {
				warn(err)
			}
		},
		OnFeedback: func(fb session.Feedback) {
			h.mu.Lock()
			h.feedback = &fb
			h.mu.Unlock()
		},
		OnComplete: func(result models.SessionResult) {
			h.mu.Lock()
			h.result = &result
			h.mu.Unlock()
			if err := s.queue.EnqueueSessionComplete(h.userID, result); err != nil {
				h.warnings.Add(1)
				log.Warn("progress not updated: %v", err)
			}
			s.opts.Clock.AfterFunc(s.opts.Retention, func() { s.forget(h.id) })
		},
	}
}

func (s *drillService) SubmitAnswer(ctx context.Context, id string, choice int) (*SessionSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting answer: handle=%s, choice=%d", id, choice)

	if choice < 1 || choice > drill.MaxAnswer {
		return nil, errors.NewValidationError("choice", "must be between 1 and 81")
	}
	h, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if h.engine.Done() {
		return nil, errors.NewSessionCompleteError(id)
	}

	accepted := h.engine.Submit(choice)
	if !accepted && h.engine.Done() {
		return nil, errors.NewSessionCompleteError(id)
	}
	return h.snapshot(accepted), nil
}

func (s *drillService) Session(ctx context.Context, id string) (*SessionSnapshot, error) {
	logger.FromContext(ctx).Debug("getting session: handle=%s", id)

	h, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return h.snapshot(false), nil
}

func (s *drillService) Abandon(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("abandoning session: handle=%s", id)

	h, err := s.lookup(id)
	if err != nil {
		return err
	}
	h.engine.Abandon()
	s.forget(id)
	log.Info("session abandoned: handle=%s", id)
	return nil
}

func (s *drillService) Shutdown() {
	s.mu.Lock()
	handles := make([]*handle, 0, len(s.sessions))
	for _, h := range s.sessions {
		handles = append(handles, h)
	}
	s.sessions = make(map[string]*handle)
	s.mu.Unlock()

	for _, h := range handles {
		h.engine.Abandon()
	}
	if len(handles) > 0 {
		logger.Default().WithPrefix("drill").Info("abandoned %d running sessions", len(handles))
	}
}

func (s *drillService) lookup(id string) (*handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return h, nil
}

func (s *drillService) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (h *handle) snapshot(accepted bool) *SessionSnapshot {
	st := h.engine.Snapshot()
	snap := &SessionSnapshot{
		Handle:          h.id,
		UserID:          h.userID,
		SessionID:       st.SessionID,
		Phase:           st.Phase.String(),
		TimeRemaining:   st.TimeRemaining,
		Score:           st.Score,
		CorrectCount:    st.CorrectCount,
		ComboLevel:      st.Combo.Level,
		MaxCombo:        st.Combo.MaxLevel,
		Accepted:        accepted,
		PersistWarnings: int(h.warnings.Load()),
	}
	if st.Phase != session.PhaseComplete {
		p := st.Problem
		snap.Problem = &p
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.feedback != nil {
		fb := *h.feedback
		snap.LastFeedback = &fb
	}
	if h.result != nil {
		r := *h.result
		snap.Result = &r
	}
	return snap
}
