package session

import (
	"sync"
	"time"

	"github.com/vytor/kukudrill/internal/clock"
	"github.com/vytor/kukudrill/internal/drill"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
)

// Hooks receive engine effects. They run on the goroutine that delivered the
// event and must not call Submit synchronously. Nil hooks are skipped.
type Hooks struct {
	OnProblem  func(drill.Problem)
	OnFeedback func(Feedback)
	OnRecord   func(models.AttemptRecord)
	OnComplete func(models.SessionResult)
}

type Config struct {
	SessionID     string
	BudgetSeconds int
	Allowed       []int
}

// Engine owns one session's State and serializes the events that drive it.
type Engine struct {
	// eventMu makes each event run to completion, hooks included.
	eventMu sync.Mutex
	// mu guards state and the scheduling handles; hooks may read Snapshot.
	mu        sync.Mutex
	state     State
	started   bool
	abandoned bool
	ticker    clock.Stopper
	resume    clock.Stopper

	cfg   Config
	gen   ProblemSource
	clk   clock.Clock
	hooks Hooks
	log   *logger.Logger
}

func NewEngine(cfg Config, gen ProblemSource, clk clock.Clock, hooks Hooks) *Engine {
	if cfg.BudgetSeconds <= 0 {
		cfg.BudgetSeconds = DefaultBudgetSeconds
	}
	return &Engine{
		cfg:   cfg,
		gen:   gen,
		clk:   clk,
		hooks: hooks,
		log:   logger.Default().WithPrefix("session").WithField("session_id", cfg.SessionID),
	}
}

// Start shows the first problem and starts the one-second countdown.
// Calling Start more than once has no effect.
func (e *Engine) Start() {
	e.eventMu.Lock()
	defer e.eventMu.Unlock()

	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	var effects []Effect
	e.state, effects = Begin(e.cfg.SessionID, e.cfg.BudgetSeconds, e.cfg.Allowed, e.gen, e.clk.Now())
	e.ticker = e.clk.Every(time.Second, func() { e.handle(Tick{}) })
	e.mu.Unlock()

	e.log.Debug("session started: budget=%ds, allowed=%v", e.cfg.BudgetSeconds, e.cfg.Allowed)
	e.dispatch(effects)
}

// Submit delivers an answer. It reports whether the answer was accepted;
// answers arriving while feedback is showing or after completion are ignored.
func (e *Engine) Submit(choice int) bool {
	return e.handle(Submit{Choice: choice, At: e.clk.Now()})
}

// Abandon stops the timers without completing. No further hooks fire.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.abandoned {
		return
	}
	e.abandoned = true
	e.stopTimersLocked()
	e.log.Debug("session abandoned: history=%d", len(e.state.History))
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Done reports whether the session has completed.
func (e *Engine) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase == PhaseComplete
}

// handle runs one event and reports whether it changed anything.
func (e *Engine) handle(ev Event) bool {
	e.eventMu.Lock()
	defer e.eventMu.Unlock()

	e.mu.Lock()
	if !e.started || e.abandoned {
		e.mu.Unlock()
		return false
	}
	next, effects := Step(e.state, ev, e.gen)
	changed := len(effects) > 0 || next.TimeRemaining != e.state.TimeRemaining
	e.state = next
	e.mu.Unlock()

	e.dispatch(effects)
	return changed
}

func (e *Engine) dispatch(effects []Effect) {
	for _, eff := range effects {
		switch eff := eff.(type) {
		case ShowProblem:
			if e.hooks.OnProblem != nil {
				e.hooks.OnProblem(eff.Problem)
			}
		case Record:
			if e.hooks.OnRecord != nil {
				e.hooks.OnRecord(eff.Record)
			}
		case Feedback:
			if e.hooks.OnFeedback != nil {
				e.hooks.OnFeedback(eff)
			}
		case ScheduleResume:
			e.mu.Lock()
			if e.resume != nil {
				e.resume.Stop()
			}
			e.resume = e.clk.AfterFunc(eff.Delay, func() { e.handle(Resume{At: e.clk.Now()}) })
			e.mu.Unlock()
		case Complete:
			e.mu.Lock()
			e.stopTimersLocked()
			e.mu.Unlock()
			e.log.Info("session complete: correct=%d, score=%d, max_combo=%d, attempts=%d",
				eff.Result.CorrectCount, eff.Result.Score, eff.Result.MaxComboReached, len(eff.Result.History))
			if e.hooks.OnComplete != nil {
				e.hooks.OnComplete(eff.Result)
			}
		}
	}
}

func (e *Engine) stopTimersLocked() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	if e.resume != nil {
		e.resume.Stop()
		e.resume = nil
	}
}
