// Package session runs one timed drill: a pure state machine (Step) and an
// Engine that feeds it ticks, answers and feedback-delay expiries.
package session

import (
	"time"

	"github.com/vytor/kukudrill/internal/drill"
	"github.com/vytor/kukudrill/internal/models"
)

const (
	DefaultBudgetSeconds = 40
	// CorrectDelay is how long feedback stays up before the next problem.
	CorrectDelay = 300 * time.Millisecond
	// MissDelay is how long feedback stays up before the same problem returns.
	MissDelay = 600 * time.Millisecond
)

type Phase int

const (
	PhaseActive Phase = iota
	PhaseEvaluating
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ProblemSource generates problems. *drill.Generator satisfies it.
type ProblemSource interface {
	Generate(allowed []int) drill.Problem
}

// State is the complete mutable state of one session. Step never mutates
// the State it is given.
type State struct {
	SessionID     string
	Phase         Phase
	TimeRemaining int
	Combo         drill.Combo
	Score         int
	CorrectCount  int
	Allowed       []int
	Problem       drill.Problem
	ShownAt       time.Time
	History       []models.AttemptRecord

	// advance is set while evaluating a correct answer: Resume draws a new problem.
	advance bool
}

// Result converts the state into a completion summary.
func (s State) Result() models.SessionResult {
	return models.SessionResult{
		SessionID:       s.SessionID,
		CorrectCount:    s.CorrectCount,
		Score:           s.Score,
		MaxComboReached: s.Combo.MaxLevel,
		History:         s.historyCopy(),
	}
}

func (s State) historyCopy() []models.AttemptRecord {
	out := make([]models.AttemptRecord, len(s.History))
	copy(out, s.History)
	return out
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s State) Clone() State {
	s.History = s.historyCopy()
	s.Allowed = append([]int(nil), s.Allowed...)
	return s
}

type Event interface{ isEvent() }

// Tick is one elapsed second.
type Tick struct{}

// Submit is the player's choice, received at At.
type Submit struct {
	Choice int
	At     time.Time
}

// Resume fires when the feedback delay has elapsed.
type Resume struct {
	At time.Time
}

func (Tick) isEvent()   {}
func (Submit) isEvent() {}
func (Resume) isEvent() {}

type Effect interface{ isEffect() }

// ShowProblem asks the owner to display a problem.
type ShowProblem struct {
	Problem drill.Problem
}

// Record carries the attempt appended to History.
type Record struct {
	Record models.AttemptRecord
}

// Feedback reports the outcome of an answer.
type Feedback struct {
	Correct   bool `json:"correct"`
	ScoreGain int  `json:"score_gain"`
	LeveledUp bool `json:"leveled_up"`
	Answer    int  `json:"answer"`
}

// ScheduleResume asks the owner to deliver Resume after Delay.
type ScheduleResume struct {
	Delay time.Duration
}

// Complete is emitted exactly once, on entering PhaseComplete.
type Complete struct {
	Result models.SessionResult
}

func (ShowProblem) isEffect()    {}
func (Record) isEffect()         {}
func (Feedback) isEffect()       {}
func (ScheduleResume) isEffect() {}
func (Complete) isEffect()       {}

// Begin creates the initial Active state with a fresh problem shown at now.
func Begin(sessionID string, budgetSeconds int, allowed []int, gen ProblemSource, now time.Time) (State, []Effect) {
	if budgetSeconds <= 0 {
		budgetSeconds = DefaultBudgetSeconds
	}
	s := State{
		SessionID:     sessionID,
		Phase:         PhaseActive,
		TimeRemaining: budgetSeconds,
		Allowed:       append([]int(nil), allowed...),
		Problem:       gen.Generate(allowed),
		ShownAt:       now,
	}
	return s, []Effect{ShowProblem{Problem: s.Problem}}
}

// Step applies one event. Events that are not valid in the current phase
// leave the state unchanged and produce no effects.
func Step(s State, ev Event, gen ProblemSource) (State, []Effect) {
	if s.Phase == PhaseComplete {
		return s, nil
	}

	switch ev := ev.(type) {
	case Tick:
		return tick(s)
	case Submit:
		if s.Phase != PhaseActive {
			return s, nil
		}
		return submit(s, ev)
	case Resume:
		if s.Phase != PhaseEvaluating {
			return s, nil
		}
		return resume(s, ev, gen)
	}
	return s, nil
}

func tick(s State) (State, []Effect) {
	s.TimeRemaining--
	if s.TimeRemaining > 0 {
		return s, nil
	}
	s.TimeRemaining = 0
	return complete(s, nil)
}

func submit(s State, ev Submit) (State, []Effect) {
	elapsed := ev.At.Sub(s.ShownAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	correct := s.Problem.IsCorrect(ev.Choice)
	rec := models.AttemptRecord{
		Fact:           s.Problem.Fact,
		IsCorrect:      correct,
		ResponseTimeMs: elapsed,
		Timestamp:      ev.At.UnixMilli(),
		SessionID:      s.SessionID,
	}
	// Full slice expression forces a fresh backing array.
	s.History = append(s.History[:len(s.History):len(s.History)], rec)
	s.Phase = PhaseEvaluating

	fb := Feedback{Correct: correct, Answer: s.Problem.Answer}
	if correct {
		s.CorrectCount++
		s.Combo, fb.LeveledUp = s.Combo.Correct()
		fb.ScoreGain = drill.PointsForLevel(s.Combo.Level)
		s.Score = drill.AddPoints(s.Score, fb.ScoreGain)
		s.advance = true
		return s, []Effect{Record{Record: rec}, fb, ScheduleResume{Delay: CorrectDelay}}
	}

	s.Combo = s.Combo.Miss()
	s.TimeRemaining = drill.PenalizeTime(s.TimeRemaining)
	s.advance = false
	effects := []Effect{Record{Record: rec}, fb}
	if s.TimeRemaining == 0 {
		return complete(s, effects)
	}
	return s, append(effects, ScheduleResume{Delay: MissDelay})
}

func resume(s State, ev Resume, gen ProblemSource) (State, []Effect) {
	s.Phase = PhaseActive
	if s.advance {
		s.advance = false
		s.Problem = gen.Generate(s.Allowed)
		s.ShownAt = ev.At
	}
	// After a miss the same problem returns and its response time keeps
	// counting from the first display.
	return s, []Effect{ShowProblem{Problem: s.Problem}}
}

func complete(s State, effects []Effect) (State, []Effect) {
	s.Phase = PhaseComplete
	s.advance = false
	return s, append(effects, Complete{Result: s.Result()})
}
