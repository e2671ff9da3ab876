package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kukudrill/internal/clock/clocktest"
	"github.com/vytor/kukudrill/internal/drill"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/session"
)

type recorder struct {
	problems  []drill.Problem
	feedback  []session.Feedback
	records   []models.AttemptRecord
	completed []models.SessionResult
}

func (r *recorder) hooks() session.Hooks {
	return session.Hooks{
		OnProblem:  func(p drill.Problem) { r.problems = append(r.problems, p) },
		OnFeedback: func(f session.Feedback) { r.feedback = append(r.feedback, f) },
		OnRecord:   func(rec models.AttemptRecord) { r.records = append(r.records, rec) },
		OnComplete: func(res models.SessionResult) { r.completed = append(r.completed, res) },
	}
}

func newEngine(budget int) (*session.Engine, *clocktest.Fake, *recorder, *scriptedGen) {
	clk := clocktest.New(t0)
	rec := &recorder{}
	gen := newGen()
	e := session.NewEngine(session.Config{SessionID: "s-1", BudgetSeconds: budget}, gen, clk, rec.hooks())
	return e, clk, rec, gen
}

func TestEngine_RunsToCompletion(t *testing.T) {
	e, clk, rec, _ := newEngine(40)
	e.Start()
	require.Len(t, rec.problems, 1)

	clk.Advance(39 * time.Second)
	assert.False(t, e.Done())
	assert.Equal(t, 1, e.Snapshot().TimeRemaining)

	clk.Advance(time.Second)
	assert.True(t, e.Done())
	require.Len(t, rec.completed, 1)
	assert.Equal(t, "s-1", rec.completed[0].SessionID)
	assert.Equal(t, 0, clk.Pending(), "timers stopped on completion")

	clk.Advance(10 * time.Second)
	assert.Len(t, rec.completed, 1)
}

func TestEngine_StartIsIdempotent(t *testing.T) {
	e, clk, rec, gen := newEngine(40)
	e.Start()
	e.Start()

	assert.Len(t, rec.problems, 1)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, clk.Pending())
}

func TestEngine_SubmitBeforeStartIsIgnored(t *testing.T) {
	e, _, rec, _ := newEngine(40)

	assert.False(t, e.Submit(12))
	assert.Empty(t, rec.records)
}

func TestEngine_CorrectAnswerShowsNextProblemAfterDelay(t *testing.T) {
	e, clk, rec, _ := newEngine(40)
	e.Start()
	answer := rec.problems[0].Answer

	clk.Advance(500 * time.Millisecond)
	assert.True(t, e.Submit(answer))
	assert.False(t, e.Submit(answer), "ignored while feedback is showing")

	require.Len(t, rec.feedback, 1)
	assert.True(t, rec.feedback[0].Correct)
	require.Len(t, rec.records, 1)
	assert.Equal(t, int64(500), rec.records[0].ResponseTimeMs)
	assert.Equal(t, session.PhaseEvaluating, e.Snapshot().Phase)

	clk.Advance(299 * time.Millisecond)
	assert.Len(t, rec.problems, 1)

	clk.Advance(time.Millisecond)
	require.Len(t, rec.problems, 2)
	assert.NotEqual(t, rec.problems[0].Fact, rec.problems[1].Fact)
	assert.Equal(t, session.PhaseActive, e.Snapshot().Phase)
}

func TestEngine_MissPenalizesAndRepeatsProblem(t *testing.T) {
	e, clk, rec, gen := newEngine(40)
	e.Start()
	p := rec.problems[0]

	assert.True(t, e.Submit(p.Answer+1))
	assert.Equal(t, 35, e.Snapshot().TimeRemaining)

	clk.Advance(600 * time.Millisecond)
	require.Len(t, rec.problems, 2)
	assert.Equal(t, p, rec.problems[1])
	assert.Equal(t, 1, gen.calls)

	clk.Advance(400 * time.Millisecond)
	assert.Equal(t, 34, e.Snapshot().TimeRemaining)
}

func TestEngine_CompletionCancelsPendingResume(t *testing.T) {
	e, clk, rec, _ := newEngine(1)
	e.Start()

	clk.Advance(900 * time.Millisecond)
	require.True(t, e.Submit(rec.problems[0].Answer))

	clk.Advance(100 * time.Millisecond)
	require.Len(t, rec.completed, 1)
	assert.Equal(t, 1, rec.completed[0].CorrectCount)
	assert.Equal(t, 10, rec.completed[0].Score)

	clk.Advance(time.Second)
	assert.Len(t, rec.problems, 1, "no problem shown after completion")
	assert.Len(t, rec.completed, 1)
}

func TestEngine_PenaltyCompletesImmediately(t *testing.T) {
	e, clk, rec, _ := newEngine(5)
	e.Start()

	require.True(t, e.Submit(rec.problems[0].Answer+1))

	assert.True(t, e.Done())
	require.Len(t, rec.completed, 1)
	assert.Len(t, rec.completed[0].History, 1)
	assert.Equal(t, 0, clk.Pending())
}

func TestEngine_AbandonStopsEverything(t *testing.T) {
	e, clk, rec, _ := newEngine(40)
	e.Start()
	require.True(t, e.Submit(rec.problems[0].Answer))

	e.Abandon()
	e.Abandon()
	clk.Advance(time.Minute)

	assert.Equal(t, 0, clk.Pending())
	assert.Len(t, rec.problems, 1)
	assert.Empty(t, rec.completed)
	assert.False(t, e.Submit(1))
	assert.Len(t, e.Snapshot().History, 1)
}

func TestEngine_SnapshotIsACopy(t *testing.T) {
	e, _, rec, _ := newEngine(40)
	e.Start()
	require.True(t, e.Submit(rec.problems[0].Answer))

	snap := e.Snapshot()
	snap.History[0].IsCorrect = false

	assert.True(t, e.Snapshot().History[0].IsCorrect)
}
