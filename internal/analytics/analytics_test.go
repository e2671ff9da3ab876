package analytics_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kukudrill/internal/analytics"
	"github.com/vytor/kukudrill/internal/models"
)

func rec(m, k int, correct bool, ms int64) models.AttemptRecord {
	return models.AttemptRecord{
		Fact:           models.Fact{Multiplier: m, Multiplicand: k},
		IsCorrect:      correct,
		ResponseTimeMs: ms,
	}
}

func inSession(r models.AttemptRecord, id string, ts int64) models.AttemptRecord {
	r.SessionID = id
	r.Timestamp = ts
	return r
}

func TestAnalyze_Empty(t *testing.T) {
	report := analytics.Analyze(nil)

	assert.Zero(t, report.OverallAccuracy)
	assert.Zero(t, report.TotalAttempts)
	assert.NotNil(t, report.PerFactStats)
	assert.Empty(t, report.PerFactStats)
	assert.Empty(t, report.PerMultiplierStats)
	assert.Empty(t, report.SessionSummaries)
	assert.Empty(t, report.WeakFacts)
	assert.Empty(t, report.StrongFacts)
	assert.NotNil(t, report.RecentSessions)
}

func TestFactStats_SingleFact(t *testing.T) {
	records := []models.AttemptRecord{
		rec(3, 4, true, 100),
		rec(3, 4, false, 200),
		rec(3, 4, true, 150),
	}

	stats := analytics.FactStats(records)

	require.Len(t, stats, 1)
	s := stats[0]
	assert.Equal(t, models.Fact{Multiplier: 3, Multiplicand: 4}, s.Fact)
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, 2, s.Correct)
	assert.InDelta(t, 1.0/3.0, s.ErrorRate, 1e-9)
	assert.InDelta(t, 150.0, s.AvgResponseTime, 1e-9)
}

func TestFactStats_Ordering(t *testing.T) {
	records := []models.AttemptRecord{
		rec(7, 2, true, 1), rec(2, 9, true, 1), rec(2, 3, true, 1), rec(7, 1, true, 1),
	}

	stats := analytics.FactStats(records)

	var got []string
	for _, s := range stats {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"2x3", "2x9", "7x1", "7x2"}, got)
}

func TestWeakFacts_TieBreakBySlowerAverage(t *testing.T) {
	records := []models.AttemptRecord{
		rec(2, 2, false, 500), rec(2, 2, true, 500),
		rec(6, 7, false, 2500), rec(6, 7, true, 2500),
		rec(9, 9, false, 800),
	}

	weak := analytics.WeakFacts(analytics.FactStats(records), 0)

	require.Len(t, weak, 3)
	assert.Equal(t, "9x9", weak[0].String())
	assert.Equal(t, "6x7", weak[1].String(), "equal error rate, slower ranks weaker")
	assert.Equal(t, "2x2", weak[2].String())
}

func TestStrongFacts_RequireThreeAttempts(t *testing.T) {
	records := []models.AttemptRecord{
		rec(1, 1, true, 300), rec(1, 1, true, 300),
		rec(5, 5, true, 900), rec(5, 5, true, 900), rec(5, 5, true, 900),
		rec(4, 4, true, 400), rec(4, 4, true, 400), rec(4, 4, true, 400),
		rec(8, 7, false, 100), rec(8, 7, true, 100), rec(8, 7, true, 100),
	}

	strong := analytics.StrongFacts(analytics.FactStats(records), 0)

	var got []string
	for _, s := range strong {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"4x4", "5x5", "8x7"}, got)
}

func TestSlowestFacts(t *testing.T) {
	records := []models.AttemptRecord{
		rec(1, 2, true, 100), rec(3, 3, true, 3000), rec(6, 8, true, 1500),
	}

	slow := analytics.SlowestFacts(analytics.FactStats(records), 2)

	require.Len(t, slow, 2)
	assert.Equal(t, "3x3", slow[0].String())
	assert.Equal(t, "6x8", slow[1].String())
}

func TestMultiplierStats(t *testing.T) {
	records := []models.AttemptRecord{
		rec(7, 1, true, 100), rec(7, 8, false, 300), rec(2, 2, true, 50),
	}

	stats := analytics.MultiplierStats(records)

	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].Multiplier)
	assert.Equal(t, 7, stats[1].Multiplier)
	assert.Equal(t, 2, stats[1].Attempts)
	assert.InDelta(t, 0.5, stats[1].Accuracy, 1e-9)
	assert.InDelta(t, 200.0, stats[1].AvgResponseTime, 1e-9)
}

func TestSessionSummaries(t *testing.T) {
	records := []models.AttemptRecord{
		inSession(rec(2, 2, true, 100), "a", 2000),
		inSession(rec(2, 3, false, 300), "a", 1000),
		inSession(rec(4, 4, true, 200), "b", 5000),
		inSession(rec(4, 5, true, 200), "c", 5000),
	}

	sums := analytics.SessionSummaries(records)

	require.Len(t, sums, 3)
	assert.Equal(t, "b", sums[0].SessionID)
	assert.Equal(t, "c", sums[1].SessionID, "same timestamp falls back to id order")
	assert.Equal(t, "a", sums[2].SessionID)
	assert.Equal(t, int64(1000), sums[2].Timestamp, "earliest record wins")
	assert.Equal(t, 2, sums[2].TotalCount)
	assert.Equal(t, 1, sums[2].CorrectCount)
	assert.InDelta(t, 0.5, sums[2].Accuracy, 1e-9)
}

func TestRecentSessions_KeepsTenNewest(t *testing.T) {
	var records []models.AttemptRecord
	for i := 0; i < 15; i++ {
		records = append(records, inSession(rec(3, 3, true, 100), fmt.Sprintf("s%02d", i), int64(1000*i)))
	}

	recent := analytics.Analyze(records).RecentSessions

	require.Len(t, recent, analytics.RecentLimit)
	assert.Equal(t, "s14", recent[0].SessionID)
	assert.Equal(t, "s05", recent[9].SessionID)
}

func TestAnalyze_MultiplierRankings(t *testing.T) {
	records := []models.AttemptRecord{
		rec(3, 1, false, 1), rec(3, 2, false, 1), rec(3, 3, true, 1),
		rec(6, 1, false, 1), rec(6, 2, true, 1), rec(6, 3, true, 1),
		rec(9, 1, true, 1), rec(9, 2, true, 1), rec(9, 3, true, 1),
		rec(1, 1, true, 1),
	}

	report := analytics.Analyze(records)

	require.Len(t, report.WeakMultipliers, 2, "only missed multipliers")
	assert.Equal(t, 3, report.WeakMultipliers[0].Multiplier)
	assert.Equal(t, 6, report.WeakMultipliers[1].Multiplier)

	require.Len(t, report.StrongMultipliers, 3, "multiplier 1 lacks attempts")
	assert.Equal(t, []int{9, 6, 3}, []int{
		report.StrongMultipliers[0].Multiplier,
		report.StrongMultipliers[1].Multiplier,
		report.StrongMultipliers[2].Multiplier,
	})
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	records := []models.AttemptRecord{
		inSession(rec(9, 9, true, 900), "b", 2),
		inSession(rec(1, 1, false, 100), "a", 1),
	}
	before := append([]models.AttemptRecord(nil), records...)

	_ = analytics.Analyze(records)
	_ = analytics.AnalyzeGroup([]analytics.Member{{Records: records}})

	assert.Equal(t, before, records)
}

func TestAnalyzeGroup_SingleMemberMatchesAnalyze(t *testing.T) {
	records := []models.AttemptRecord{
		rec(2, 2, true, 1), rec(2, 3, false, 1), rec(5, 5, true, 1), rec(8, 8, false, 1), rec(8, 9, true, 1),
	}

	report := analytics.Analyze(records)
	group := analytics.AnalyzeGroup([]analytics.Member{{UserID: "u", Records: records}})

	assert.InDelta(t, report.OverallAccuracy, group.AvgAccuracy, 1e-12)
}

func TestAnalyzeGroup(t *testing.T) {
	members := []analytics.Member{
		{UserID: "a", TotalScore: 100, Records: []models.AttemptRecord{rec(2, 1, true, 1), rec(7, 1, false, 1)}},
		{UserID: "b", TotalScore: 50, Records: []models.AttemptRecord{rec(2, 2, true, 1), rec(4, 1, true, 1), rec(7, 2, true, 1), rec(9, 9, false, 1)}},
		{UserID: "c", TotalScore: 30},
	}

	group := analytics.AnalyzeGroup(members)

	assert.Equal(t, 3, group.UserCount)
	assert.InDelta(t, 60.0, group.AvgScore, 1e-9, "score averages over every member")
	assert.InDelta(t, (0.5+0.75)/2, group.AvgAccuracy, 1e-9, "accuracy skips members without records")
	// Combined accuracy: 2 -> 1.0, 4 -> 1.0, 7 -> 0.5, 9 -> 0.0
	assert.Equal(t, []int{9, 7, 2}, group.WeakMultipliers)
	assert.Equal(t, []int{2, 4, 7}, group.StrongMultipliers)
}

func TestAnalyzeGroup_Empty(t *testing.T) {
	group := analytics.AnalyzeGroup(nil)

	assert.Zero(t, group.UserCount)
	assert.Zero(t, group.AvgScore)
	assert.Zero(t, group.AvgAccuracy)
	assert.Empty(t, group.WeakMultipliers)
	assert.NotNil(t, group.StrongMultipliers)
}
