// Package analytics aggregates attempt records into accuracy, timing and
// ranking statistics. Every function is pure and leaves its input untouched.
package analytics

import (
	"sort"

	"github.com/vytor/kukudrill/internal/models"
)

const (
	// ReportLimit caps the weak, strong and slowest fact lists in a Report.
	ReportLimit = 5
	// RecentLimit is how many sessions RecentSessions keeps.
	RecentLimit = 10
	// MinStrongAttempts is the attempt floor for a fact or multiplier to rank as strong.
	MinStrongAttempts = 3
	// MultiplierLimit caps the weak and strong multiplier lists.
	MultiplierLimit = 3
)

type tally struct {
	attempts int
	correct  int
	totalMs  int64
}

func (t *tally) add(r models.AttemptRecord) {
	t.attempts++
	if r.IsCorrect {
		t.correct++
	}
	t.totalMs += r.ResponseTimeMs
}

func (t tally) errorRate() float64 {
	if t.attempts == 0 {
		return 0
	}
	return float64(t.attempts-t.correct) / float64(t.attempts)
}

func (t tally) accuracy() float64 {
	if t.attempts == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.attempts)
}

func (t tally) avgMs() float64 {
	if t.attempts == 0 {
		return 0
	}
	return float64(t.totalMs) / float64(t.attempts)
}

// FactStats groups records by fact, ordered by multiplier then multiplicand.
func FactStats(records []models.AttemptRecord) []models.FactStat {
	byFact := make(map[models.Fact]*tally)
	for _, r := range records {
		t, ok := byFact[r.Fact]
		if !ok {
			t = &tally{}
			byFact[r.Fact] = t
		}
		t.add(r)
	}

	out := make([]models.FactStat, 0, len(byFact))
	for f, t := range byFact {
		out = append(out, models.FactStat{
			Fact:            f,
			Attempts:        t.attempts,
			Correct:         t.correct,
			ErrorRate:       t.errorRate(),
			AvgResponseTime: t.avgMs(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return factLess(out[i].Fact, out[j].Fact) })
	return out
}

func factLess(a, b models.Fact) bool {
	if a.Multiplier != b.Multiplier {
		return a.Multiplier < b.Multiplier
	}
	return a.Multiplicand < b.Multiplicand
}

// WeakFacts ranks by error rate, then slower average first. limit <= 0 keeps all.
func WeakFacts(stats []models.FactStat, limit int) []models.FactStat {
	out := clone(stats)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ErrorRate != b.ErrorRate {
			return a.ErrorRate > b.ErrorRate
		}
		if a.AvgResponseTime != b.AvgResponseTime {
			return a.AvgResponseTime > b.AvgResponseTime
		}
		return factLess(a.Fact, b.Fact)
	})
	return head(out, limit)
}

// StrongFacts ranks facts with at least MinStrongAttempts by lowest error
// rate, then faster average first.
func StrongFacts(stats []models.FactStat, limit int) []models.FactStat {
	out := make([]models.FactStat, 0, len(stats))
	for _, s := range stats {
		if s.Attempts >= MinStrongAttempts {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ErrorRate != b.ErrorRate {
			return a.ErrorRate < b.ErrorRate
		}
		if a.AvgResponseTime != b.AvgResponseTime {
			return a.AvgResponseTime < b.AvgResponseTime
		}
		return factLess(a.Fact, b.Fact)
	})
	return head(out, limit)
}

// SlowestFacts ranks by average response time, slowest first.
func SlowestFacts(stats []models.FactStat, limit int) []models.FactStat {
	out := clone(stats)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AvgResponseTime != b.AvgResponseTime {
			return a.AvgResponseTime > b.AvgResponseTime
		}
		return factLess(a.Fact, b.Fact)
	})
	return head(out, limit)
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func head[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
