package analytics

import (
	"sort"

	"github.com/vytor/kukudrill/internal/models"
)

// SessionSummaries groups records by session id, newest session first.
// A summary's timestamp is the earliest timestamp among its records.
func SessionSummaries(records []models.AttemptRecord) []models.SessionSummary {
	type acc struct {
		tally
		first int64
	}
	bySession := make(map[string]*acc)
	for _, r := range records {
		a, ok := bySession[r.SessionID]
		if !ok {
			a = &acc{first: r.Timestamp}
			bySession[r.SessionID] = a
		}
		a.add(r)
		if r.Timestamp < a.first {
			a.first = r.Timestamp
		}
	}

	out := make([]models.SessionSummary, 0, len(bySession))
	for id, a := range bySession {
		out = append(out, models.SessionSummary{
			SessionID:       id,
			Timestamp:       a.first,
			CorrectCount:    a.correct,
			TotalCount:      a.attempts,
			Accuracy:        a.accuracy(),
			AvgResponseTime: a.avgMs(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}

// RecentSessions returns the RecentLimit newest summaries. summaries must
// already be ordered newest first, as SessionSummaries returns them.
func RecentSessions(summaries []models.SessionSummary) []models.SessionSummary {
	return clone(head(summaries, RecentLimit))
}
