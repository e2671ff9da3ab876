package analytics

import "github.com/vytor/kukudrill/internal/models"

// OverallAccuracy is correct/attempts over all records, 0 when empty.
func OverallAccuracy(records []models.AttemptRecord) float64 {
	var t tally
	for _, r := range records {
		t.add(r)
	}
	return t.accuracy()
}

// Analyze builds a full per-user report. An empty input yields a zero Report
// with empty, non-nil lists.
func Analyze(records []models.AttemptRecord) models.Report {
	var total tally
	for _, r := range records {
		total.add(r)
	}

	facts := FactStats(records)
	dans := MultiplierStats(records)
	sessions := SessionSummaries(records)

	return models.Report{
		TotalAttempts:      total.attempts,
		OverallAccuracy:    total.accuracy(),
		AvgResponseTime:    total.avgMs(),
		PerFactStats:       facts,
		PerMultiplierStats: dans,
		SessionSummaries:   sessions,
		RecentSessions:     RecentSessions(sessions),
		WeakFacts:          WeakFacts(facts, ReportLimit),
		StrongFacts:        StrongFacts(facts, ReportLimit),
		SlowestFacts:       SlowestFacts(facts, ReportLimit),
		WeakMultipliers:    MissedMultipliers(dans, MultiplierLimit),
		StrongMultipliers:  StrongMultipliers(dans, MultiplierLimit),
	}
}
