package models

// FactStat aggregates all attempts at one multiplication fact.
type FactStat struct {
	Fact
	Attempts        int     `json:"attempts"`
	Correct         int     `json:"correct"`
	ErrorRate       float64 `json:"error_rate"`
	AvgResponseTime float64 `json:"avg_response_time_ms"`
}

// MultiplierStat aggregates attempts by multiplier ("dan").
type MultiplierStat struct {
	Multiplier      int     `json:"multiplier"`
	Attempts        int     `json:"attempts"`
	Correct         int     `json:"correct"`
	Accuracy        float64 `json:"accuracy"`
	ErrorRate       float64 `json:"error_rate"`
	AvgResponseTime float64 `json:"avg_response_time_ms"`
}

// SessionSummary aggregates the attempts sharing one session id.
// Timestamp is the earliest record timestamp in the session.
type SessionSummary struct {
	SessionID       string  `json:"session_id"`
	Timestamp       int64   `json:"timestamp"`
	CorrectCount    int     `json:"correct_count"`
	TotalCount      int     `json:"total_count"`
	Accuracy        float64 `json:"accuracy"`
	AvgResponseTime float64 `json:"avg_response_time_ms"`
}

// Report is the per-user analytics result.
type Report struct {
	TotalAttempts      int              `json:"total_attempts"`
	OverallAccuracy    float64          `json:"overall_accuracy"`
	AvgResponseTime    float64          `json:"avg_response_time_ms"`
	PerFactStats       []FactStat       `json:"per_fact_stats"`
	PerMultiplierStats []MultiplierStat `json:"per_multiplier_stats"`
	SessionSummaries   []SessionSummary `json:"session_summaries"`
	RecentSessions     []SessionSummary `json:"recent_sessions"`
	WeakFacts          []FactStat       `json:"weak_facts"`
	StrongFacts        []FactStat       `json:"strong_facts"`
	SlowestFacts       []FactStat       `json:"slowest_facts"`
	WeakMultipliers    []MultiplierStat `json:"weak_multipliers"`
	StrongMultipliers  []MultiplierStat `json:"strong_multipliers"`
}

// GroupReport is the population-level result over several users.
type GroupReport struct {
	UserCount         int     `json:"user_count"`
	AvgScore          float64 `json:"avg_score"`
	AvgAccuracy       float64 `json:"avg_accuracy"`
	WeakMultipliers   []int   `json:"weak_multipliers"`
	StrongMultipliers []int   `json:"strong_multipliers"`
}

// CohortStat is a GroupReport labelled with the grade (and class) it covers.
type CohortStat struct {
	Grade string `json:"grade"`
	Class string `json:"class,omitempty"`
	GroupReport
}
