package models

import "time"

// DateLayout is the calendar-day format used for LastDate.
const DateLayout = "2006-01-02"

// Progress holds per-user accumulators updated after each completed session.
type Progress struct {
	UserID             string      `json:"user_id"`
	TodayCount         int         `json:"today_count"`
	ConsecutiveDays    int         `json:"consecutive_days"`
	LastDate           string      `json:"last_date"`
	TotalScore         int         `json:"total_score"`
	HighScore          int         `json:"high_score"`
	MultiplierMistakes map[int]int `json:"multiplier_mistakes"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type LeaderboardKind string

const (
	LeaderboardStreak     LeaderboardKind = "streak"
	LeaderboardTotalScore LeaderboardKind = "total-score"
	LeaderboardHighScore  LeaderboardKind = "high-score"
)

// Valid reports whether k names a known leaderboard.
func (k LeaderboardKind) Valid() bool {
	switch k {
	case LeaderboardStreak, LeaderboardTotalScore, LeaderboardHighScore:
		return true
	}
	return false
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Value    int    `json:"value"`
}
