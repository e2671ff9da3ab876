package models

// SessionResult is the completion summary handed to the owner of a session
// once its timer runs out.
type SessionResult struct {
	SessionID       string          `json:"session_id"`
	CorrectCount    int             `json:"correct_count"`
	Score           int             `json:"score"`
	MaxComboReached int             `json:"max_combo_reached"`
	History         []AttemptRecord `json:"history"`
}

// Attempts returns the number of answered problems.
func (r SessionResult) Attempts() int {
	return len(r.History)
}
