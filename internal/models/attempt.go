package models

import (
	"fmt"
	"time"
)

const (
	MinFactor = 1
	MaxFactor = 9
)

// Fact is a multiplication pair. Multiplier is the "dan" used for grouping.
type Fact struct {
	Multiplier   int `json:"multiplier"`
	Multiplicand int `json:"multiplicand"`
}

// Product returns Multiplier × Multiplicand.
func (f Fact) Product() int {
	return f.Multiplier * f.Multiplicand
}

// Valid reports whether both factors are in [1,9].
func (f Fact) Valid() bool {
	return ValidFactor(f.Multiplier) && ValidFactor(f.Multiplicand)
}

func (f Fact) String() string {
	return fmt.Sprintf("%dx%d", f.Multiplier, f.Multiplicand)
}

// ValidFactor reports whether n is a usable multiplier or multiplicand.
func ValidFactor(n int) bool {
	return n >= MinFactor && n <= MaxFactor
}

// AttemptRecord is the immutable record of a single answered problem.
// Timestamp is Unix milliseconds; zero marks a legacy record without timing data.
type AttemptRecord struct {
	Fact
	IsCorrect      bool   `json:"is_correct"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Timestamp      int64  `json:"timestamp"`
	SessionID      string `json:"session_id"`
}

// HasTimestamp reports whether the record carries a real timestamp.
func (r AttemptRecord) HasTimestamp() bool {
	return r.Timestamp != 0
}

// Time converts Timestamp to a time.Time.
func (r AttemptRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// RecordFilter narrows record reads. Zero values mean "no filter".
type RecordFilter struct {
	UserID     string
	SessionID  string
	Multiplier int
	Since      *time.Time
	Limit      int
}
