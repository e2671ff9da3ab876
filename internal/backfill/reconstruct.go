// Package backfill synthesizes timestamps and session ids for attempt
// records stored before either was captured.
package backfill

import (
	"time"

	"github.com/google/uuid"
	"github.com/vytor/kukudrill/internal/models"
)

// The legacy layout: sessions of up to RecordsPerSession answers, each
// session occupying SessionSpan, answers SpacePerRecord apart.
const (
	RecordsPerSession = 10
	SessionSpan       = 5 * time.Minute
	SpacePerRecord    = 30 * time.Second
)

// IDSource produces a fresh session id per reconstructed partition.
type IDSource func() string

// NeedsBackfill reports whether records look like legacy data.
func NeedsBackfill(records []models.AttemptRecord) bool {
	return len(records) > 0 && !records[0].HasTimestamp()
}

// SplitLegacy separates the leading run of records without a timestamp from
// the records after it. Both results share the input's backing array.
func SplitLegacy(records []models.AttemptRecord) (legacy, rest []models.AttemptRecord) {
	n := 0
	for n < len(records) && !records[n].HasTimestamp() {
		n++
	}
	return records[:n:n], records[n:]
}

// Reconstruct returns a copy of records with synthetic timestamps and session
// ids. Sessions are packed back to back so the last one starts at end; the
// result is approximate and only fit for display. Records that already carry
// a timestamp are returned unchanged.
func Reconstruct(records []models.AttemptRecord, end time.Time, ids IDSource) []models.AttemptRecord {
	out := make([]models.AttemptRecord, len(records))
	copy(out, records)
	if !NeedsBackfill(records) {
		return out
	}
	if ids == nil {
		ids = uuid.NewString
	}

	sessions := (len(out) + RecordsPerSession - 1) / RecordsPerSession
	var (
		sessionID string
		start     time.Time
	)
	for i := range out {
		if i%RecordsPerSession == 0 {
			k := i / RecordsPerSession
			start = end.Add(-time.Duration(sessions-k-1) * SessionSpan)
			sessionID = ids()
		}
		out[i].Timestamp = start.Add(time.Duration(i%RecordsPerSession) * SpacePerRecord).UnixMilli()
		out[i].SessionID = sessionID
	}
	return out
}
