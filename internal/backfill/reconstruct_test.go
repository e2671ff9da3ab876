package backfill_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kukudrill/internal/backfill"
	"github.com/vytor/kukudrill/internal/models"
)

var end = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

func legacy(n int) []models.AttemptRecord {
	out := make([]models.AttemptRecord, n)
	for i := range out {
		out[i] = models.AttemptRecord{
			Fact:      models.Fact{Multiplier: i%9 + 1, Multiplicand: (i*7)%9 + 1},
			IsCorrect: i%3 != 0,
		}
	}
	return out
}

func sequentialIDs() backfill.IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("legacy-%d", n)
	}
}

func TestReconstruct_PartitionsIntoSessions(t *testing.T) {
	in := legacy(23)
	out := backfill.Reconstruct(in, end, sequentialIDs())
	require.Len(t, out, 23)

	sizes := map[string]int{}
	var order []string
	for _, r := range out {
		if sizes[r.SessionID] == 0 {
			order = append(order, r.SessionID)
		}
		sizes[r.SessionID]++
	}
	assert.Equal(t, []string{"legacy-1", "legacy-2", "legacy-3"}, order)
	assert.Equal(t, 10, sizes["legacy-1"])
	assert.Equal(t, 10, sizes["legacy-2"])
	assert.Equal(t, 3, sizes["legacy-3"])
}

func TestReconstruct_Timestamps(t *testing.T) {
	out := backfill.Reconstruct(legacy(23), end, sequentialIDs())

	assert.Equal(t, end.Add(-10*time.Minute).UnixMilli(), out[0].Timestamp)
	assert.Equal(t, end.Add(-10*time.Minute+9*30*time.Second).UnixMilli(), out[9].Timestamp)
	assert.Equal(t, end.Add(-5*time.Minute).UnixMilli(), out[10].Timestamp)
	assert.Equal(t, end.UnixMilli(), out[20].Timestamp)
	assert.Equal(t, end.Add(time.Minute).UnixMilli(), out[22].Timestamp)

	for i := 1; i < len(out); i++ {
		if out[i].SessionID == out[i-1].SessionID {
			assert.LessOrEqual(t, out[i-1].Timestamp, out[i].Timestamp)
		}
	}
}

func TestReconstruct_KeepsOutcomes(t *testing.T) {
	in := legacy(12)
	out := backfill.Reconstruct(in, end, sequentialIDs())

	for i := range in {
		assert.Equal(t, in[i].Fact, out[i].Fact)
		assert.Equal(t, in[i].IsCorrect, out[i].IsCorrect)
		assert.Equal(t, in[i].ResponseTimeMs, out[i].ResponseTimeMs)
	}
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	in := legacy(5)
	_ = backfill.Reconstruct(in, end, sequentialIDs())

	for _, r := range in {
		assert.Zero(t, r.Timestamp)
		assert.Empty(t, r.SessionID)
	}
}

func TestReconstruct_NoOpWhenTimestamped(t *testing.T) {
	in := legacy(3)
	in[0].Timestamp = 1700000000000
	in[0].SessionID = "real"

	out := backfill.Reconstruct(in, end, func() string {
		t.Fatal("ids must not be drawn")
		return ""
	})

	assert.Equal(t, in, out)
}

func TestReconstruct_Empty(t *testing.T) {
	out := backfill.Reconstruct(nil, end, nil)
	assert.Empty(t, out)
	assert.False(t, backfill.NeedsBackfill(nil))
}

func TestReconstruct_DefaultIDsAreUnique(t *testing.T) {
	out := backfill.Reconstruct(legacy(30), end, nil)

	ids := map[string]bool{}
	for _, r := range out {
		require.NotEmpty(t, r.SessionID)
		ids[r.SessionID] = true
	}
	assert.Len(t, ids, 3)
}

func TestSplitLegacy(t *testing.T) {
	played := models.AttemptRecord{Fact: models.Fact{Multiplier: 2, Multiplicand: 3}, Timestamp: 5000, SessionID: "s1"}
	records := []models.AttemptRecord{
		{Fact: models.Fact{Multiplier: 4, Multiplicand: 4}},
		{Fact: models.Fact{Multiplier: 5, Multiplicand: 1}},
		played,
	}

	legacy, rest := backfill.SplitLegacy(records)
	assert.Len(t, legacy, 2)
	assert.Equal(t, []models.AttemptRecord{played}, rest)

	legacy, rest = backfill.SplitLegacy([]models.AttemptRecord{played})
	assert.Empty(t, legacy)
	assert.Len(t, rest, 1)
}
