package analytics

import (
	"sort"

	"github.com/vytor/kukudrill/internal/models"
)

// MultiplierStats groups records by multiplier ("dan"), in ascending order.
func MultiplierStats(records []models.AttemptRecord) []models.MultiplierStat {
	byDan := make(map[int]*tally)
	for _, r := range records {
		t, ok := byDan[r.Multiplier]
		if !ok {
			t = &tally{}
			byDan[r.Multiplier] = t
		}
		t.add(r)
	}

	out := make([]models.MultiplierStat, 0, len(byDan))
	for m, t := range byDan {
		out = append(out, models.MultiplierStat{
			Multiplier:      m,
			Attempts:        t.attempts,
			Correct:         t.correct,
			Accuracy:        t.accuracy(),
			ErrorRate:       t.errorRate(),
			AvgResponseTime: t.avgMs(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Multiplier < out[j].Multiplier })
	return out
}

// StrongMultipliers keeps multipliers with at least MinStrongAttempts,
// highest accuracy first.
func StrongMultipliers(stats []models.MultiplierStat, limit int) []models.MultiplierStat {
	out := make([]models.MultiplierStat, 0, len(stats))
	for _, s := range stats {
		if s.Attempts >= MinStrongAttempts {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy > out[j].Accuracy
		}
		return out[i].Multiplier < out[j].Multiplier
	})
	return head(out, limit)
}

// MissedMultipliers ranks multipliers by miss count, most missed first.
// Multipliers never missed are left out.
func MissedMultipliers(stats []models.MultiplierStat, limit int) []models.MultiplierStat {
	out := make([]models.MultiplierStat, 0, len(stats))
	for _, s := range stats {
		if s.Attempts > s.Correct {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := out[i].Attempts-out[i].Correct, out[j].Attempts-out[j].Correct
		if mi != mj {
			return mi > mj
		}
		return out[i].Multiplier < out[j].Multiplier
	})
	return head(out, limit)
}

// rankByAccuracy returns the lowest and highest accuracy multipliers.
// Ties are broken by multiplier ascending in both lists.
func rankByAccuracy(stats []models.MultiplierStat, limit int) (weak, strong []int) {
	asc := clone(stats)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].Accuracy != asc[j].Accuracy {
			return asc[i].Accuracy < asc[j].Accuracy
		}
		return asc[i].Multiplier < asc[j].Multiplier
	})
	desc := clone(stats)
	sort.SliceStable(desc, func(i, j int) bool {
		if desc[i].Accuracy != desc[j].Accuracy {
			return desc[i].Accuracy > desc[j].Accuracy
		}
		return desc[i].Multiplier < desc[j].Multiplier
	})

	weak = make([]int, 0, limit)
	for _, s := range head(asc, limit) {
		weak = append(weak, s.Multiplier)
	}
	strong = make([]int, 0, limit)
	for _, s := range head(desc, limit) {
		strong = append(strong, s.Multiplier)
	}
	return weak, strong
}
