package analytics

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vytor/kukudrill/internal/models"
)

// UnsetLabel names the cohort of users with no grade or class.
const UnsetLabel = "unset"

// Member is one user's contribution to a group report.
type Member struct {
	UserID     string
	TotalScore int
	Records    []models.AttemptRecord
}

// CohortMember is a Member labelled with the grade and class it belongs to.
type CohortMember struct {
	Member
	Grade string
	Class string
}

// AnalyzeGroup computes population averages and the weakest and strongest
// multipliers across every member's records combined.
func AnalyzeGroup(members []Member) models.GroupReport {
	report := models.GroupReport{
		UserCount:         len(members),
		WeakMultipliers:   []int{},
		StrongMultipliers: []int{},
	}
	if len(members) == 0 {
		return report
	}

	var (
		totalScore  int
		accuracySum float64
		withData    int
		combined    []models.AttemptRecord
	)
	for _, m := range members {
		totalScore += m.TotalScore
		if len(m.Records) == 0 {
			continue
		}
		accuracySum += OverallAccuracy(m.Records)
		withData++
		combined = append(combined, m.Records...)
	}

	report.AvgScore = float64(totalScore) / float64(len(members))
	if withData > 0 {
		report.AvgAccuracy = accuracySum / float64(withData)
	}
	report.WeakMultipliers, report.StrongMultipliers = rankByAccuracy(MultiplierStats(combined), MultiplierLimit)
	return report
}

// GradeCohorts partitions members by grade. Cohorts are ordered by label
// with UnsetLabel last.
func GradeCohorts(members []CohortMember) []models.CohortStat {
	groups := make(map[string][]Member)
	for _, m := range members {
		g := label(m.Grade)
		groups[g] = append(groups[g], m.Member)
	}

	out := make([]models.CohortStat, 0, len(groups))
	for g, ms := range groups {
		out = append(out, models.CohortStat{Grade: g, GroupReport: AnalyzeGroup(ms)})
	}
	sortCohorts(out, func(c models.CohortStat) string { return c.Grade })
	return out
}

// ClassCohorts partitions the members of one grade by class. grade may be
// UnsetLabel to address members without a grade.
func ClassCohorts(members []CohortMember, grade string) []models.CohortStat {
	groups := make(map[string][]Member)
	for _, m := range members {
		if label(m.Grade) != grade {
			continue
		}
		c := label(m.Class)
		groups[c] = append(groups[c], m.Member)
	}

	out := make([]models.CohortStat, 0, len(groups))
	for c, ms := range groups {
		out = append(out, models.CohortStat{Grade: grade, Class: c, GroupReport: AnalyzeGroup(ms)})
	}
	sortCohorts(out, func(c models.CohortStat) string { return c.Class })
	return out
}

func label(s string) string {
	if s == "" {
		return UnsetLabel
	}
	return s
}

// sortCohorts orders labels by Japanese collation, comparing digit runs
// numerically. UnsetLabel sorts last.
func sortCohorts(cs []models.CohortStat, key func(models.CohortStat) string) {
	col := collate.New(language.Japanese, collate.Numeric)
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := key(cs[i]), key(cs[j])
		if a == UnsetLabel || b == UnsetLabel {
			return b == UnsetLabel && a != UnsetLabel
		}
		return col.CompareString(a, b) < 0
	})
}
