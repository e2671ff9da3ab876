package drill

import "math"

const (
	BaseScore       = 10
	LevelMultiplier = 1.5
	// LevelUpEvery consecutive correct answers raise the combo level by one.
	LevelUpEvery = 2
	// LevelDrop is how many combo levels a miss costs.
	LevelDrop = 3
	// PenaltySeconds is removed from the session clock on a miss.
	PenaltySeconds = 5
)

// PointsForLevel returns ceil(BaseScore * 1.5^level). Negative levels score as 0.
// Values beyond the int range saturate at math.MaxInt.
func PointsForLevel(level int) int {
	if level < 0 {
		level = 0
	}
	points := math.Ceil(BaseScore * math.Pow(LevelMultiplier, float64(level)))
	if points >= math.MaxInt {
		return math.MaxInt
	}
	return int(points)
}

// AddPoints adds gain to score, saturating at math.MaxInt.
func AddPoints(score, gain int) int {
	if gain > 0 && score > math.MaxInt-gain {
		return math.MaxInt
	}
	return score + gain
}

// Combo tracks the streak-driven score multiplier.
type Combo struct {
	Level       int `json:"level"`
	Consecutive int `json:"consecutive"`
	MaxLevel    int `json:"max_level"`
}

// Correct applies the level-up rule and reports whether the level rose.
func (c Combo) Correct() (Combo, bool) {
	c.Consecutive++
	if c.Consecutive < LevelUpEvery {
		return c, false
	}
	c.Level++
	c.Consecutive = 0
	if c.Level > c.MaxLevel {
		c.MaxLevel = c.Level
	}
	return c, true
}

// Miss resets the streak and drops the level, floored at zero.
func (c Combo) Miss() Combo {
	c.Consecutive = 0
	c.Level -= LevelDrop
	if c.Level < 0 {
		c.Level = 0
	}
	return c
}

// PenalizeTime subtracts PenaltySeconds, floored at zero.
func PenalizeTime(remaining int) int {
	remaining -= PenaltySeconds
	if remaining < 0 {
		return 0
	}
	return remaining
}
