package drill_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kukudrill/internal/drill"
	"github.com/vytor/kukudrill/internal/models"
)

// constRand always returns the same draw, clamped to the requested range.
type constRand int

func (c constRand) Intn(n int) int {
	if int(c) >= n {
		return n - 1
	}
	return int(c)
}

func assertWellFormed(t *testing.T, p drill.Problem) {
	t.Helper()
	require.True(t, p.Fact.Valid(), "fact out of range: %v", p.Fact)
	assert.Equal(t, p.Fact.Product(), p.Answer)

	seen := map[int]bool{}
	matches := 0
	for _, c := range p.Choices {
		assert.GreaterOrEqual(t, c, 1)
		assert.LessOrEqual(t, c, drill.MaxAnswer)
		assert.False(t, seen[c], "duplicate choice %d in %v", c, p.Choices)
		seen[c] = true
		if c == p.Answer {
			matches++
		}
	}
	assert.Equal(t, 1, matches, "exactly one choice must be the answer")
}

func TestGenerate_ChoicesAreDistinctAndContainAnswer(t *testing.T) {
	gen := drill.NewGenerator(rand.New(rand.NewSource(42)))
	for i := 0; i < 5000; i++ {
		assertWellFormed(t, gen.Generate(nil))
	}
}

func TestGenerate_DistractorsStayWithinOffset(t *testing.T) {
	gen := drill.NewGenerator(rand.New(rand.NewSource(7)))
	for i := 0; i < 1000; i++ {
		p := gen.Generate(nil)
		for _, c := range p.Choices {
			diff := c - p.Answer
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, drill.MaxOffset)
		}
	}
}

func TestGenerate_RespectsAllowedMultipliers(t *testing.T) {
	gen := drill.NewGenerator(rand.New(rand.NewSource(3)))
	for i := 0; i < 500; i++ {
		p := gen.Generate([]int{7, 8})
		assert.Contains(t, []int{7, 8}, p.Fact.Multiplier)
	}
}

func TestGenerate_InvalidAllowedFallsBackToFullRange(t *testing.T) {
	tests := []struct {
		name    string
		allowed []int
	}{
		{name: "nil", allowed: nil},
		{name: "empty", allowed: []int{}},
		{name: "all out of range", allowed: []int{0, 10, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := drill.NewGenerator(rand.New(rand.NewSource(11)))
			seen := map[int]bool{}
			for i := 0; i < 2000; i++ {
				p := gen.Generate(tt.allowed)
				assertWellFormed(t, p)
				seen[p.Fact.Multiplier] = true
			}
			assert.Len(t, seen, models.MaxFactor, "every multiplier should eventually appear")
		})
	}
}

func TestGenerate_MixedAllowedKeepsOnlyValid(t *testing.T) {
	gen := drill.NewGenerator(rand.New(rand.NewSource(5)))
	for i := 0; i < 300; i++ {
		p := gen.Generate([]int{0, 4, 12})
		assert.Equal(t, 4, p.Fact.Multiplier)
	}
}

func TestGenerate_StuckRandomSourceTerminates(t *testing.T) {
	// Always drawing 0 yields 1x1 and offset -10, which is never accepted.
	gen := drill.NewGenerator(constRand(0))

	p := gen.Generate(nil)

	assert.Equal(t, models.Fact{Multiplier: 1, Multiplicand: 1}, p.Fact)
	assertWellFormed(t, p)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, p.Choices[:])
}

func TestNormalizeMultipliers(t *testing.T) {
	assert.Equal(t, []int{3, 1}, drill.NormalizeMultipliers([]int{3, 3, 0, 1, 10, 1}))
	assert.Nil(t, drill.NormalizeMultipliers(nil))
	assert.Empty(t, drill.NormalizeMultipliers([]int{11}))
}

func TestProblem_IsCorrect(t *testing.T) {
	p := drill.Problem{Fact: models.Fact{Multiplier: 3, Multiplicand: 4}, Choices: [4]int{10, 12, 14, 9}, Answer: 12}
	assert.True(t, p.IsCorrect(12))
	assert.False(t, p.IsCorrect(14))
}
