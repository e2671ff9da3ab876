package drill

import (
	"github.com/vytor/kukudrill/internal/models"
)

const (
	// ChoiceCount is the number of answer choices shown per problem.
	ChoiceCount = 4
	// MaxAnswer is the largest product on the 9x9 table.
	MaxAnswer = models.MaxFactor * models.MaxFactor
	// MaxOffset bounds how far a distractor may sit from the answer.
	MaxOffset = 10
	// MaxDistractorDraws caps offset sampling before the deterministic fill kicks in.
	MaxDistractorDraws = 1000
)

// Rand is the subset of *math/rand.Rand the generator needs.
type Rand interface {
	Intn(n int) int
}

// Problem is one displayed question: a fact and four distinct choices,
// exactly one of which equals Answer.
type Problem struct {
	Fact    models.Fact      `json:"fact"`
	Choices [ChoiceCount]int `json:"choices"`
	Answer  int              `json:"-"`
}

// IsCorrect reports whether choice answers the problem.
func (p Problem) IsCorrect(choice int) bool {
	return choice == p.Answer
}

// Generator produces problems from an injected random source.
// It is not safe for concurrent use unless rnd is.
type Generator struct {
	rnd Rand
}

func NewGenerator(rnd Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Generate picks a fact and builds its shuffled choices. The multiplier is
// drawn from the valid members of allowed, or from [1,9] when none are valid.
func (g *Generator) Generate(allowed []int) Problem {
	pool := NormalizeMultipliers(allowed)
	if len(pool) == 0 {
		pool = AllMultipliers()
	}

	fact := models.Fact{
		Multiplier:   pool[g.rnd.Intn(len(pool))],
		Multiplicand: models.MinFactor + g.rnd.Intn(models.MaxFactor),
	}
	answer := fact.Product()

	wrong := g.distractors(answer)
	choices := [ChoiceCount]int{wrong[0], wrong[1], wrong[2], answer}
	g.shuffle(choices[:])

	return Problem{Fact: fact, Choices: choices, Answer: answer}
}

func (g *Generator) distractors(answer int) []int {
	wrong := make([]int, 0, ChoiceCount-1)
	used := func(n int) bool {
		for _, w := range wrong {
			if w == n {
				return true
			}
		}
		return false
	}
	accept := func(n int) bool {
		return n >= 1 && n <= MaxAnswer && n != answer && !used(n)
	}

	for draws := 0; len(wrong) < ChoiceCount-1 && draws < MaxDistractorDraws; draws++ {
		candidate := answer + g.offset()
		if accept(candidate) {
			wrong = append(wrong, candidate)
		}
	}

	// Bounded fallback: nearest unused values, below before above.
	for d := 1; len(wrong) < ChoiceCount-1 && d < MaxAnswer; d++ {
		for _, candidate := range []int{answer - d, answer + d} {
			if len(wrong) < ChoiceCount-1 && accept(candidate) {
				wrong = append(wrong, candidate)
			}
		}
	}
	return wrong
}

// offset draws uniformly from [-MaxOffset, MaxOffset] without zero.
func (g *Generator) offset() int {
	v := g.rnd.Intn(2*MaxOffset) - MaxOffset
	if v >= 0 {
		v++
	}
	return v
}

// shuffle is a Fisher-Yates permutation.
func (g *Generator) shuffle(xs []int) {
	for i := len(xs) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// NormalizeMultipliers drops out-of-range values and duplicates, keeping
// first-seen order.
func NormalizeMultipliers(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, m := range in {
		if !models.ValidFactor(m) || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// AllMultipliers returns 1..9.
func AllMultipliers() []int {
	out := make([]int, 0, models.MaxFactor)
	for m := models.MinFactor; m <= models.MaxFactor; m++ {
		out = append(out, m)
	}
	return out
}
