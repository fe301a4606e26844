package words

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

const (
	OptionsCount       = 3
	wrongOptionsCount  = OptionsCount - 1
	defaultMaxAttempts = 1000
)

type Question struct {
	Word          Word
	CorrectAnswer string
	Options       []string
}

// Generator builds multiple-choice questions from a word bank.
// It is not safe for concurrent use; each session owns its own generator.
type Generator struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewGenerator returns a generator drawing from rng. A nil rng gets a randomly seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng, maxAttempts: defaultMaxAttempts}
}

// Generate picks a target word (other than excludeWord when possible) and two distinct
// wrong answers in lang, returning the three options in random order.
func (g *Generator) Generate(bank []Word, lang domain.Language, excludeWord string) (Question, error) {
	if len(bank) < OptionsCount {
		return Question{}, fmt.Errorf("%w: bank has %d words, need at least %d", domain.ErrGenerationFailed, len(bank), OptionsCount)
	}

	targetIdx := g.pickTarget(bank, excludeWord)
	target := bank[targetIdx]

	correct, ok := target.Translation(lang)
	if !ok {
		return Question{}, fmt.Errorf("%w: %q has no %s translation", domain.ErrGenerationFailed, target.Text, lang)
	}

	wrong := make([]string, 0, wrongOptionsCount)
	for attempts := 0; len(wrong) < wrongOptionsCount; attempts++ {
		if attempts >= g.maxAttempts {
			return Question{}, fmt.Errorf("%w: not enough distinct %s distractors", domain.ErrGenerationFailed, lang)
		}
		i := g.rng.IntN(len(bank))
		if i == targetIdx {
			continue
		}
		option, ok := bank[i].Translation(lang)
		if !ok || option == correct || slices.Contains(wrong, option) {
			continue
		}
		wrong = append(wrong, option)
	}

	options := append([]string{correct}, wrong...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{Word: target, CorrectAnswer: correct, Options: options}, nil
}

func (g *Generator) pickTarget(bank []Word, excludeWord string) int {
	if excludeWord == "" {
		return g.rng.IntN(len(bank))
	}
	candidates := make([]int, 0, len(bank))
	for i, w := range bank {
		if w.Text != excludeWord {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return g.rng.IntN(len(bank))
	}
	return candidates[g.rng.IntN(len(candidates))]
}

// PickDistractor returns one of the options that is not the correct answer,
// or "" when there is none.
func (g *Generator) PickDistractor(options []string, correct string) string {
	wrong := make([]string, 0, len(options))
	for _, o := range options {
		if o != correct {
			wrong = append(wrong, o)
		}
	}
	if len(wrong) == 0 {
		return ""
	}
	return wrong[g.rng.IntN(len(wrong))]
}
