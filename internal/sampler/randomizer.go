package sampler

import (
	"math/rand/v2"
	"slices"

	"github.com/abhisek/aptiz/internal/bank"
)

// SampledItem is a per-draw variant of a bank item: options are reordered
// and numeric literals may be scaled. It keeps the source item's ID, topic
// and difficulty.
type SampledItem struct {
	ID           string
	Topic        bank.Topic
	Difficulty   bank.Difficulty
	Prompt       string
	Options      []string
	CorrectIndex int

	// Explanation is empty when the item was perturbed, since bank
	// explanations quote the original numbers.
	Explanation string

	Perturbed bool
	Factor    Factor
}

// CorrectOption returns the text of the correct option.
func (s SampledItem) CorrectOption() string {
	return s.Options[s.CorrectIndex]
}

// IsCorrect reports whether choice is the index of the correct option.
func (s SampledItem) IsCorrect(choice int) bool {
	return choice == s.CorrectIndex
}

// Randomizer produces replay-safe variants of bank items.
type Randomizer struct {
	rng     *rand.Rand
	numeric map[bank.Topic]bool
}

// NewRandomizer creates a Randomizer. Only items in numericTopics are
// candidates for numeric perturbation. A nil rng uses a freshly seeded
// source.
func NewRandomizer(rng *rand.Rand, numericTopics ...bank.Topic) *Randomizer {
	if rng == nil {
		rng = NewRand()
	}
	numeric := make(map[bank.Topic]bool, len(numericTopics))
	for _, t := range numericTopics {
		numeric[t] = true
	}
	return &Randomizer{rng: rng, numeric: numeric}
}

// Randomize shuffles the item's options and, for scalable items in a
// numeric topic, scales every non-percent literal of the prompt and options
// by one shared factor. The correct option keeps its value up to that
// factor.
func (r *Randomizer) Randomize(it bank.Item) SampledItem {
	out := SampledItem{
		ID:           it.ID,
		Topic:        it.Topic,
		Difficulty:   it.Difficulty,
		Prompt:       it.Prompt,
		Options:      slices.Clone(it.Options),
		CorrectIndex: it.CorrectIndex,
		Explanation:  it.Explanation,
	}

	if it.Scalable && r.numeric[it.Topic] {
		texts := append([]string{it.Prompt}, it.Options...)
		if sc, ok := planScaling(r.rng, texts); ok {
			out.Prompt = sc.apply(it.Prompt)
			for i, opt := range it.Options {
				out.Options[i] = sc.apply(opt)
			}
			out.Explanation = ""
			out.Perturbed = true
			out.Factor = sc.factor
		}
	}

	perm := r.rng.Perm(len(out.Options))
	shuffled := make([]string, len(out.Options))
	for newPos, oldPos := range perm {
		shuffled[newPos] = out.Options[oldPos]
		if oldPos == it.CorrectIndex {
			out.CorrectIndex = newPos
		}
	}
	out.Options = shuffled
	return out
}

// RandomizeAll randomizes each item in order.
func (r *Randomizer) RandomizeAll(items []bank.Item) []SampledItem {
	out := make([]SampledItem, len(items))
	for i, it := range items {
		out[i] = r.Randomize(it)
	}
	return out
}

// Plain wraps a bank item as a SampledItem without shuffling or scaling.
func Plain(it bank.Item) SampledItem {
	return SampledItem{
		ID:           it.ID,
		Topic:        it.Topic,
		Difficulty:   it.Difficulty,
		Prompt:       it.Prompt,
		Options:      slices.Clone(it.Options),
		CorrectIndex: it.CorrectIndex,
		Explanation:  it.Explanation,
	}
}
