// Package sampler draws bounded, shuffled subsets of bank items and turns
// them into per-draw randomized variants.
package sampler

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/abhisek/aptiz/internal/bank"
)

// Filter restricts which bank items are eligible for a draw. An empty
// Topics list matches every topic; an empty or AnyDifficulty Difficulty
// matches every tier.
type Filter struct {
	Topics     []bank.Topic
	Difficulty bank.Difficulty
}

// ParseFilter builds a Filter from user supplied names. Topic names are
// matched case-insensitively against the bank's topics.
func ParseFilter(b *bank.Bank, topics []string, difficulty string) (Filter, error) {
	d, err := bank.ParseDifficulty(difficulty)
	if err != nil {
		return Filter{}, err
	}

	var f Filter
	f.Difficulty = d
	known := b.Topics()
	for _, name := range topics {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		i := slices.IndexFunc(known, func(t bank.Topic) bool {
			return strings.EqualFold(string(t), name)
		})
		if i < 0 {
			return Filter{}, fmt.Errorf("%w %q", bank.ErrUnknownTopic, name)
		}
		if !slices.Contains(f.Topics, known[i]) {
			f.Topics = append(f.Topics, known[i])
		}
	}
	return f, nil
}

// Matches reports whether it satisfies the filter.
func (f Filter) Matches(it bank.Item) bool {
	if f.Difficulty != "" && f.Difficulty != bank.AnyDifficulty && it.Difficulty != f.Difficulty {
		return false
	}
	return len(f.Topics) == 0 || slices.Contains(f.Topics, it.Topic)
}

// Sampler selects items from a bank without replacement. It is not safe
// for concurrent use because the random source is not.
type Sampler struct {
	bank *bank.Bank
	rng  *rand.Rand
}

// New creates a Sampler over b. A nil rng uses a freshly seeded PCG source.
func New(b *bank.Bank, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = NewRand()
	}
	return &Sampler{bank: b, rng: rng}
}

// NewRand returns a non-cryptographic random source seeded from the
// runtime's entropy.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Pool returns every bank item matching f, in bank order.
func (s *Sampler) Pool(f Filter) []bank.Item {
	var pool []bank.Item
	for _, it := range s.bank.All() {
		if f.Matches(it) {
			pool = append(pool, it)
		}
	}
	return pool
}

// Sample returns up to limit distinct items matching f in random order.
// The result is shorter than limit when the pool is small; callers decide
// whether a short draw is playable.
func (s *Sampler) Sample(f Filter, limit int) []bank.Item {
	if limit <= 0 {
		return nil
	}
	pool := s.Pool(f)
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:min(limit, len(pool))]
}
