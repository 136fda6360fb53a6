package session

import (
	"fmt"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/sampler"
)

// Tier is a practice length preset.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
	TierExpert Tier = "expert"
)

// TierSpec is the question count and time budget of a tier, and the bank
// difficulty it draws from by default.
type TierSpec struct {
	QuestionCount int
	TimeLimitSec  int
	Difficulty    bank.Difficulty
}

var tierSpecs = map[Tier]TierSpec{
	TierEasy:   {QuestionCount: 8, TimeLimitSec: 480, Difficulty: bank.Easy},
	TierMedium: {QuestionCount: 12, TimeLimitSec: 720, Difficulty: bank.Medium},
	TierHard:   {QuestionCount: 15, TimeLimitSec: 900, Difficulty: bank.Hard},
	TierExpert: {QuestionCount: 20, TimeLimitSec: 1200, Difficulty: bank.Hard},
}

// Tiers returns the practice tiers from shortest to longest.
func Tiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard, TierExpert}
}

// Spec returns the tier's parameters.
func (t Tier) Spec() (TierSpec, bool) {
	spec, ok := tierSpecs[t]
	return spec, ok
}

// ParseTier parses a tier name. The empty string means easy.
func ParseTier(s string) (Tier, error) {
	if s == "" {
		return TierEasy, nil
	}
	t := Tier(s)
	if _, ok := tierSpecs[t]; !ok {
		return "", fmt.Errorf("unknown tier %q (want easy, medium, hard or expert)", s)
	}
	return t, nil
}

// PracticeConfig describes a practice run. An empty Difficulty draws from
// the tier's bank difficulty.
type PracticeConfig struct {
	Topics     []bank.Topic
	Difficulty bank.Difficulty
	Tier       Tier
}

// Resolve fills defaults and returns the config with the tier's spec.
func (c PracticeConfig) Resolve() (PracticeConfig, TierSpec, error) {
	if c.Tier == "" {
		c.Tier = TierEasy
	}
	spec, ok := c.Tier.Spec()
	if !ok {
		return c, TierSpec{}, fmt.Errorf("unknown tier %q", c.Tier)
	}
	if c.Difficulty == "" {
		c.Difficulty = spec.Difficulty
	}
	return c, spec, nil
}

// Practice is a time-boxed run over a fixed list of questions. The caller
// drives the countdown by calling Tick once per second.
type Practice struct {
	*Session
	Tier      Tier
	remaining int
}

// NewPractice creates a pending practice session over items.
func NewPractice(cfg PracticeConfig, items []sampler.SampledItem, clock Clock) (*Practice, error) {
	cfg, spec, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	s := newSession(ModePractice, cfg.Difficulty, cfg.Topics, items, clock)
	s.timeLimitSec = spec.TimeLimitSec
	return &Practice{Session: s, Tier: cfg.Tier, remaining: spec.TimeLimitSec}, nil
}

// Start begins the countdown. It reports false if the session was already
// started.
func (p *Practice) Start() bool {
	if !p.start() {
		return false
	}
	p.remaining = p.timeLimitSec
	return true
}

// Tick advances the countdown by one second and reports whether the
// session finished because time ran out. Ticks are ignored unless the
// session is running.
func (p *Practice) Tick() bool {
	if p.status != StatusRunning {
		return false
	}
	p.remaining--
	if p.remaining > 0 {
		return false
	}
	p.remaining = 0
	p.finish()
	return true
}

// Expire finishes a running session immediately.
func (p *Practice) Expire() {
	if p.status != StatusRunning {
		return
	}
	p.remaining = 0
	p.finish()
}

// Remaining returns the seconds left on the countdown.
func (p *Practice) Remaining() int {
	return p.remaining
}
