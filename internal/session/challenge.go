package session

import (
	"time"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/sampler"
)

const (
	DefaultMaxWrong     = 3
	DefaultNumQuestions = 15

	// MatchDelay is how long callers show the matching state before
	// starting a challenge.
	MatchDelay = 2 * time.Second
)

// ChallengeConfig describes an elimination run. Zero MaxWrong and
// NumQuestions take the defaults.
type ChallengeConfig struct {
	Topics       []bank.Topic
	Difficulty   bank.Difficulty
	MaxWrong     int
	NumQuestions int
}

// WithDefaults fills unset fields.
func (c ChallengeConfig) WithDefaults() ChallengeConfig {
	if c.MaxWrong <= 0 {
		c.MaxWrong = DefaultMaxWrong
	}
	if c.NumQuestions <= 0 {
		c.NumQuestions = DefaultNumQuestions
	}
	if c.Difficulty == "" {
		c.Difficulty = bank.AnyDifficulty
	}
	return c
}

// Challenge is an answer-paced run that ends after MaxWrong wrong answers
// or when the questions run out.
type Challenge struct {
	*Session
}

// NewChallenge creates a pending challenge session over items.
func NewChallenge(cfg ChallengeConfig, items []sampler.SampledItem, clock Clock) *Challenge {
	cfg = cfg.WithDefaults()
	s := newSession(ModeChallenge, cfg.Difficulty, cfg.Topics, items, clock)
	s.maxWrong = cfg.MaxWrong
	return &Challenge{Session: s}
}

// BeginMatching enters the matching state. It reports false unless the
// session is pending.
func (c *Challenge) BeginMatching() bool {
	if c.status != StatusPending {
		return false
	}
	c.status = StatusMatching
	return true
}

// Start begins the challenge from pending or matching.
func (c *Challenge) Start() bool {
	return c.start()
}
