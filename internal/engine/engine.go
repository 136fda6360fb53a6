// Package engine ties the bank, sampler, sessions and progress store
// together. It draws and randomizes questions for new sessions and archives
// finished ones.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/sampler"
	"github.com/abhisek/aptiz/internal/session"
)

var (
	// ErrNotFinished is returned by Finish for sessions that are still open.
	ErrNotFinished = session.ErrNotFinished

	// ErrAlreadyArchived is returned by Finish for a session it already
	// archived.
	ErrAlreadyArchived = session.ErrAlreadyArchived
)

// Options configures an Engine. Bank and Progress are required.
type Options struct {
	Bank     *bank.Bank
	Progress *progress.Store

	// Rand drives sampling and randomization. Nil uses a fresh source.
	Rand *rand.Rand

	// Clock stamps session start and end times. Nil uses time.Now.
	Clock session.Clock

	Logger     *slog.Logger
	Registerer prometheus.Registerer

	// NumericTopics are eligible for numeric perturbation. Nil uses
	// bank.NumericTopics.
	NumericTopics []bank.Topic
}

// Engine creates sessions and records their outcomes.
type Engine struct {
	bank     *bank.Bank
	progress *progress.Store
	clock    session.Clock
	logger   *slog.Logger
	metrics  *metrics

	mu         sync.Mutex // guards the shared random source
	sampler    *sampler.Sampler
	randomizer *sampler.Randomizer
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Bank == nil {
		return nil, errors.New("engine: bank is required")
	}
	if opts.Progress == nil {
		return nil, errors.New("engine: progress store is required")
	}
	rng := opts.Rand
	if rng == nil {
		rng = sampler.NewRand()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	numeric := opts.NumericTopics
	if numeric == nil {
		numeric = bank.NumericTopics()
	}

	return &Engine{
		bank:       opts.Bank,
		progress:   opts.Progress,
		clock:      opts.Clock,
		logger:     logger,
		metrics:    newMetrics(opts.Registerer),
		sampler:    sampler.New(opts.Bank, rng),
		randomizer: sampler.NewRandomizer(rng, numeric...),
	}, nil
}

// Bank returns the question bank the engine draws from.
func (e *Engine) Bank() *bank.Bank {
	return e.bank
}

// Draw samples up to limit items matching f and randomizes each one.
func (e *Engine) Draw(f sampler.Filter, limit int) []sampler.SampledItem {
	e.mu.Lock()
	items := e.randomizer.RandomizeAll(e.sampler.Sample(f, limit))
	e.mu.Unlock()

	perturbed := 0
	for _, it := range items {
		if it.Perturbed {
			perturbed++
		}
	}
	e.metrics.observeDraw(perturbed)
	return items
}

// StartPractice draws questions for cfg and returns a running practice
// session. The caller owns the countdown and must call Tick once per
// second.
func (e *Engine) StartPractice(cfg session.PracticeConfig) (*session.Practice, error) {
	cfg, spec, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	items := e.Draw(sampler.Filter{Topics: cfg.Topics, Difficulty: cfg.Difficulty}, spec.QuestionCount)

	p, err := session.NewPractice(cfg, items, e.clock)
	if err != nil {
		return nil, err
	}
	p.Start()
	e.metrics.started(session.ModePractice)
	e.logger.Debug("practice started", "session", p.ID, "tier", p.Tier, "questions", len(items))
	return p, nil
}

// PrepareChallenge draws questions for cfg and returns a pending challenge.
// Callers may show the matching state for session.MatchDelay before
// calling Start.
func (e *Engine) PrepareChallenge(cfg session.ChallengeConfig) *session.Challenge {
	cfg = cfg.WithDefaults()
	items := e.Draw(sampler.Filter{Topics: cfg.Topics, Difficulty: cfg.Difficulty}, cfg.NumQuestions)

	c := session.NewChallenge(cfg, items, e.clock)
	e.metrics.started(session.ModeChallenge)
	e.logger.Debug("challenge prepared", "session", c.ID, "questions", len(items), "max_wrong", cfg.MaxWrong)
	return c
}

// Finish archives a finished session to uid's history. A session is
// archived at most once. The record is returned even when storing it fails.
func (e *Engine) Finish(ctx context.Context, uid string, s *session.Session) (progress.SessionRecord, error) {
	rec, err := s.Archive(uid)
	if err != nil {
		return progress.SessionRecord{}, err
	}
	e.metrics.finished(rec)

	if err := e.progress.Append(ctx, uid, rec); err != nil {
		e.metrics.persistFailures.Inc()
		e.logger.Error("storing session record failed", "session", s.ID, "uid", uid, "error", err)
		return rec, fmt.Errorf("store session record: %w", err)
	}
	return rec, nil
}

// History returns uid's archived sessions, newest first.
func (e *Engine) History(ctx context.Context, uid string) []progress.SessionRecord {
	return e.progress.Load(ctx, uid)
}

// Aggregate folds uid's history into per-topic totals. With attributed
// set, each answered question counts toward its own topic only.
func (e *Engine) Aggregate(ctx context.Context, uid string, attributed bool) progress.Aggregate {
	if attributed {
		return e.progress.AttributedAggregate(ctx, uid)
	}
	return e.progress.Aggregate(ctx, uid)
}

// Reset clears uid's history.
func (e *Engine) Reset(ctx context.Context, uid string) error {
	return e.progress.Reset(ctx, uid)
}

// NumericTopicsFromEnv reads APTIZ_NUMERIC_TOPICS, a comma-separated list
// of topic names. It returns nil when the variable is unset.
func NumericTopicsFromEnv(b *bank.Bank) ([]bank.Topic, error) {
	raw, ok := os.LookupEnv("APTIZ_NUMERIC_TOPICS")
	if !ok {
		return nil, nil
	}
	f, err := sampler.ParseFilter(b, strings.Split(raw, ","), "")
	if err != nil {
		return nil, fmt.Errorf("APTIZ_NUMERIC_TOPICS: %w", err)
	}
	if f.Topics == nil {
		return []bank.Topic{}, nil
	}
	return f.Topics, nil
}
