package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/kv"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/sampler"
	"github.com/abhisek/aptiz/internal/session"
)

type readOnlyKV struct {
	kv.Memory
}

func (*readOnlyKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestEngine(t *testing.T, backend kv.Store) (*Engine, *prometheus.Registry) {
	t.Helper()
	if backend == nil {
		backend = &kv.Memory{}
	}
	reg := prometheus.NewRegistry()
	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	e, err := New(Options{
		Bank:       bank.Default(),
		Progress:   progress.NewStore(backend, nil),
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Clock:      clock.Now,
		Registerer: reg,
	})
	require.NoError(t, err)
	return e, reg
}

func answerAll(s *session.Session, correct bool) {
	for {
		item, ok := s.Current()
		if !ok {
			return
		}
		choice := item.CorrectIndex
		if !correct {
			choice = (item.CorrectIndex + 1) % len(item.Options)
		}
		s.Answer(s.CurrentIndex(), choice)
	}
}

func TestNew_RequiresBankAndProgress(t *testing.T) {
	_, err := New(Options{Progress: progress.NewStore(&kv.Memory{}, nil)})
	assert.Error(t, err)

	_, err = New(Options{Bank: bank.Default()})
	assert.Error(t, err)
}

func TestStartPractice(t *testing.T) {
	e, reg := newTestEngine(t, nil)

	p, err := e.StartPractice(session.PracticeConfig{Tier: session.TierEasy})
	require.NoError(t, err)

	assert.Equal(t, session.StatusRunning, p.Status())
	assert.Equal(t, 480, p.Remaining())
	assert.Len(t, p.Items, 8)
	for _, it := range p.Items {
		assert.Equal(t, bank.Easy, it.Difficulty)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.sessionsStarted.WithLabelValues("practice")))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "aptiz_sessions_started_total"))
}

func TestStartPractice_TopicFilter(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	p, err := e.StartPractice(session.PracticeConfig{
		Topics:     []bank.Topic{bank.TopicPercentages},
		Difficulty: bank.AnyDifficulty,
		Tier:       session.TierMedium,
	})
	require.NoError(t, err)

	assert.Len(t, p.Items, len(bank.Default().ByTopic(bank.TopicPercentages)))
	seen := map[string]bool{}
	for _, it := range p.Items {
		assert.Equal(t, bank.TopicPercentages, it.Topic)
		assert.False(t, seen[it.ID], "duplicate item %s", it.ID)
		seen[it.ID] = true
	}
}

func TestStartPractice_UnknownTier(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	_, err := e.StartPractice(session.PracticeConfig{Tier: "legendary"})
	assert.Error(t, err)
}

func TestPrepareChallenge(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	c := e.PrepareChallenge(session.ChallengeConfig{})
	assert.Equal(t, session.StatusPending, c.Status())
	assert.Equal(t, session.DefaultMaxWrong, c.MaxWrong())
	assert.Len(t, c.Items, session.DefaultNumQuestions)
	assert.Equal(t, bank.AnyDifficulty, c.Difficulty)

	require.True(t, c.BeginMatching())
	require.True(t, c.Start())
	assert.Equal(t, session.StatusRunning, c.Status())
}

func TestFinish_NotFinished(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	p, err := e.StartPractice(session.PracticeConfig{})
	require.NoError(t, err)

	_, err = e.Finish(context.Background(), "u1", p.Session)
	assert.ErrorIs(t, err, ErrNotFinished)
	assert.Empty(t, e.History(context.Background(), "u1"))
}

func TestFinish_ArchivesRecord(t *testing.T) {
	ctx := context.Background()
	e, reg := newTestEngine(t, nil)

	p, err := e.StartPractice(session.PracticeConfig{Tier: session.TierEasy})
	require.NoError(t, err)
	answerAll(p.Session, true)
	require.True(t, p.Finished())

	rec, err := e.Finish(ctx, "u1", p.Session)
	require.NoError(t, err)
	assert.Equal(t, "practice", rec.Mode)
	assert.Equal(t, 8, rec.Correct)
	assert.True(t, rec.Passed)
	assert.True(t, rec.Timed)
	assert.Equal(t, 480, rec.TimeLimitSec)

	history := e.History(ctx, "u1")
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.sessionsFinished.WithLabelValues("practice", "true")))
	assert.Equal(t, 8.0, testutil.ToFloat64(e.metrics.answers.WithLabelValues("practice", "correct")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.metrics.persistFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "aptiz_session_duration_seconds"))
}

func TestFinish_ArchivesOnce(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, nil)

	p, err := e.StartPractice(session.PracticeConfig{Tier: session.TierEasy})
	require.NoError(t, err)
	answerAll(p.Session, true)

	first, err := e.Finish(ctx, "u1", p.Session)
	require.NoError(t, err)

	_, err = e.Finish(ctx, "u1", p.Session)
	assert.ErrorIs(t, err, ErrAlreadyArchived)

	history := e.History(ctx, "u1")
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, 1, e.Aggregate(ctx, "u1", false).Sessions)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.sessionsFinished.WithLabelValues("practice", "true")))
}

func TestFinish_ChallengeElimination(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, nil)

	c := e.PrepareChallenge(session.ChallengeConfig{MaxWrong: 2})
	require.True(t, c.Start())
	answerAll(c.Session, false)

	rec, err := e.Finish(ctx, "u2", c.Session)
	require.NoError(t, err)
	assert.Equal(t, "challenge", rec.Mode)
	assert.Equal(t, 2, rec.Wrong)
	assert.False(t, rec.Passed)
	assert.False(t, rec.Timed)
	assert.Len(t, rec.Answers, 2)
}

func TestFinish_WriteFailure(t *testing.T) {
	e, _ := newTestEngine(t, &readOnlyKV{})

	c := e.PrepareChallenge(session.ChallengeConfig{NumQuestions: 3})
	c.Start()
	answerAll(c.Session, true)

	rec, err := e.Finish(context.Background(), "u1", c.Session)
	require.Error(t, err)
	assert.Equal(t, 3, rec.Correct, "record is returned with the error")
	assert.True(t, c.Finished())
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.persistFailures))
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, nil)

	p, err := e.StartPractice(session.PracticeConfig{
		Topics:     []bank.Topic{bank.TopicPercentages, bank.TopicAverages},
		Difficulty: bank.AnyDifficulty,
	})
	require.NoError(t, err)
	answerAll(p.Session, true)
	_, err = e.Finish(ctx, "u1", p.Session)
	require.NoError(t, err)

	plain := e.Aggregate(ctx, "u1", false)
	assert.Equal(t, 1, plain.Sessions)
	assert.Equal(t, 8, plain.ByTopic[bank.TopicPercentages].Correct)
	assert.Equal(t, 8, plain.ByTopic[bank.TopicAverages].Correct)

	attributed := e.Aggregate(ctx, "u1", true)
	total := attributed.ByTopic[bank.TopicPercentages].Correct + attributed.ByTopic[bank.TopicAverages].Correct
	assert.Equal(t, 8, total)

	require.NoError(t, e.Reset(ctx, "u1"))
	assert.Empty(t, e.History(ctx, "u1"))
}

func TestDraw(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	items := e.Draw(sampler.Filter{Difficulty: bank.AnyDifficulty}, 100)
	assert.Len(t, items, bank.Default().Len())

	assert.Empty(t, e.Draw(sampler.Filter{}, 0))
}

func TestNumericTopicsFromEnv(t *testing.T) {
	b := bank.Default()

	got, err := NumericTopicsFromEnv(b)
	require.NoError(t, err)
	assert.Nil(t, got)

	t.Setenv("APTIZ_NUMERIC_TOPICS", "percentages, Ratios")
	got, err = NumericTopicsFromEnv(b)
	require.NoError(t, err)
	assert.Equal(t, []bank.Topic{bank.TopicPercentages, bank.TopicRatios}, got)

	t.Setenv("APTIZ_NUMERIC_TOPICS", "")
	got, err = NumericTopicsFromEnv(b)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	t.Setenv("APTIZ_NUMERIC_TOPICS", "Astrology")
	_, err = NumericTopicsFromEnv(b)
	assert.ErrorIs(t, err, bank.ErrUnknownTopic)
}
