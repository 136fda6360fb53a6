package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/kv"
)

type failingKV struct {
	kv.Memory
	failGet bool
	failSet bool
}

var errBackend = errors.New("storage unavailable")

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errBackend
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errBackend
	}
	return f.Memory.Set(ctx, key, value)
}

func record(id string, correct, wrong int, topics ...bank.Topic) SessionRecord {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return SessionRecord{
		ID:            id,
		UID:           "u1",
		Mode:          "practice",
		Topics:        topics,
		Difficulty:    bank.Easy,
		QuestionCount: correct + wrong,
		Correct:       correct,
		Wrong:         wrong,
		StartedAt:     start,
		EndedAt:       start.Add(90 * time.Second),
		DurationSec:   90,
		Timed:         true,
		TimeLimitSec:  480,
		Passed:        Passed(correct, correct+wrong),
		Score:         correct,
	}
}

func TestAppendLoad_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), nil)

	require.NoError(t, s.Append(ctx, "u1", record("a", 5, 1, bank.TopicPercentages)))
	require.NoError(t, s.Append(ctx, "u1", record("b", 3, 2, bank.TopicAverages)))

	got := s.Load(ctx, "u1")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.True(t, got[1].StartedAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)), "dates are revived")

	assert.Empty(t, s.Load(ctx, "someone-else"))
}

func TestLoad_Missing(t *testing.T) {
	s := NewStore(kv.NewMemory(), nil)
	got := s.Load(context.Background(), "nobody")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_CorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not json at all"},
		{"truncated", `{"version":"v1.0.0","sessions":[{"id":"a"`},
		{"empty", "   "},
		{"wrong shape", `{"version":"v1.0.0","sessions":{"id":"a"}}`},
		{"future major", `{"version":"v2.0.0","sessions":[{"id":"a"}]}`},
		{"bad version", `{"version":"latest","sessions":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemory()
			require.NoError(t, mem.Set(ctx, Key("u1"), tt.raw))
			got := NewStore(mem, nil).Load(ctx, "u1")
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestLoad_LegacyArray(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, Key("u1"),
		`[{"id":"old","uid":"u1","topics":["Ratios"],"correct":4,"wrong":1,"started_at":"2025-01-02T03:04:05Z"}]`))

	got := NewStore(mem, nil).Load(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].ID)
	assert.Equal(t, 2025, got[0].StartedAt.Year())
}

func TestLoad_MinorVersionAccepted(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, Key("u1"), `{"version":"v1.4.0","sessions":[{"id":"x"}]}`))
	got := NewStore(mem, nil).Load(ctx, "u1")
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Topics)
}

func TestLoad_ReadFailureIsEmpty(t *testing.T) {
	s := NewStore(&failingKV{failGet: true}, nil)
	assert.Empty(t, s.Load(context.Background(), "u1"))
}

func TestAppend_WriteFailure(t *testing.T) {
	s := NewStore(&failingKV{failSet: true}, nil)
	err := s.Append(context.Background(), "u1", record("a", 1, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)
}

func TestAppend_ReadFailure(t *testing.T) {
	s := NewStore(&failingKV{failGet: true}, nil)
	err := s.Append(context.Background(), "u1", record("a", 1, 0))
	assert.ErrorIs(t, err, errBackend)
}

func TestAppend_ReplacesCorruptHistory(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, Key("u1"), "{{{"))
	s := NewStore(mem, nil)

	require.NoError(t, s.Append(ctx, "u1", record("a", 2, 0)))
	got := s.Load(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestAppend_KeepsOtherMajorVersion(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	stored := `{"version":"v2.0.0","sessions":[{"id":"newer"}]}`
	require.NoError(t, mem.Set(ctx, Key("u1"), stored))

	err := NewStore(mem, nil).Append(ctx, "u1", record("a", 2, 0))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	raw, found, err := mem.Get(ctx, Key("u1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, stored, raw)
}

func TestAggregate_Fold(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), nil)
	require.NoError(t, s.Append(ctx, "u1", record("a", 5, 1, bank.TopicPercentages)))
	require.NoError(t, s.Append(ctx, "u1", record("b", 3, 2, bank.TopicPercentages, bank.TopicAverages)))

	agg := s.Aggregate(ctx, "u1")
	assert.Equal(t, 2, agg.Sessions)
	assert.Equal(t, TopicAggregate{Attempts: 2, Correct: 8, Wrong: 3}, agg.ByTopic[bank.TopicPercentages])
	assert.Equal(t, TopicAggregate{Attempts: 1, Correct: 3, Wrong: 2}, agg.ByTopic[bank.TopicAverages])
	assert.Len(t, agg.ByTopic, 2)
}

func TestAggregate_Attributed(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), nil)

	mixed := record("b", 3, 2, bank.TopicPercentages, bank.TopicAverages)
	mixed.Answers = []AnswerLog{
		{ItemID: "pct-001", Topic: bank.TopicPercentages, Correct: true},
		{ItemID: "pct-002", Topic: bank.TopicPercentages, Correct: true},
		{ItemID: "avg-001", Topic: bank.TopicAverages, Correct: true},
		{ItemID: "avg-002", Topic: bank.TopicAverages, Correct: false},
		{ItemID: "pct-003", Topic: bank.TopicPercentages, Correct: false},
	}
	require.NoError(t, s.Append(ctx, "u1", record("a", 5, 1, bank.TopicPercentages)))
	require.NoError(t, s.Append(ctx, "u1", mixed))

	agg := s.AttributedAggregate(ctx, "u1")
	assert.Equal(t, 2, agg.Sessions)
	// The first record has no answer log and is credited in full.
	assert.Equal(t, TopicAggregate{Attempts: 2, Correct: 7, Wrong: 2}, agg.ByTopic[bank.TopicPercentages])
	assert.Equal(t, TopicAggregate{Attempts: 1, Correct: 1, Wrong: 1}, agg.ByTopic[bank.TopicAverages])
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewStore(mem, nil)
	require.NoError(t, s.Append(ctx, "u1", record("a", 1, 0)))
	require.NoError(t, s.Reset(ctx, "u1"))

	assert.Empty(t, s.Load(ctx, "u1"))
	raw, found, err := mem.Get(ctx, Key("u1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"version":"v1.0.0","sessions":[]}`, raw)
}

func TestPassed(t *testing.T) {
	tests := []struct {
		correct, count int
		want           bool
	}{
		{8, 8, true},
		{7, 10, true},
		{6, 10, false},
		{0, 0, false},
		{11, 15, true},
		{10, 15, false},
	}
	for _, tt := range tests {
		if got := Passed(tt.correct, tt.count); got != tt.want {
			t.Errorf("Passed(%d, %d) = %v, want %v", tt.correct, tt.count, got, tt.want)
		}
	}
}
