package tui

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/engine"
	"github.com/abhisek/aptiz/internal/kv"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/sampler"
	"github.com/abhisek/aptiz/internal/session"
)

type fixedExplainer struct{ text string }

func (f fixedExplainer) Explain(context.Context, sampler.SampledItem) (string, error) {
	return f.text, nil
}

func (f fixedExplainer) Similar(context.Context, sampler.SampledItem, int) ([]string, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Options{
		Bank:     bank.Default(),
		Progress: progress.NewStore(&kv.Memory{}, nil),
		Rand:     rand.New(rand.NewPCG(7, 7)),
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return e
}

// deliver executes cmd, expanding batches, and feeds the resulting
// messages into m. Only immediate commands may be passed.
func deliver(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			deliver(m, c)
		}
		return
	}
	m.Update(msg)
}

func TestPractice_AnswerAllCorrect(t *testing.T) {
	ctx := context.Background()
	eng := testEngine(t)
	p, err := eng.StartPractice(session.PracticeConfig{Tier: session.TierEasy})
	if err != nil {
		t.Fatalf("StartPractice: %v", err)
	}
	m := NewPractice(ctx, eng, p, Options{UID: "u1"})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	var cmd tea.Cmd
	for range p.Items {
		item, ok := p.Current()
		if !ok {
			t.Fatal("no current question")
		}
		m.Update(keyPress(rune('1' + item.CorrectIndex)))
		if m.last == nil || !m.last.Correct {
			t.Fatalf("answer to %s not scored correct", item.ID)
		}
		_, cmd = m.Update(keyPress('x'))
	}
	if !p.Finished() {
		t.Fatal("session should be finished")
	}
	deliver(m, cmd)

	rec, ok, err := m.Result()
	if !ok || err != nil {
		t.Fatalf("Result() = ok %v, err %v", ok, err)
	}
	if !rec.Passed || rec.Correct != 8 {
		t.Errorf("record = %+v", rec)
	}
	if got := eng.History(ctx, "u1"); len(got) != 1 {
		t.Errorf("history length = %d, want 1", len(got))
	}
	if !strings.Contains(m.content(), "Session complete") {
		t.Error("summary not shown")
	}
}

func TestPractice_TimeoutFinishes(t *testing.T) {
	eng := testEngine(t)
	p, err := eng.StartPractice(session.PracticeConfig{Tier: session.TierEasy})
	if err != nil {
		t.Fatalf("StartPractice: %v", err)
	}
	m := NewPractice(context.Background(), eng, p, Options{UID: "u1"})

	var cmd tea.Cmd
	for i := 0; i < 480; i++ {
		_, cmd = m.Update(tickMsg{})
	}
	if !p.Finished() || !m.finishing {
		t.Fatal("session should be finishing after the time limit")
	}
	deliver(m, cmd)

	rec, ok, _ := m.Result()
	if !ok {
		t.Fatal("no record after timeout")
	}
	if rec.Correct != 0 || rec.Passed || !rec.Timed {
		t.Errorf("record = %+v", rec)
	}
}

func TestPractice_EscAbandons(t *testing.T) {
	ctx := context.Background()
	eng := testEngine(t)
	p, _ := eng.StartPractice(session.PracticeConfig{})
	m := NewPractice(ctx, eng, p, Options{UID: "u1"})

	m.Update(specialKey(tea.KeyEscape))
	if !m.Abandoned() {
		t.Error("expected abandoned session")
	}
	if _, ok, _ := m.Result(); ok {
		t.Error("abandoned session has a record")
	}
	if got := eng.History(ctx, "u1"); len(got) != 0 {
		t.Errorf("abandoned session was stored: %d records", len(got))
	}
}

func TestChallenge_MatchingThenRunning(t *testing.T) {
	eng := testEngine(t)
	c := eng.PrepareChallenge(session.ChallengeConfig{})
	m := NewChallenge(context.Background(), eng, c, Options{UID: "u1"})

	m.Init()
	if c.Status() != session.StatusMatching {
		t.Fatalf("status = %s, want matching", c.Status())
	}
	m.Update(keyPress('1'))
	if c.CurrentIndex() != 0 {
		t.Error("answer accepted while matching")
	}

	m.Update(matchDoneMsg{})
	if c.Status() != session.StatusRunning {
		t.Fatalf("status = %s, want running", c.Status())
	}
}

func TestExplainKey(t *testing.T) {
	eng := testEngine(t)
	p, _ := eng.StartPractice(session.PracticeConfig{})
	m := NewPractice(context.Background(), eng, p, Options{
		UID:       "u1",
		Explainer: fixedExplainer{text: "because"},
	})

	m.Update(specialKey(tea.KeyEnter))
	if m.last == nil {
		t.Fatal("enter did not submit")
	}
	_, cmd := m.Update(keyPress('e'))
	if !m.explaining {
		t.Fatal("explain key ignored")
	}
	deliver(m, cmd)
	if m.explanation != "because" || m.explaining {
		t.Errorf("explanation = %q, explaining = %v", m.explanation, m.explaining)
	}
}

func TestOptionIndex(t *testing.T) {
	tests := []struct {
		key  byte
		want int
	}{
		{'1', 0},
		{'4', 3},
		{'a', 0},
		{'d', 3},
		{'e', -1},
		{'z', -1},
		{'0', -1},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(int(tt.key)), func(t *testing.T) {
			if got := optionIndex(tt.key); got != tt.want {
				t.Errorf("optionIndex(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}
