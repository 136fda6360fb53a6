// Package tui is the terminal driver for practice and challenge sessions.
// It owns the one-second ticker and the matching pause, and hands finished
// sessions to the engine for archiving.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aptiz/internal/engine"
	"github.com/abhisek/aptiz/internal/explain"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/sampler"
	"github.com/abhisek/aptiz/internal/session"
)

// Options configures a Model.
type Options struct {
	UID string

	// Explainer answers the "explain" key after an answer. Nil hides it.
	Explainer explain.Explainer
}

// Model runs one session.
type Model struct {
	ctx  context.Context
	eng  *engine.Engine
	opts Options

	practice  *session.Practice
	challenge *session.Challenge
	sess      *session.Session

	selected int

	// feedback for the last accepted answer
	last        *session.Result
	lastItem    sampler.SampledItem
	chosen      int
	explanation string
	explaining  bool

	spinner   spinner.Model
	finishing bool
	record    *progress.SessionRecord
	saveErr   error
	abandoned bool

	width  int
	height int
}

var _ tea.Model = (*Model)(nil)

func newModel(ctx context.Context, eng *engine.Engine, opts Options) *Model {
	return &Model{
		ctx:  ctx,
		eng:  eng,
		opts: opts,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(selectedStyle),
		),
	}
}

// NewPractice creates a Model for a running practice session.
func NewPractice(ctx context.Context, eng *engine.Engine, p *session.Practice, opts Options) *Model {
	m := newModel(ctx, eng, opts)
	m.practice = p
	m.sess = p.Session
	return m
}

// NewChallenge creates a Model for a pending challenge.
func NewChallenge(ctx context.Context, eng *engine.Engine, c *session.Challenge, opts Options) *Model {
	m := newModel(ctx, eng, opts)
	m.challenge = c
	m.sess = c.Session
	return m
}

// Result returns the archived record once the session finished, and the
// error from storing it. It reports false when the user quit before the
// end.
func (m *Model) Result() (progress.SessionRecord, bool, error) {
	if m.record == nil {
		return progress.SessionRecord{}, false, nil
	}
	return *m.record, true, m.saveErr
}

// Abandoned reports whether the user quit an unfinished session.
func (m *Model) Abandoned() bool {
	return m.abandoned
}

func (m *Model) Init() tea.Cmd {
	if m.sess.Finished() {
		return m.finishCmd()
	}
	if m.challenge != nil && m.challenge.BeginMatching() {
		return tea.Batch(m.spinner.Tick, matchCmd())
	}
	if m.practice != nil {
		return tickCmd()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m.handleTick()

	case matchDoneMsg:
		m.challenge.Start()
		if m.sess.Finished() {
			return m, m.finishCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if m.sess.Status() != session.StatusMatching && !m.finishing && !m.explaining {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case explanationMsg:
		if msg.ItemID == m.lastItem.ID {
			m.explaining = false
			if msg.Err != nil {
				m.explanation = "Explanation unavailable: " + msg.Err.Error()
			} else {
				m.explanation = msg.Text
			}
		}
		return m, nil

	case finishedMsg:
		m.finishing = false
		m.record = &msg.Record
		m.saveErr = msg.Err
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.practice == nil || m.sess.Status() != session.StatusRunning {
		return m, nil
	}
	if m.practice.Tick() {
		m.last = nil
		return m, m.finishCmd()
	}
	return m, tickCmd()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.abandoned = m.record == nil
		return m, tea.Quit
	}

	if m.record != nil {
		return m, tea.Quit
	}
	if m.finishing || m.sess.Status() == session.StatusMatching {
		return m, nil
	}

	if m.last != nil {
		if key == "e" && m.opts.Explainer != nil && !m.explaining {
			m.explaining = true
			return m, tea.Batch(m.spinner.Tick, m.explainCmd(m.lastItem))
		}
		m.last = nil
		m.explanation = ""
		m.explaining = false
		if m.sess.Finished() {
			return m, m.finishCmd()
		}
		return m, nil
	}

	item, ok := m.sess.Current()
	if !ok {
		return m, nil
	}
	switch key {
	case "esc", "q":
		m.abandoned = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(item.Options)-1 {
			m.selected++
		}
	case "enter", "space":
		m.submit(item, m.selected)
	default:
		if len(key) == 1 {
			if i := optionIndex(key[0]); i >= 0 && i < len(item.Options) {
				m.submit(item, i)
			}
		}
	}
	return m, nil
}

// optionIndex maps 1-9 and a-i to option positions.
func optionIndex(c byte) int {
	switch {
	case c >= '1' && c <= '9':
		return int(c - '1')
	case c >= 'a' && c <= 'i' && c != 'e':
		return int(c - 'a')
	}
	return -1
}

func (m *Model) submit(item sampler.SampledItem, choice int) {
	res, ok := m.sess.Answer(m.sess.CurrentIndex(), choice)
	if !ok {
		return
	}
	m.last = &res
	m.lastItem = item
	m.chosen = choice
	m.explanation = item.Explanation
	m.selected = 0
}

func (m *Model) finishCmd() tea.Cmd {
	if m.finishing || m.record != nil {
		return nil
	}
	m.finishing = true
	ctx, eng, uid, s := m.ctx, m.eng, m.opts.UID, m.sess
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		rec, err := eng.Finish(ctx, uid, s)
		return finishedMsg{Record: rec, Err: err}
	})
}

func (m *Model) explainCmd(item sampler.SampledItem) tea.Cmd {
	ctx, ex := m.ctx, m.opts.Explainer
	return func() tea.Msg {
		text, err := ex.Explain(ctx, item)
		return explanationMsg{ItemID: item.ID, Text: text, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func matchCmd() tea.Cmd {
	return tea.Tick(session.MatchDelay, func(time.Time) tea.Msg {
		return matchDoneMsg{}
	})
}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	if tooSmall(m.width, m.height) {
		v.SetContent(renderTooSmall(m.width, m.height))
		return v
	}

	header := renderHeader(m.title(), m.status(), m.width)
	footer := renderFooter(m.hints(), m.width)
	v.SetContent(renderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m *Model) title() string {
	if m.practice != nil {
		return fmt.Sprintf("Practice · %s", m.practice.Tier)
	}
	return "Challenge"
}

func (m *Model) status() string {
	n := len(m.sess.Items)
	q := min(m.sess.CurrentIndex()+1, n)
	return fmt.Sprintf("Score %d  Q %d/%d", m.sess.Score(), q, n)
}

func (m *Model) hints() []keyHint {
	switch {
	case m.record != nil:
		return []keyHint{{"any key", "Exit"}}
	case m.last != nil && m.opts.Explainer != nil:
		return []keyHint{{"E", "Explain"}, {"any key", "Continue"}}
	case m.last != nil:
		return []keyHint{{"any key", "Continue"}}
	case m.sess.Status() == session.StatusRunning:
		return []keyHint{{"↑↓", "Select"}, {"Enter", "Submit"}, {"1-4", "Answer"}, {"Esc", "Quit"}}
	}
	return []keyHint{{"Ctrl+C", "Quit"}}
}

func (m *Model) content() string {
	switch {
	case m.record != nil:
		return renderSummary(*m.record, m.saveErr)
	case m.finishing:
		return m.spinner.View() + " Saving results..."
	case m.sess.Status() == session.StatusMatching:
		return m.spinner.View() + " Matching you with a challenge..."
	case m.last != nil:
		return m.feedbackView()
	}
	return m.questionView()
}

func (m *Model) gauge() string {
	if m.practice != nil {
		return renderTimeBar(m.practice.Remaining(), m.sess.TimeLimitSec(), m.width-8)
	}
	return incorrectStyle.Render(renderLives(m.sess.Wrong(), m.sess.MaxWrong()))
}

func (m *Model) questionView() string {
	item, ok := m.sess.Current()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.gauge())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s", item.Topic, item.Difficulty)))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Width(m.width - 8).Render(item.Prompt))
	b.WriteString("\n\n")
	b.WriteString(renderOptions(item.Options, m.selected, -1, item.CorrectIndex, false))
	return b.String()
}

func (m *Model) feedbackView() string {
	var b strings.Builder
	b.WriteString(m.gauge())
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Width(m.width - 8).Render(m.lastItem.Prompt))
	b.WriteString("\n\n")
	b.WriteString(renderOptions(m.lastItem.Options, -1, m.chosen, m.lastItem.CorrectIndex, true))
	b.WriteString("\n")
	if m.last.Correct {
		b.WriteString(correctStyle.Render("Correct!"))
	} else {
		b.WriteString(incorrectStyle.Render(fmt.Sprintf("Wrong. The answer is %c) %s", 'A'+m.lastItem.CorrectIndex, m.lastItem.CorrectOption())))
	}
	b.WriteString("\n\n")
	switch {
	case m.explaining:
		b.WriteString(m.spinner.View() + dimStyle.Render(" Asking for an explanation..."))
	case m.explanation != "":
		b.WriteString(hintStyle.Width(m.width - 8).Render(m.explanation))
	}
	return b.String()
}
