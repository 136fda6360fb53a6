// Package session implements the Practice and Challenge state machines that
// run a drawn list of questions to completion.
package session

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/sampler"
)

// Mode distinguishes the two session kinds.
type Mode string

const (
	ModePractice  Mode = "practice"
	ModeChallenge Mode = "challenge"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusPending  Status = "pending"
	StatusMatching Status = "matching" // challenge only, cosmetic
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

var (
	// ErrNotFinished is returned when archiving a session that is still open.
	ErrNotFinished = errors.New("session not finished")

	// ErrAlreadyArchived is returned when a session is archived twice.
	ErrAlreadyArchived = errors.New("session already archived")
)

// Clock returns the current time.
type Clock func() time.Time

// Result is reported after each accepted answer.
type Result struct {
	Index        int
	Correct      bool
	CorrectIndex int
	Score        int
	Wrong        int
	Finished     bool
}

// Session holds the state shared by Practice and Challenge. It is owned by
// a single caller and is not safe for concurrent use.
type Session struct {
	ID         string
	Mode       Mode
	Difficulty bank.Difficulty

	// Topics is the requested filter; empty means every topic.
	Topics []bank.Topic
	Items  []sampler.SampledItem

	// OnAnswer, if set, is called after each accepted answer. Answers
	// submitted from inside the hook are ignored.
	OnAnswer func(Result)

	status       Status
	currentIndex int
	score        int
	wrong        int
	maxWrong     int
	timeLimitSec int
	startedAt    time.Time
	endedAt      time.Time
	answers      []progress.AnswerLog
	inFlight     bool
	archived     bool
	clock        Clock
}

func newSession(mode Mode, d bank.Difficulty, topics []bank.Topic, items []sampler.SampledItem, clock Clock) *Session {
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		ID:         uuid.New().String(),
		Mode:       mode,
		Difficulty: d,
		Topics:     slices.Clone(topics),
		Items:      items,
		status:     StatusPending,
		clock:      clock,
	}
}

func (s *Session) Status() Status       { return s.status }
func (s *Session) Finished() bool       { return s.status == StatusFinished }
func (s *Session) CurrentIndex() int    { return s.currentIndex }
func (s *Session) Score() int           { return s.score }
func (s *Session) Wrong() int           { return s.wrong }
func (s *Session) MaxWrong() int        { return s.maxWrong }
func (s *Session) TimeLimitSec() int    { return s.timeLimitSec }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) EndedAt() time.Time   { return s.endedAt }
func (s *Session) Archived() bool       { return s.archived }

// Answers returns the per-question log of accepted answers.
func (s *Session) Answers() []progress.AnswerLog {
	return slices.Clone(s.answers)
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (sampler.SampledItem, bool) {
	if s.status != StatusRunning || s.currentIndex >= len(s.Items) {
		return sampler.SampledItem{}, false
	}
	return s.Items[s.currentIndex], true
}

// start moves a pending or matching session to running. A session without
// items finishes at once.
func (s *Session) start() bool {
	if s.status != StatusPending && s.status != StatusMatching {
		return false
	}
	s.status = StatusRunning
	s.startedAt = s.clock()
	if len(s.Items) == 0 {
		s.finish()
	}
	return true
}

func (s *Session) finish() {
	if s.status == StatusFinished {
		return
	}
	s.status = StatusFinished
	s.endedAt = s.clock()
	if s.startedAt.IsZero() {
		s.startedAt = s.endedAt
	}
}

// Answer scores choice for the question at index. It reports false and
// changes nothing when the session is not running, when index is not the
// current question, when choice is not one of its options, or when called
// from inside OnAnswer.
func (s *Session) Answer(index, choice int) (Result, bool) {
	if s.status != StatusRunning || s.inFlight || index != s.currentIndex || index >= len(s.Items) {
		return Result{}, false
	}
	if choice < 0 || choice >= len(s.Items[index].Options) {
		return Result{}, false
	}
	s.inFlight = true
	defer func() { s.inFlight = false }()

	item := s.Items[index]
	correct := item.IsCorrect(choice)
	out := Score(s.score, s.wrong, correct, s.maxWrong)
	s.score, s.wrong = out.Score, out.Wrong
	s.answers = append(s.answers, progress.AnswerLog{ItemID: item.ID, Topic: item.Topic, Correct: correct})
	s.currentIndex++

	if out.Finished || s.currentIndex >= len(s.Items) {
		s.finish()
	}

	res := Result{
		Index:        index,
		Correct:      correct,
		CorrectIndex: item.CorrectIndex,
		Score:        s.score,
		Wrong:        s.wrong,
		Finished:     s.status == StatusFinished,
	}
	if s.OnAnswer != nil {
		s.OnAnswer(res)
	}
	return res, true
}

// Archive builds the session's record for uid exactly once. Later calls
// return ErrAlreadyArchived.
func (s *Session) Archive(uid string) (progress.SessionRecord, error) {
	if s.archived {
		return progress.SessionRecord{}, ErrAlreadyArchived
	}
	rec, err := s.Record(uid)
	if err != nil {
		return progress.SessionRecord{}, err
	}
	s.archived = true
	return rec, nil
}

// Record builds a record of a finished session for uid. Each call yields a
// fresh record ID; use Archive to store a session.
func (s *Session) Record(uid string) (progress.SessionRecord, error) {
	if s.status != StatusFinished {
		return progress.SessionRecord{}, ErrNotFinished
	}
	id, err := uuid.NewV7()
	if err != nil {
		return progress.SessionRecord{}, fmt.Errorf("generate record id: %w", err)
	}

	topics := slices.Clone(s.Topics)
	if len(topics) == 0 {
		for _, it := range s.Items {
			if !slices.Contains(topics, it.Topic) {
				topics = append(topics, it.Topic)
			}
		}
	}
	if topics == nil {
		topics = []bank.Topic{}
	}

	return progress.SessionRecord{
		ID:            id.String(),
		UID:           uid,
		Mode:          string(s.Mode),
		Topics:        topics,
		Difficulty:    s.Difficulty,
		QuestionCount: len(s.Items),
		Correct:       s.score,
		Wrong:         s.wrong,
		StartedAt:     s.startedAt,
		EndedAt:       s.endedAt,
		DurationSec:   int(s.endedAt.Sub(s.startedAt).Round(time.Second) / time.Second),
		Timed:         s.timeLimitSec > 0,
		TimeLimitSec:  s.timeLimitSec,
		Passed:        progress.Passed(s.score, len(s.Items)),
		Score:         s.score,
		Answers:       s.Answers(),
	}, nil
}
