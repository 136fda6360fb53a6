// Package progress keeps the per-user history of finished sessions and the
// per-topic aggregates derived from it.
package progress

import (
	"time"

	"github.com/abhisek/aptiz/internal/bank"
)

// PassThreshold is the minimum fraction of correct answers for a pass.
const PassThreshold = 0.7

// AnswerLog records the outcome of one answered question.
type AnswerLog struct {
	ItemID  string     `json:"item_id"`
	Topic   bank.Topic `json:"topic"`
	Correct bool       `json:"correct"`
}

// SessionRecord is the immutable summary of a finished session.
type SessionRecord struct {
	ID            string          `json:"id"`
	UID           string          `json:"uid"`
	Mode          string          `json:"mode"`
	Topics        []bank.Topic    `json:"topics"`
	Difficulty    bank.Difficulty `json:"difficulty"`
	QuestionCount int             `json:"question_count"`
	Correct       int             `json:"correct"`
	Wrong         int             `json:"wrong"`
	StartedAt     time.Time       `json:"started_at"`
	EndedAt       time.Time       `json:"ended_at"`
	DurationSec   int             `json:"duration_sec"`
	Timed         bool            `json:"timed"`
	TimeLimitSec  int             `json:"time_limit_sec,omitempty"`
	Passed        bool            `json:"passed"`
	Score         int             `json:"score"`
	Answers       []AnswerLog     `json:"answers,omitempty"`
}

// Passed reports whether correct out of questionCount meets PassThreshold.
// A session without questions never passes.
func Passed(correct, questionCount int) bool {
	if questionCount <= 0 {
		return false
	}
	return float64(correct)/float64(questionCount) >= PassThreshold
}

// Accuracy returns the fraction of questions answered correctly.
func (r SessionRecord) Accuracy() float64 {
	if r.QuestionCount == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.QuestionCount)
}

// TopicAggregate is the accuracy summary of one topic.
type TopicAggregate struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
}

// Accuracy returns Correct / (Correct + Wrong).
func (a TopicAggregate) Accuracy() float64 {
	if a.Correct+a.Wrong == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Correct+a.Wrong)
}

// Aggregate summarises a user's history.
type Aggregate struct {
	Sessions int
	ByTopic  map[bank.Topic]TopicAggregate
}

// Fold credits every session's full correct and wrong counts to each topic
// it lists. A multi-topic session therefore counts once per topic.
func Fold(records []SessionRecord) Aggregate {
	agg := Aggregate{Sessions: len(records), ByTopic: make(map[bank.Topic]TopicAggregate)}
	for _, r := range records {
		for _, t := range r.Topics {
			ta := agg.ByTopic[t]
			ta.Attempts++
			ta.Correct += r.Correct
			ta.Wrong += r.Wrong
			agg.ByTopic[t] = ta
		}
	}
	return agg
}

// FoldAttributed credits each answered question to its own topic. Attempts
// counts the sessions in which the topic was answered at least once.
// Records written without an answer log fall back to Fold's crediting.
func FoldAttributed(records []SessionRecord) Aggregate {
	agg := Aggregate{Sessions: len(records), ByTopic: make(map[bank.Topic]TopicAggregate)}
	for _, r := range records {
		if len(r.Answers) == 0 {
			for t, ta := range Fold([]SessionRecord{r}).ByTopic {
				agg.ByTopic[t] = add(agg.ByTopic[t], ta)
			}
			continue
		}

		perSession := make(map[bank.Topic]TopicAggregate)
		for _, a := range r.Answers {
			ta := perSession[a.Topic]
			ta.Attempts = 1
			if a.Correct {
				ta.Correct++
			} else {
				ta.Wrong++
			}
			perSession[a.Topic] = ta
		}
		for t, ta := range perSession {
			agg.ByTopic[t] = add(agg.ByTopic[t], ta)
		}
	}
	return agg
}

func add(a, b TopicAggregate) TopicAggregate {
	return TopicAggregate{
		Attempts: a.Attempts + b.Attempts,
		Correct:  a.Correct + b.Correct,
		Wrong:    a.Wrong + b.Wrong,
	}
}
