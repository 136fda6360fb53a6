package bank

import (
	"fmt"
	"slices"
)

// Topic names an aptitude area. The set of topics is fixed by the bank
// document the Bank was built from.
type Topic string

const (
	TopicPercentages      Topic = "Percentages"
	TopicAverages         Topic = "Averages"
	TopicRatios           Topic = "Ratios"
	TopicProfitLoss       Topic = "Profit and Loss"
	TopicSimpleInterest   Topic = "Simple Interest"
	TopicSpeedDistance    Topic = "Speed and Distance"
	TopicTimeWork         Topic = "Time and Work"
	TopicNumberSeries     Topic = "Number Series"
	TopicLogicalReasoning Topic = "Logical Reasoning"
	TopicVerbalAbility    Topic = "Verbal Ability"
)

// NumericTopics returns the topics whose items are arithmetic-heavy and may
// carry numerically perturbable prompts.
func NumericTopics() []Topic {
	return []Topic{
		TopicPercentages,
		TopicAverages,
		TopicRatios,
		TopicProfitLoss,
		TopicSimpleInterest,
		TopicSpeedDistance,
		TopicTimeWork,
	}
}

// Difficulty is the bank tier of an item.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"

	// AnyDifficulty matches every tier when used as a filter.
	AnyDifficulty Difficulty = "all"
)

// Difficulties returns the concrete tiers from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Valid reports whether d is one of the concrete tiers.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties(), d)
}

// ParseDifficulty parses a difficulty filter. The empty string and "all"
// both yield AnyDifficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); {
	case s == "" || d == AnyDifficulty:
		return AnyDifficulty, nil
	case d.Valid():
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium, hard or all)", s)
	}
}

// Item is a single multiple-choice assessment question. Items are created
// once when a bank is loaded and never mutated afterwards.
type Item struct {
	ID           string
	Topic        Topic
	Difficulty   Difficulty
	Prompt       string
	Options      []string
	CorrectIndex int
	Explanation  string

	// Scalable marks items reviewed as linear in every non-percent numeric
	// literal of the prompt and options, so scaling all of them by one
	// factor keeps the marked answer correct.
	Scalable bool
}

// CorrectOption returns the text of the correct option.
func (it Item) CorrectOption() string {
	return it.Options[it.CorrectIndex]
}

// clone returns a copy of the item that shares no slices with it.
func (it Item) clone() Item {
	it.Options = slices.Clone(it.Options)
	return it
}
