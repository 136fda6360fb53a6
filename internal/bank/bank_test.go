package bank

import (
	"errors"
	"strings"
	"testing"
)

func testTopics() []Topic {
	return []Topic{TopicPercentages, TopicVerbalAbility}
}

func testItem(id string, topic Topic, d Difficulty) Item {
	return Item{
		ID:           id,
		Topic:        topic,
		Difficulty:   d,
		Prompt:       "What is 10% of 50?",
		Options:      []string{"5", "10", "15", "20"},
		CorrectIndex: 0,
	}
}

func TestDefault_Loads(t *testing.T) {
	b := Default()
	if b.Len() != 43 {
		t.Errorf("got %d items, want 43", b.Len())
	}
	if got := len(b.Topics()); got != 10 {
		t.Errorf("got %d topics, want 10", got)
	}
	if b.Version() != "v1.0.0" {
		t.Errorf("got version %q, want v1.0.0", b.Version())
	}
}

func TestDefault_EveryTopicHasEveryTier(t *testing.T) {
	b := Default()
	for _, topic := range b.Topics() {
		counts := b.Count(topic)
		for _, d := range Difficulties() {
			if counts[d] == 0 {
				t.Errorf("topic %q has no %s items", topic, d)
			}
		}
	}
}

func TestDefault_TopicOrder(t *testing.T) {
	got := Default().Topics()
	if got[0] != TopicPercentages || got[len(got)-1] != TopicVerbalAbility {
		t.Errorf("unexpected topic order: %v", got)
	}
}

func TestDefault_ScalableOnlyInNumericTopics(t *testing.T) {
	numeric := make(map[Topic]bool)
	for _, topic := range NumericTopics() {
		numeric[topic] = true
	}
	for _, it := range Default().All() {
		if it.Scalable && !numeric[it.Topic] {
			t.Errorf("item %q in non-numeric topic %q is marked scalable", it.ID, it.Topic)
		}
	}
}

func TestGet(t *testing.T) {
	b := Default()
	it, ok := b.Get("pct-001")
	if !ok {
		t.Fatal("pct-001 not found")
	}
	if it.CorrectOption() != "100" {
		t.Errorf("got correct option %q, want 100", it.CorrectOption())
	}
	if _, ok := b.Get("nope"); ok {
		t.Error("expected missing item")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	b := Default()
	it, _ := b.Get("pct-001")
	it.Options[0] = "mutated"

	again, _ := b.Get("pct-001")
	for _, opt := range again.Options {
		if opt == "mutated" {
			t.Fatal("mutating a returned item changed the bank")
		}
	}
}

func TestByTopic(t *testing.T) {
	items := Default().ByTopic(TopicPercentages)
	if len(items) != 6 {
		t.Fatalf("got %d percentage items, want 6", len(items))
	}
	for _, it := range items {
		if it.Topic != TopicPercentages {
			t.Errorf("item %q has topic %q", it.ID, it.Topic)
		}
	}
	if got := Default().ByTopic("Astrology"); len(got) != 0 {
		t.Errorf("unknown topic returned %d items", len(got))
	}
}

func TestHasTopic(t *testing.T) {
	b := Default()
	if !b.HasTopic(TopicRatios) {
		t.Error("expected Ratios to be a bank topic")
	}
	if b.HasTopic("Astrology") {
		t.Error("unexpected topic Astrology")
	}
}

func TestNew_Valid(t *testing.T) {
	b, err := New("v1.0.0", testTopics(), []Item{
		testItem("a", TopicPercentages, Easy),
		testItem("b", TopicVerbalAbility, Hard),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("got %d items, want 2", b.Len())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		version string
		items   []Item
		want    string
	}{
		{
			name:    "bad version",
			version: "1.0",
			items:   []Item{testItem("a", TopicPercentages, Easy)},
			want:    "not a valid semantic version",
		},
		{
			name:    "duplicate id",
			version: "v1.0.0",
			items:   []Item{testItem("a", TopicPercentages, Easy), testItem("a", TopicPercentages, Hard)},
			want:    `duplicate item ID "a"`,
		},
		{
			name:    "unknown topic",
			version: "v1.0.0",
			items:   []Item{testItem("a", "Astrology", Easy)},
			want:    "unknown topic",
		},
		{
			name:    "bad difficulty",
			version: "v1.0.0",
			items:   []Item{testItem("a", TopicPercentages, "impossible")},
			want:    "difficulty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.version, testTopics(), tt.items)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateItem(t *testing.T) {
	topics := map[Topic]bool{TopicPercentages: true}

	tests := []struct {
		name   string
		mutate func(*Item)
		want   error
	}{
		{"ok", func(*Item) {}, nil},
		{"empty id", func(it *Item) { it.ID = " " }, ErrInvalidItem},
		{"unknown topic", func(it *Item) { it.Topic = "Astrology" }, ErrUnknownTopic},
		{"empty prompt", func(it *Item) { it.Prompt = "" }, ErrInvalidItem},
		{"one option", func(it *Item) { it.Options = []string{"5"} }, ErrInvalidItem},
		{"index too high", func(it *Item) { it.CorrectIndex = 4 }, ErrInvalidItem},
		{"negative index", func(it *Item) { it.CorrectIndex = -1 }, ErrInvalidItem},
		{"empty option", func(it *Item) { it.Options[2] = "  " }, ErrInvalidItem},
		{"duplicate option", func(it *Item) { it.Options[1] = "5" }, ErrInvalidItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := testItem("x", TopicPercentages, Medium)
			tt.mutate(&it)
			err := ValidateItem(it, topics)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"", AnyDifficulty, false},
		{"all", AnyDifficulty, false},
		{"easy", Easy, false},
		{"hard", Hard, false},
		{"expert", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
