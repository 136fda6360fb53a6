package bank

import (
	"slices"
)

// Bank is an immutable in-memory catalog of assessment items with
// precomputed indices.
type Bank struct {
	version string
	topics  []Topic
	items   []Item
	byID    map[string]int
	byTopic map[Topic][]int
}

// New validates the given topics and items and builds a Bank from them.
// The topic order given here is the order Topics reports.
func New(version string, topics []Topic, items []Item) (*Bank, error) {
	if err := validateBank(version, topics, items); err != nil {
		return nil, err
	}

	b := &Bank{
		version: version,
		topics:  slices.Clone(topics),
		items:   make([]Item, len(items)),
		byID:    make(map[string]int, len(items)),
		byTopic: make(map[Topic][]int, len(topics)),
	}
	for i, it := range items {
		b.items[i] = it.clone()
		b.byID[it.ID] = i
		b.byTopic[it.Topic] = append(b.byTopic[it.Topic], i)
	}
	return b, nil
}

// Version returns the semantic version of the bank document.
func (b *Bank) Version() string {
	return b.version
}

// Topics returns the bank's topics in declared order.
func (b *Bank) Topics() []Topic {
	return slices.Clone(b.topics)
}

// HasTopic reports whether t is one of the bank's topics.
func (b *Bank) HasTopic(t Topic) bool {
	return slices.Contains(b.topics, t)
}

// All returns a copy of every item in load order.
func (b *Bank) All() []Item {
	out := make([]Item, len(b.items))
	for i, it := range b.items {
		out[i] = it.clone()
	}
	return out
}

// Len returns the number of items in the bank.
func (b *Bank) Len() int {
	return len(b.items)
}

// Get returns the item with the given ID.
func (b *Bank) Get(id string) (Item, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Item{}, false
	}
	return b.items[i].clone(), true
}

// ByTopic returns copies of the items tagged with topic, in load order.
func (b *Bank) ByTopic(topic Topic) []Item {
	idx := b.byTopic[topic]
	out := make([]Item, len(idx))
	for i, j := range idx {
		out[i] = b.items[j].clone()
	}
	return out
}

// Count returns the number of items per difficulty for a topic.
func (b *Bank) Count(topic Topic) map[Difficulty]int {
	counts := make(map[Difficulty]int, 3)
	for _, j := range b.byTopic[topic] {
		counts[b.items[j].Difficulty]++
	}
	return counts
}
