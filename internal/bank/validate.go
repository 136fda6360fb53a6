package bank

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	ErrUnknownTopic = errors.New("unknown topic")
	ErrInvalidItem  = errors.New("invalid item")
)

// ValidateItem checks the structural invariants of a single item against
// the given topic set.
func ValidateItem(it Item, topics map[Topic]bool) error {
	switch {
	case strings.TrimSpace(it.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	case !topics[it.Topic]:
		return fmt.Errorf("item %q: %w %q", it.ID, ErrUnknownTopic, it.Topic)
	case !it.Difficulty.Valid():
		return fmt.Errorf("%w %q: difficulty %q", ErrInvalidItem, it.ID, it.Difficulty)
	case strings.TrimSpace(it.Prompt) == "":
		return fmt.Errorf("%w %q: empty prompt", ErrInvalidItem, it.ID)
	case len(it.Options) < 2:
		return fmt.Errorf("%w %q: needs at least 2 options, has %d", ErrInvalidItem, it.ID, len(it.Options))
	case it.CorrectIndex < 0 || it.CorrectIndex >= len(it.Options):
		return fmt.Errorf("%w %q: correct index %d out of range [0,%d)", ErrInvalidItem, it.ID, it.CorrectIndex, len(it.Options))
	}

	seen := make(map[string]bool, len(it.Options))
	for _, opt := range it.Options {
		key := strings.TrimSpace(opt)
		if key == "" {
			return fmt.Errorf("%w %q: empty option", ErrInvalidItem, it.ID)
		}
		if seen[key] {
			return fmt.Errorf("%w %q: duplicate option %q", ErrInvalidItem, it.ID, opt)
		}
		seen[key] = true
	}
	return nil
}

// validateBank performs all structural checks on a bank.
// Returns a combined error describing all problems found, or nil if valid.
func validateBank(version string, topics []Topic, items []Item) error {
	var errs []string

	if !semver.IsValid(version) {
		errs = append(errs, fmt.Sprintf("bank version %q is not a valid semantic version", version))
	}

	topicSet := make(map[Topic]bool, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(string(t)) == "" {
			errs = append(errs, "empty topic name")
			continue
		}
		if topicSet[t] {
			errs = append(errs, fmt.Sprintf("duplicate topic %q", t))
		}
		topicSet[t] = true
	}

	ids := make(map[string]bool, len(items))
	for _, it := range items {
		if ids[it.ID] {
			errs = append(errs, fmt.Sprintf("duplicate item ID %q", it.ID))
		}
		ids[it.ID] = true
		if err := ValidateItem(it, topicSet); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("bank validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
