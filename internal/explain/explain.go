// Package explain produces explanations and similar practice questions for
// assessment items, either from the bank text or from an LLM.
package explain

import (
	"context"
	"errors"

	"github.com/abhisek/aptiz/internal/sampler"
)

var (
	// ErrNoExplanation is returned when no explanation is available.
	ErrNoExplanation = errors.New("no explanation available")

	// ErrUnsupported is returned by explainers that cannot generate
	// similar questions.
	ErrUnsupported = errors.New("not supported by this explainer")
)

// Explainer turns a question into free-form help text. Output is passed
// through to the user as is.
type Explainer interface {
	// Explain returns a worked explanation of the item's correct answer.
	Explain(ctx context.Context, item sampler.SampledItem) (string, error)

	// Similar returns up to n new questions in the style of item.
	Similar(ctx context.Context, item sampler.SampledItem, n int) ([]string, error)
}

// Static serves the explanation stored in the bank.
type Static struct{}

func (Static) Explain(_ context.Context, item sampler.SampledItem) (string, error) {
	if item.Explanation == "" {
		return "", ErrNoExplanation
	}
	return item.Explanation, nil
}

func (Static) Similar(context.Context, sampler.SampledItem, int) ([]string, error) {
	return nil, ErrUnsupported
}

// Fallback tries Primary and, when it fails, Secondary.
type Fallback struct {
	Primary   Explainer
	Secondary Explainer
}

func (f Fallback) Explain(ctx context.Context, item sampler.SampledItem) (string, error) {
	text, err := f.Primary.Explain(ctx, item)
	if err == nil {
		return text, nil
	}
	if alt, altErr := f.Secondary.Explain(ctx, item); altErr == nil {
		return alt, nil
	}
	return "", err
}

func (f Fallback) Similar(ctx context.Context, item sampler.SampledItem, n int) ([]string, error) {
	out, err := f.Primary.Similar(ctx, item, n)
	if err == nil {
		return out, nil
	}
	if alt, altErr := f.Secondary.Similar(ctx, item, n); altErr == nil {
		return alt, nil
	}
	return nil, err
}
