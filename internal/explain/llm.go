package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/aptiz/internal/llm"
	"github.com/abhisek/aptiz/internal/sampler"
)

// Purpose labels recorded with each LLM request.
const (
	PurposeExplain = "explain"
	PurposeSimilar = "similar"
)

// LLM generates explanations and similar questions with an llm.Provider.
type LLM struct {
	provider llm.Provider
	cfg      Config
}

// NewLLM creates an LLM-backed explainer.
func NewLLM(provider llm.Provider, cfg Config) *LLM {
	return &LLM{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
}

type similarOutput struct {
	Questions []string `json:"questions"`
}

func (e *LLM) Explain(ctx context.Context, item sampler.SampledItem) (string, error) {
	ctx = llm.WithPurpose(ctx, PurposeExplain)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildExplainMessage(item)}},
		Schema:      ExplanationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explanation generation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse explanation response: %w", err)
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return "", ErrNoExplanation
	}
	return text, nil
}

func (e *LLM) Similar(ctx context.Context, item sampler.SampledItem, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	if e.cfg.MaxSimilar > 0 {
		n = min(n, e.cfg.MaxSimilar)
	}
	ctx = llm.WithPurpose(ctx, PurposeSimilar)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildSimilarMessage(item, n)}},
		Schema:      SimilarSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("similar question generation: %w", err)
	}

	var out similarOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse similar questions response: %w", err)
	}

	questions := make([]string, 0, len(out.Questions))
	for _, q := range out.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions, nil
}
