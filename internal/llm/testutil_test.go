package llm

import (
	"context"
	"sync"

	"github.com/abhisek/aptiz/internal/store"
)

var answerSchema = &Schema{
	Name: "test-answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{"type": "string"},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}

func explainRequest() Request {
	return Request{
		System:    "You explain aptitude questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Why is 20% of 500 equal to 100?"}},
		Schema:    answerSchema,
		MaxTokens: 256,
	}
}

// recordingRepo captures appended events. Other EventRepo methods are
// not used by the providers.
type recordingRepo struct {
	store.EventRepo

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, data)
	return nil
}
