package explain

import "github.com/abhisek/aptiz/internal/llm"

// ExplanationSchema defines the JSON schema for an answer explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Step-by-step explanation of why the correct option is right",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Worked solution in 2-6 short sentences ending with the correct option",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

// SimilarSchema defines the JSON schema for similar practice questions.
var SimilarSchema = &llm.Schema{
	Name:        "similar-questions",
	Description: "New multiple-choice questions testing the same concept",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Each entry is one complete question with its options and answer",
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
