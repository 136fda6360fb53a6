package llm

import (
	"slices"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"level": map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
		},
		"required": []any{"questions"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %v", s.Type)
	}
	q := s.Properties["questions"]
	if q == nil || q.Type != genai.TypeArray || q.Items == nil || q.Items.Type != genai.TypeString {
		t.Fatalf("questions schema = %+v", q)
	}
	if !slices.Equal(s.Properties["level"].Enum, []string{"easy", "hard"}) {
		t.Errorf("enum = %v", s.Properties["level"].Enum)
	}
	if !slices.Equal(s.Required, []string{"questions"}) {
		t.Errorf("required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		aliases map[string]string
		in      string
		want    string
	}{
		{geminiAliases, "gemini-flash", "gemini-2.0-flash"},
		{geminiAliases, "gemini-2.5-flash", "gemini-2.5-flash"},
		{anthropicAliases, "claude-haiku", "claude-haiku-4-5-20251001"},
		{openaiAliases, "gpt-mini", "gpt-4o-mini"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
