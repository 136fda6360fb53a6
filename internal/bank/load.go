package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// document is the on-disk layout of a bank file.
type document struct {
	Version string         `json:"version"`
	Topics  []string       `json:"topics"`
	Items   []itemDocument `json:"items"`
}

type itemDocument struct {
	ID           string   `json:"id"`
	Topic        string   `json:"topic"`
	Difficulty   string   `json:"difficulty"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
	Scalable     bool     `json:"scalable,omitempty"`
}

// documentSchema is the JSON Schema every bank document must satisfy
// before structural validation runs.
var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"version", "topics", "items"},
	"properties": map[string]any{
		"version": map[string]any{"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+"},
		"topics": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string", "minLength": 1},
		},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "topic", "difficulty", "prompt", "options", "correct_index"},
				"properties": map[string]any{
					"id":         map[string]any{"type": "string", "minLength": 1},
					"topic":      map[string]any{"type": "string"},
					"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
					"prompt":     map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string"},
					},
					"correct_index": map[string]any{"type": "integer", "minimum": 0},
					"explanation":   map[string]any{"type": "string"},
					"scalable":      map[string]any{"type": "boolean"},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}

const documentSchemaURL = "schema://aptiz/bank.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, not Go literals.
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(documentSchemaURL)
	})
	return compiled, compileErr
}

// Load reads a bank document, validates it against the document schema and
// the structural item invariants, and builds a Bank.
func Load(r io.Reader) (*Bank, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse bank: %w", err)
	}
	sch, err := bankSchema()
	if err != nil {
		return nil, fmt.Errorf("compile bank schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("bank schema validation failed: %w", err)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}

	topics := make([]Topic, len(doc.Topics))
	for i, t := range doc.Topics {
		topics[i] = Topic(t)
	}
	items := make([]Item, len(doc.Items))
	for i, d := range doc.Items {
		items[i] = Item{
			ID:           d.ID,
			Topic:        Topic(d.Topic),
			Difficulty:   Difficulty(d.Difficulty),
			Prompt:       d.Prompt,
			Options:      d.Options,
			CorrectIndex: d.CorrectIndex,
			Explanation:  d.Explanation,
			Scalable:     d.Scalable,
		}
	}
	return New(doc.Version, topics, items)
}
