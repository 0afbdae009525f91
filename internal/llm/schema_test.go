package llm

import (
	"encoding/json"
	"testing"
)

func TestSchemaValidate(t *testing.T) {
	s := &Schema{
		Name: "tips",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tips": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"tips"},
		},
	}

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"tips":["read","drill"]}`, false},
		{"empty list", `{"tips":[]}`, false},
		{"missing field", `{}`, true},
		{"wrong item type", `{"tips":[1]}`, true},
		{"not json", `{"tips":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if kind, _ := KindOf(err); kind != KindInvalidOutput {
					t.Errorf("kind = %s, want invalid output", kind)
				}
			}
		})
	}
}

func TestSchemaNilAcceptsAnything(t *testing.T) {
	var s *Schema
	if err := s.Validate(json.RawMessage(`not json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchemaBadDefinition(t *testing.T) {
	s := &Schema{Name: "broken", Definition: map[string]any{"type": 42}}
	if err := s.Validate(json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected compile error")
	}
	// The compile error is cached, not retried.
	if err := s.Validate(json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected cached compile error")
	}
}
