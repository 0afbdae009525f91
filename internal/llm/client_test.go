package llm

import (
	"context"
	"encoding/json"
	"testing"
)

type fakeBackend struct {
	out completion
	err error
	got Request
}

func (f *fakeBackend) complete(_ context.Context, _ string, req Request) (completion, error) {
	f.got = req
	return f.out, f.err
}

var answerSchema = &Schema{
	Name: "answer",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"letter": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}}},
		"required":             []any{"letter"},
		"additionalProperties": false,
	},
}

func TestClientValidatesAgainstSchema(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKind Kind
		wantErr  bool
	}{
		{"valid", `{"letter":"B"}`, 0, false},
		{"fenced", "```json\n{\"letter\":\"C\"}\n```", 0, false},
		{"outside enum", `{"letter":"E"}`, KindInvalidOutput, true},
		{"not json", `letter B`, KindInvalidOutput, true},
		{"empty", ``, KindInvalidOutput, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &client{model: "m", backend: &fakeBackend{out: completion{text: tt.text}}}
			resp, err := c.Generate(context.Background(), Request{Prompt: "p", Schema: answerSchema})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !json.Valid(resp.Content) {
					t.Errorf("content is not JSON: %s", resp.Content)
				}
				return
			}
			kind, ok := KindOf(err)
			if !ok || kind != tt.wantKind {
				t.Fatalf("error = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestClientTruncated(t *testing.T) {
	c := &client{model: "m", backend: &fakeBackend{out: completion{text: `{"letter":`, truncated: true}}}
	_, err := c.Generate(context.Background(), Request{Schema: answerSchema})
	if kind, ok := KindOf(err); !ok || kind != KindTruncated {
		t.Fatalf("error = %v, want truncated", err)
	}
}

func TestClientPlainTextIsQuoted(t *testing.T) {
	c := &client{model: "m", backend: &fakeBackend{out: completion{text: `Mitochondria make "ATP".`}}}
	resp, err := c.Generate(context.Background(), Request{Prompt: "why"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s string
	if err := json.Unmarshal(resp.Content, &s); err != nil || s != `Mitochondria make "ATP".` {
		t.Fatalf("content = %s (%v)", resp.Content, err)
	}
}

func TestClientModelFallsBackToConfigured(t *testing.T) {
	c := &client{model: "configured", backend: &fakeBackend{out: completion{text: "ok"}}}
	resp, err := c.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "configured" || c.ModelID() != "configured" {
		t.Errorf("model = %q", resp.Model)
	}

	c.backend = &fakeBackend{out: completion{text: "ok", model: "served-2025"}}
	resp, _ = c.Generate(context.Background(), Request{})
	if resp.Model != "served-2025" {
		t.Errorf("model = %q, want served-2025", resp.Model)
	}
}

func TestUnfence(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}\n":           `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```\n":   `{"a":1}`,
		"```{\"a\":1}```":         `{"a":1}`,
	}
	for in, want := range tests {
		if got := unfence(in); got != want {
			t.Errorf("unfence(%q) = %q, want %q", in, got, want)
		}
	}
}
