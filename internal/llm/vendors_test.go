package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"
)

const explanationReply = `{"letter":"B"}`

// wire records the requests an httptest server received.
type wire struct {
	mu   sync.Mutex
	reqs []string
}

func (w *wire) add(r string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reqs = append(w.reqs, r)
}

func (w *wire) all() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.reqs...)
}

func serve(t *testing.T, status int, header map[string]string, body any) (*httptest.Server, *wire) {
	t.Helper()
	rec := &wire{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.add(r.URL.Path + " " + string(b))
		w.Header().Set("Content-Type", "application/json")
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropic(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		srv, reqs := serve(t, http.StatusOK, nil, anthropicMessage(explanationReply, "end_turn"))
		p, err := newAnthropic(VendorConfig{APIKey: "k", Model: "claude-haiku", BaseURL: srv.URL})
		if err != nil {
			t.Fatal(err)
		}
		if p.ModelID() != "claude-haiku-4-5-20251001" {
			t.Errorf("model id = %q", p.ModelID())
		}
		resp, err := p.Generate(context.Background(), Request{
			System: "You are an exam tutor.", Prompt: "Explain.", Schema: answerSchema, MaxTokens: 256,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Content) != explanationReply {
			t.Errorf("content = %s", resp.Content)
		}
		if resp.Usage.Total() != 80 {
			t.Errorf("usage = %+v", resp.Usage)
		}
		if got := reqs.all(); len(got) != 1 || !strings.Contains(got[0], "You are an exam tutor.") {
			t.Errorf("requests = %v", got)
		}
	})

	t.Run("max tokens", func(t *testing.T) {
		srv, _ := serve(t, http.StatusOK, nil, anthropicMessage(`{"letter":`, "max_tokens"))
		p, _ := newAnthropic(VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: answerSchema, MaxTokens: 5})
		if kind, _ := KindOf(err); kind != KindTruncated {
			t.Fatalf("error = %v, want truncated", err)
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		srv, reqs := serve(t, http.StatusTooManyRequests, map[string]string{"Retry-After": "7"},
			map[string]any{"type": "error", "error": map[string]any{"type": "rate_limit_error", "message": "slow down"}})
		p, _ := newAnthropic(VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 10})
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindRateLimited || e.RetryAfter != 7*time.Second {
			t.Fatalf("error = %#v", err)
		}
		if n := len(reqs.all()); n != 1 {
			t.Errorf("SDK retried: %d requests", n)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv, _ := serve(t, http.StatusInternalServerError, nil,
			map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "boom"}})
		p, _ := newAnthropic(VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 10})
		if kind, ok := KindOf(err); !ok || kind != KindUnavailable {
			t.Fatalf("error = %v, want unavailable", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if _, err := newAnthropic(VendorConfig{}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func openaiCompletion(text, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4.1-mini-2025-04-14",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": text},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 6, "total_tokens": 26},
	}
}

func TestOpenAI(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		srv, reqs := serve(t, http.StatusOK, nil, openaiCompletion(explanationReply, "stop"))
		p, err := newOpenAI(VendorConfig{APIKey: "k", Model: "gpt-mini", BaseURL: srv.URL})
		if err != nil {
			t.Fatal(err)
		}
		resp, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "Explain.", Schema: answerSchema})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Model != "gpt-4.1-mini-2025-04-14" || resp.Usage.InputTokens != 20 {
			t.Errorf("resp = %+v", resp)
		}
		req := reqs.all()[0]
		if !strings.HasPrefix(req, "/chat/completions ") {
			t.Errorf("path = %s", req)
		}
		for _, want := range []string{`"model":"gpt-4.1-mini"`, `"json_schema"`, `"name":"answer"`} {
			if !strings.Contains(req, want) {
				t.Errorf("request missing %s: %s", want, req)
			}
		}
	})

	t.Run("length", func(t *testing.T) {
		srv, _ := serve(t, http.StatusOK, nil, openaiCompletion(`{"letter"`, "length"))
		p, _ := newOpenAI(VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: answerSchema})
		if kind, _ := KindOf(err); kind != KindTruncated {
			t.Fatalf("error = %v, want truncated", err)
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		srv, _ := serve(t, http.StatusTooManyRequests, nil,
			map[string]any{"error": map[string]any{"message": "slow down", "type": "requests", "code": "rate_limit_exceeded"}})
		p, _ := newOpenAI(VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x"})
		if kind, _ := KindOf(err); kind != KindRateLimited {
			t.Fatalf("error = %v, want rate limited", err)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		body := openaiCompletion("", "stop")
		body["choices"] = []any{}
		srv, _ := serve(t, http.StatusOK, nil, body)
		p, _ := newOpenAI(VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x"})
		if kind, _ := KindOf(err); kind != KindInvalidOutput {
			t.Fatalf("error = %v, want invalid output", err)
		}
	})
}

func TestOpenRouterUsesOpenAIWireFormat(t *testing.T) {
	srv, reqs := serve(t, http.StatusOK, nil, openaiCompletion(explanationReply, "stop"))
	p, err := newOpenRouter(VendorConfig{APIKey: "k", Model: "google/gemini-2.5-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: answerSchema}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reqs.all()[0], `"model":"google/gemini-2.5-flash"`) {
		t.Errorf("request = %s", reqs.all()[0])
	}
	if _, err := newOpenRouter(VendorConfig{}); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestGemini(t *testing.T) {
	reply := map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": explanationReply}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 9, "candidatesTokenCount": 3, "totalTokenCount": 12},
		"modelVersion":  "gemini-2.5-flash",
	}

	t.Run("reply", func(t *testing.T) {
		srv, reqs := serve(t, http.StatusOK, nil, reply)
		p, err := newGemini(context.Background(), VendorConfig{APIKey: "k", Model: "gemini-flash", BaseURL: srv.URL})
		if err != nil {
			t.Fatal(err)
		}
		resp, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "Explain.", Schema: answerSchema})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Content) != explanationReply || resp.Usage.Total() != 12 {
			t.Errorf("resp = %+v", resp)
		}
		if !strings.Contains(reqs.all()[0], "gemini-2.5-flash:generateContent") {
			t.Errorf("request = %s", reqs.all()[0])
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		srv, _ := serve(t, http.StatusTooManyRequests, nil,
			map[string]any{"error": map[string]any{"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}})
		p, _ := newGemini(context.Background(), VendorConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), Request{Prompt: "x"})
		if kind, _ := KindOf(err); kind != KindRateLimited {
			t.Fatalf("error = %v, want rate limited", err)
		}
	})
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "description": "why"},
			"tier":        map[string]any{"type": "string", "enum": []any{"critical", "high"}},
			"actions":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"hours":       map[string]any{"type": "number"},
		},
		"required":             []string{"explanation"},
		"additionalProperties": false,
	})

	if s.Type != genai.TypeObject || len(s.Properties) != 4 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Properties["explanation"].Description != "why" {
		t.Errorf("description lost")
	}
	if got := s.Properties["tier"].Enum; len(got) != 2 || got[0] != "critical" {
		t.Errorf("enum = %v", got)
	}
	if a := s.Properties["actions"]; a.Type != genai.TypeArray || a.Items.Type != genai.TypeString {
		t.Errorf("actions = %+v", a)
	}
	if s.Properties["hours"].Type != genai.TypeNumber {
		t.Errorf("hours type = %s", s.Properties["hours"].Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "explanation" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct{ vendor, in, want string }{
		{ProviderAnthropic, "claude-haiku", "claude-haiku-4-5-20251001"},
		{ProviderGemini, "gemini-flash", "gemini-2.5-flash"},
		{ProviderOpenAI, "gpt-mini", "gpt-4.1-mini"},
		{ProviderOpenAI, "gpt-4o", "gpt-4o"},
		{ProviderGemini, "claude-haiku", "claude-haiku"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.vendor, tt.in); got != tt.want {
			t.Errorf("resolveModel(%s, %s) = %s, want %s", tt.vendor, tt.in, got, tt.want)
		}
	}
}
