package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/examprep/examprep/internal/store"
)

type eventSink struct {
	store.EventRepo
	got []store.LLMRequestEventData
	err error
}

func (s *eventSink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.got = append(s.got, data)
	return s.err
}

func TestLoggingRecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"letter":"A"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 5},
	})
	sink := &eventSink{}
	p := WithLogging(mock, ProviderMock, sink, nil)

	ctx := WithPurpose(context.Background(), PurposeExplanation)
	if _, err := p.Generate(ctx, Request{System: "tutor", Prompt: "why B?", Schema: answerSchema}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.got) != 1 {
		t.Fatalf("events = %d, want 1", len(sink.got))
	}
	e := sink.got[0]
	if e.Provider != ProviderMock || e.Purpose != string(PurposeExplanation) || !e.Success || e.Model != "mock" {
		t.Errorf("event = %+v", e)
	}
	if e.InputTokens != 12 || e.OutputTokens != 5 {
		t.Errorf("tokens = %d/%d, want 12/5", e.InputTokens, e.OutputTokens)
	}
	if e.ResponseBody != `{"letter":"A"}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
	for _, want := range []string{"[system]\ntutor", "[user]\nwhy B?", "[schema answer]"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
}

func TestLoggingRecordsFailure(t *testing.T) {
	sink := &eventSink{}
	p := WithLogging(NewMockProvider(MockResponse{Err: errors.New("boom")}), ProviderMock, sink, nil)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if len(sink.got) != 1 || sink.got[0].Success || sink.got[0].ErrorMessage != "boom" {
		t.Fatalf("events = %+v", sink.got)
	}
	if sink.got[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", sink.got[0].Purpose)
	}
}

func TestLoggingKeepsRejectedReply(t *testing.T) {
	sink := &eventSink{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"letter":"Z"}`)})
	p := WithLogging(mock, ProviderMock, sink, nil)

	if _, err := p.Generate(context.Background(), Request{Schema: answerSchema}); err == nil {
		t.Fatal("expected validation error")
	}
	if sink.got[0].ResponseBody != `{"letter":"Z"}` {
		t.Errorf("response body = %q", sink.got[0].ResponseBody)
	}
}

func TestLoggingSinkFailureIsIgnored(t *testing.T) {
	sink := &eventSink{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, sink, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p = WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("nil sink: unexpected error: %v", err)
	}
}
