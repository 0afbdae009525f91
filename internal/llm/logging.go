package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/store"
)

// recording appends one store event per attempt and mirrors a summary
// line into the application log. It sits under the retry decorator, so a
// retried request leaves one event per try.
type recording struct {
	next   Provider
	vendor string
	events store.EventRepo
	log    *logger.Logger
}

// WithLogging wraps p with event recording. events may be nil.
func WithLogging(p Provider, vendor string, events store.EventRepo, log *logger.Logger) Provider {
	return &recording{next: p, vendor: vendor, events: events, log: logger.OrNop(log)}
}

func (l *recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.next.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.vendor,
		Model:       l.next.ModelID(),
		Purpose:     string(purposeOf(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	kv := []any{"purpose", ev.Purpose, "model", ev.Model, "latency_ms", ev.LatencyMs}
	if err != nil {
		ev.ErrorMessage = err.Error()
		var e *Error
		if errors.As(err, &e) && len(e.Content) > 0 {
			ev.ResponseBody = string(e.Content)
		}
		l.log.Warn("llm request failed", append(kv, "error", err)...)
	} else {
		l.log.Debug("llm request", append(kv, "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)...)
	}

	if l.events != nil {
		if recErr := l.events.AppendLLMRequest(ctx, ev); recErr != nil {
			l.log.Warn("failed to record llm request event", "error", recErr)
		}
	}
	return resp, err
}

func (l *recording) ModelID() string {
	return l.next.ModelID()
}

// transcript renders req for the event log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.MarshalIndent(req.Schema.Definition, "", "  "); err == nil {
			fmt.Fprintf(&b, "\n[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
