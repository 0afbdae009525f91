package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// completion is a vendor reply before validation.
type completion struct {
	text      string
	model     string
	usage     Usage
	truncated bool
}

// backend is the vendor-specific half of a Provider.
type backend interface {
	complete(ctx context.Context, model string, req Request) (completion, error)
}

// client turns a backend into a Provider: it unwraps fenced JSON, rejects
// truncated replies and validates against the request schema.
type client struct {
	model   string
	backend backend
}

func (c *client) Generate(ctx context.Context, req Request) (*Response, error) {
	out, err := c.backend.complete(ctx, c.model, req)
	if err != nil {
		return nil, err
	}

	var content json.RawMessage
	if req.Schema != nil {
		content = json.RawMessage(unfence(out.text))
	} else {
		// Plain text replies are wrapped so Content is always valid JSON.
		content, _ = json.Marshal(out.text)
	}

	if out.truncated {
		return nil, &Error{Kind: KindTruncated, Content: content}
	}
	if req.Schema != nil && len(content) == 0 {
		return nil, invalidOutput(content, "empty reply")
	}
	if err := req.Schema.Validate(content); err != nil {
		return nil, err
	}

	model := out.model
	if model == "" {
		model = c.model
	}
	return &Response{Content: content, Model: model, Usage: out.usage}, nil
}

func (c *client) ModelID() string {
	return c.model
}

// unfence strips a surrounding ```json code fence some models add even
// when asked for bare JSON.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
