package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion. Every call examprep makes is a
// single-turn prompt, usually bound to a Schema.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, before any vendor-side aliasing.
	ModelID() string
}

// Request describes one prompt.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the vendor for JSON matching it and the reply
	// is validated before it is returned. Without a schema the reply text
	// is returned as a JSON string.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Response is a validated completion.
type Response struct {
	Content json.RawMessage

	// Model is the model that served the request as reported by the
	// vendor; it may carry a date suffix ModelID lacks.
	Model string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
