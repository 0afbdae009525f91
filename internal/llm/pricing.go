package llm

import (
	"regexp"
	"strings"
)

// Price is USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost returns the USD cost of a call.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6
}

// prices lists the models examprep's aliases resolve to plus their common
// neighbours, keyed by normalized ID (see normalizeModel).
var prices = map[string]Price{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-sonnet-4":   {3, 15},
	"claude-opus-4-5":   {5, 25},
	"claude-3-5-haiku":  {0.8, 4},

	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o4-mini":      {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}

// Vendor IDs carry dates in two forms: claude-haiku-4-5-20251001 and
// gpt-4o-2024-08-06.
var dateSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// normalizeModel strips an OpenRouter vendor prefix and the date,
// -latest, -preview and -exp suffixes vendors append to model IDs.
func normalizeModel(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	id = strings.TrimSuffix(id, ":free")
	for {
		trimmed := dateSuffix.ReplaceAllString(id, "")
		for _, s := range []string{"-latest", "-exp", "-preview"} {
			trimmed = strings.TrimSuffix(trimmed, s)
		}
		if trimmed == id {
			return id
		}
		id = trimmed
	}
}

// PriceOf looks up the price of a model ID as recorded in request events.
func PriceOf(model string) (Price, bool) {
	p, ok := prices[normalizeModel(model)]
	return p, ok
}
