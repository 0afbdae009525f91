package llm

import (
	"math"
	"testing"
)

func TestNormalizeModel(t *testing.T) {
	tests := map[string]string{
		"claude-haiku-4-5-20251001":   "claude-haiku-4-5",
		"gpt-4o-2024-08-06":           "gpt-4o",
		"google/gemini-2.0-flash-exp": "gemini-2.0-flash",
		"claude-3-5-haiku-latest":     "claude-3-5-haiku",
		"GPT-4.1-mini":                "gpt-4.1-mini",
		"meta/llama-3:free":           "llama-3",
	}
	for in, want := range tests {
		if got := normalizeModel(in); got != want {
			t.Errorf("normalizeModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriceOf(t *testing.T) {
	p, ok := PriceOf("claude-haiku-4-5-20251001")
	if !ok {
		t.Fatal("expected a price for claude haiku")
	}
	if got := p.Cost(1_000_000, 200_000); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("cost = %f, want 2.00", got)
	}
	if _, ok := PriceOf("mock"); ok {
		t.Error("mock should have no price")
	}
}
