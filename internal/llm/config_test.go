package llm

import (
	"context"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EXAMPREP_LLM_PROVIDER", "EXAMPREP_LLM_TIMEOUT_SECONDS",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestApplyEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("EXAMPREP_LLM_PROVIDER", "openai")
	t.Setenv("EXAMPREP_OPENAI_API_KEY", "sk-test")
	t.Setenv("EXAMPREP_OPENAI_MODEL", "gpt-4o")
	t.Setenv("EXAMPREP_GEMINI_BASE_URL", "http://proxy.local")
	t.Setenv("EXAMPREP_LLM_TIMEOUT_SECONDS", "7")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.Gemini.BaseURL != "http://proxy.local" {
		t.Errorf("gemini base url = %q", cfg.Gemini.BaseURL)
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("timeout = %s, want 7s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: VendorConfig{APIKey: "k"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"unknown", Config{Provider: "llama"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("nothing should be discovered without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o-key" {
		t.Fatalf("discovered %+v, want openai first", cfg)
	}
	if cfg.Anthropic.APIKey != "" {
		t.Error("only the chosen vendor gets a key")
	}
}

func TestDefaultConfigDisabled(t *testing.T) {
	if DefaultConfig().Enabled() {
		t.Error("default config should not select a provider")
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q, want mock", p.ModelID())
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "google/gemini-2.5-flash" {
		t.Errorf("model = %q", p.ModelID())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil, nil); err == nil {
		t.Error("expected missing key error")
	}
}
