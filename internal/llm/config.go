package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the study assistant's provider.
type Config struct {
	// Provider is empty when the assistant is off; study aids then use
	// their built-in fallbacks.
	Provider string `yaml:"provider"`

	Anthropic  VendorConfig `yaml:"anthropic"`
	OpenAI     VendorConfig `yaml:"openai"`
	Gemini     VendorConfig `yaml:"gemini"`
	OpenRouter VendorConfig `yaml:"openrouter"`
	Retry      RetryConfig  `yaml:"retry"`

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration `yaml:"timeout"`
}

// VendorConfig holds one vendor's credentials. BaseURL points the SDK at
// a proxy or a compatible API.
type VendorConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// modelAliases maps short names accepted in config to vendor model IDs.
// Unknown names are passed through.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-sonnet": "claude-sonnet-4-5-20250929",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	},
	ProviderOpenAI: {
		"gpt-mini": "gpt-4.1-mini",
		"gpt":      "gpt-4.1",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.5-flash",
		"gemini-pro":   "gemini-2.5-pro",
	},
}

func resolveModel(vendor, name string) string {
	if id, ok := modelAliases[vendor][name]; ok {
		return id
	}
	return name
}

func DefaultConfig() Config {
	return Config{
		Anthropic:  VendorConfig{Model: "claude-haiku"},
		OpenAI:     VendorConfig{Model: "gpt-mini"},
		Gemini:     VendorConfig{Model: "gemini-flash"},
		OpenRouter: VendorConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// vendor returns the section for the selected provider.
func (c *Config) vendor() *VendorConfig {
	switch c.Provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// ApplyEnv overlays EXAMPREP_* environment variables onto c.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Provider, "EXAMPREP_LLM_PROVIDER")
	for name, v := range map[string]*VendorConfig{
		ProviderAnthropic:  &c.Anthropic,
		ProviderOpenAI:     &c.OpenAI,
		ProviderGemini:     &c.Gemini,
		ProviderOpenRouter: &c.OpenRouter,
	} {
		prefix := "EXAMPREP_" + strings.ToUpper(name) + "_"
		setFromEnv(&v.APIKey, prefix+"API_KEY")
		setFromEnv(&v.Model, prefix+"MODEL")
		setFromEnv(&v.BaseURL, prefix+"BASE_URL")
	}
	if s := os.Getenv("EXAMPREP_LLM_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			c.Timeout = time.Duration(n) * time.Second
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// discoveryOrder is the vendor key precedence when no provider is set.
var discoveryOrder = []struct{ provider, env string }{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// DiscoverConfig returns a default Config for the first vendor whose
// standard API key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = d.provider
			cfg.vendor().APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	v := c.vendor()
	if v == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if v.APIKey == "" {
		return fmt.Errorf("EXAMPREP_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
