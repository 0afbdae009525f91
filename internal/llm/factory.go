package llm

import (
	"context"
	"fmt"

	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/store"
)

// NewProvider builds the configured provider, layered
// caller -> timeout -> retry -> logging -> vendor. events may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = newAnthropic(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = newOpenAI(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = newOpenRouter(cfg.OpenRouter)
	case ProviderGemini:
		base, err = newGemini(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, events, log)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
