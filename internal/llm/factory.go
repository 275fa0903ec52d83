package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/tutorium/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// retry and logging middleware: caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, eventRepo)
	return WithRetry(logged, cfg.Retry), nil
}

// NewProviderFromEnv builds a Provider from TUTORIUM_* environment
// variables.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	return NewProvider(ctx, ConfigFromEnv(), eventRepo)
}
