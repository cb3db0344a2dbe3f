package llm

import (
	"context"
	"fmt"

	"github.com/rebel47/mcq-generator/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and, when eventRepo is non-nil,
// logging middleware.
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
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	if eventRepo != nil {
		base = WithLogging(base, cfg.Provider, eventRepo)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewProviderFromEnv resolves configuration from the environment and builds
// the decorated provider. The resolved Config is returned so callers can
// apply its Timeout.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, Config, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, Config{}, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		return nil, Config{}, err
	}
	return p, cfg, nil
}
