package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single generation call including retries. It is
	// applied by callers around Generate, never inside a provider.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-001"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration // also caps a provider's Retry-After
	Multiplier  float64
	Jitter      float64 // fraction of each wait, applied both ways
}

// DefaultConfig returns a Config with sensible defaults. Gemini Flash is the
// default model family for question generation.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		// Waits of about 2s, 5s and 12.5s keep four attempts well inside
		// Timeout.
		Retry: RetryConfig{
			MaxAttempts: 4,
			InitialWait: 2 * time.Second,
			MaxWait:     20 * time.Second,
			Multiplier:  2.5,
			Jitter:      0.25,
		},
		Timeout: 2 * time.Minute,
	}
}

// ConfigFromEnv builds a Config from MCQGEN_* environment variables, falling
// back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setFromEnv(&cfg.Provider, "MCQGEN_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "MCQGEN_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "MCQGEN_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "MCQGEN_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "MCQGEN_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "MCQGEN_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "MCQGEN_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "MCQGEN_GEMINI_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "MCQGEN_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "MCQGEN_OPENROUTER_MODEL")
	setFromEnv(&cfg.OpenRouter.BaseURL, "MCQGEN_OPENROUTER_BASE_URL")

	if n := os.Getenv("MCQGEN_LLM_MAX_ATTEMPTS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.Retry.MaxAttempts = v
		}
	}
	if t := os.Getenv("MCQGEN_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if k := os.Getenv(key); k != "" {
			cfg.Provider = "gemini"
			cfg.Gemini.APIKey = k
			return cfg, true
		}
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// ResolveConfig returns the explicit MCQGEN_* configuration when it names a
// provider with a key, and otherwise falls back to DiscoverConfig.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	} else if os.Getenv("MCQGEN_LLM_PROVIDER") != "" {
		return Config{}, err
	}

	if discovered, ok := DiscoverConfig(); ok {
		discovered.Timeout = cfg.Timeout
		return discovered, nil
	}
	return Config{}, fmt.Errorf("no LLM API key found: set GEMINI_API_KEY (or GOOGLE_API_KEY), OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MCQGEN_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MCQGEN_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MCQGEN_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("MCQGEN_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
