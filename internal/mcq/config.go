package mcq

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every generated
	// entry. They execute in order; the first failure drops the entry.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Sampling parameters passed to the provider.
	Temperature float64
	TopP        float64
	TopK        int

	// MaxSourceRunes caps the study material embedded in the prompt.
	MaxSourceRunes int

	// StructuredOutput asks the provider for schema-constrained JSON instead
	// of free text.
	StructuredOutput bool
}

// DefaultConfig returns a Config with the standard validator chain
// and the sampling values the question generator was tuned with.
func DefaultConfig() Config {
	return Config{
		Validators:     DefaultValidators(),
		MaxTokens:      8192,
		Temperature:    0.7,
		TopP:           0.95,
		TopK:           40,
		MaxSourceRunes: DefaultMaxSourceRunes,
	}
}
