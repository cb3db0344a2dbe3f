package mcq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rebel47/mcq-generator/internal/llm"
)

// Generator runs generation rounds.
type Generator interface {
	// Generate requests input.Count questions and returns whatever the
	// round accepted. An error means no usable response came back; a round
	// with fewer accepted questions than requested is not an error.
	Generate(ctx context.Context, input GenerateInput) (*Round, error)
}

// GenerateInput holds everything one generation round needs.
type GenerateInput struct {
	SourceText string
	Count      int
	Difficulty string

	// Exclude lists already-issued question prompts for the dedup hint.
	Exclude []string
}

// Round is the outcome of one generation call.
type Round struct {
	Requested int
	Result    *ParseResult
	Model     string
	Usage     llm.Usage
}

// Accepted returns the accepted questions in response order.
func (r *Round) Accepted() []Question { return r.Result.Accepted }

// Partial reports whether fewer questions were accepted than requested.
func (r *Round) Partial() bool { return r.Result.Shortfall(r.Requested) > 0 }

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if len(cfg.Validators) == 0 {
		cfg.Validators = DefaultValidators()
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate builds the prompt, calls the provider once, and parses the reply.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Round, error) {
	if llm.PurposeFrom(ctx) == "unknown" {
		ctx = llm.WithPurpose(ctx, "question-gen")
	}

	userMsg := BuildPrompt(PromptInput{
		SourceText:     input.SourceText,
		Count:          input.Count,
		Difficulty:     input.Difficulty,
		Exclude:        input.Exclude,
		MaxSourceRunes: g.config.MaxSourceRunes,
	})

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		TopP:        g.config.TopP,
		TopK:        g.config.TopK,
	}
	if g.config.StructuredOutput {
		req.Schema = QuestionSetSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	result, err := ParseAndValidate(resp.Text(), g.config.Validators...)
	if err != nil {
		return nil, err
	}

	for _, rej := range result.Rejected {
		slog.Debug("dropped generated question",
			"index", rej.Index, "validator", rej.Validator, "reason", rej.Reason)
	}

	return &Round{
		Requested: input.Count,
		Result:    result,
		Model:     resp.Model,
		Usage:     resp.Usage,
	}, nil
}
