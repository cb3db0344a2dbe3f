package llm

import (
	"context"
	"encoding/json"
)

// Provider is the generation collaborator. Implementations send a prompt to
// a hosted model and return whatever the model produced.
type Provider interface {
	// Generate sends the request and blocks until the model responds.
	// When req.Schema is set the provider asks for native structured output
	// and validates the result against the schema. When it is nil, Content
	// holds the model's free text unchanged.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Question generation sends a single
	// user message.
	Messages []Message

	// Schema optionally requests structured JSON output.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Sampling parameters. Zero values leave the provider default in place.
	Temperature float64
	TopP        float64
	TopK        int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// local validation). Kebab-case, e.g. "mcq-question-set".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when a Schema was
	// requested, the raw response text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Text returns Content as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
