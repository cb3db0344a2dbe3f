package mcq

import (
	"fmt"
	"unicode/utf8"
)

const (
	// RequiredOptions is the exact number of options a question carries.
	RequiredOptions = 4

	// MinPromptRunes and MinExplanationRunes bound the trimmed text lengths.
	MinPromptRunes      = 10
	MinExplanationRunes = 20
)

// Validator checks a decoded candidate question.
// Implementations are stateless and safe for concurrent use; the result
// depends only on the candidate, so re-validating gives the same answer.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if the candidate passes.
	Validate(c *Candidate) *ValidationError
}

// ValidationError describes why a candidate failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// invariantValidators are the checks every Question satisfies.
var invariantValidators = DefaultValidators()

// DefaultValidators returns the standard chain, in order: structural,
// options, answer-key.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
		&AnswerKeyValidator{},
	}
}

// StructuralValidator checks prompt and explanation lengths.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(c *Candidate) *ValidationError {
	if c.Prompt == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if n := utf8.RuneCountInString(c.Prompt); n < MinPromptRunes {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question is %d characters, need at least %d", n, MinPromptRunes),
		}
	}
	if c.Explanation == "" {
		return &ValidationError{Validator: v.Name(), Message: "explanation is empty"}
	}
	if n := utf8.RuneCountInString(c.Explanation); n < MinExplanationRunes {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("explanation is %d characters, need at least %d", n, MinExplanationRunes),
		}
	}
	return nil
}

// OptionsValidator checks the option count and label uniqueness.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(c *Candidate) *ValidationError {
	if len(c.Options) != RequiredOptions {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("has %d options, need exactly %d", len(c.Options), RequiredOptions),
		}
	}
	seen := make(map[Label]bool, len(c.Options))
	for i, o := range c.Options {
		if o.Label == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d has an empty label", i+1),
			}
		}
		if seen[o.Label] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate option label %q", o.Label),
			}
		}
		seen[o.Label] = true
	}
	return nil
}

// AnswerKeyValidator checks that the correct answer names an option.
type AnswerKeyValidator struct{}

func (v *AnswerKeyValidator) Name() string { return "answer-key" }

func (v *AnswerKeyValidator) Validate(c *Candidate) *ValidationError {
	if c.Correct == "" {
		return &ValidationError{Validator: v.Name(), Message: "correct_answer is empty"}
	}
	for _, o := range c.Options {
		if o.Label == c.Correct {
			return nil
		}
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("correct_answer %q is not one of the option labels", c.Correct),
	}
}
