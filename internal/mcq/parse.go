package mcq

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rebel47/mcq-generator/internal/llm"
)

var (
	// ErrMalformedResponse matches any *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSchema matches any *SchemaError.
	ErrSchema = errors.New("response schema mismatch")
)

// MalformedResponseError means no JSON object could be recovered from the
// generator output.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// SchemaError means the recovered object lacks a "questions" array.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response has no questions array: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// Rejection records why one entry of the response was dropped.
type Rejection struct {
	Index     int    // position in the "questions" array
	Validator string // validator name, or "decode"
	Reason    string
}

func (r Rejection) String() string {
	return fmt.Sprintf("question %d rejected by %s: %s", r.Index+1, r.Validator, r.Reason)
}

// ParseResult is the outcome of one successful parse.
type ParseResult struct {
	Accepted []Question
	Rejected []Rejection
}

// Shortfall returns how many fewer questions were accepted than requested.
func (r *ParseResult) Shortfall(requested int) int {
	return max(requested-len(r.Accepted), 0)
}

// Fence markers are only recognised at the start or end of a line. JSON
// strings cannot hold raw newlines, so backticks inside values are kept.
var (
	openFenceRe  = regexp.MustCompile("(?m)^[ \\t]*```[A-Za-z0-9_-]*")
	closeFenceRe = regexp.MustCompile("(?m)```[ \\t]*$")
)

func stripFences(raw string) string {
	return closeFenceRe.ReplaceAllString(openFenceRe.ReplaceAllString(raw, ""), "")
}

// ParseAndValidate recovers the question set from free-form generator
// output. Surrounding prose and code fences are tolerated. Entries failing
// a validator are dropped and reported in Rejected; the call still succeeds.
// With no validators, DefaultValidators is used. Accepted entries always
// satisfy the Question invariants whatever chain is passed.
//
// Errors are *MalformedResponseError when no JSON object can be recovered
// and *SchemaError when it has no "questions" array.
func ParseAndValidate(raw string, validators ...Validator) (*ParseResult, error) {
	if len(validators) == 0 {
		validators = DefaultValidators()
	}

	text := strings.TrimSpace(stripFences(raw))
	if text == "" {
		return nil, &MalformedResponseError{Reason: "response is empty"}
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, &MalformedResponseError{Reason: "no JSON object found"}
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return nil, &MalformedResponseError{Reason: "JSON object is not closed"}
	}
	payload := []byte(text[start : end+1])

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Err: err}
	}
	if err := llm.ValidateValue(envelopeSchema, doc); err != nil {
		return nil, &SchemaError{Err: err}
	}

	var envelope struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &SchemaError{Err: err}
	}

	result := &ParseResult{}
	for i, entry := range envelope.Questions {
		q, rej := validateEntry(entry, validators)
		if rej != nil {
			rej.Index = i
			result.Rejected = append(result.Rejected, *rej)
			continue
		}
		result.Accepted = append(result.Accepted, q)
	}
	return result, nil
}

// validateEntry decodes one entry and runs it through the chain, then the
// constructor.
func validateEntry(entry json.RawMessage, validators []Validator) (Question, *Rejection) {
	c, verr := decodeEntry(entry)
	if verr != nil {
		return Question{}, rejectionFrom(verr)
	}
	for _, v := range validators {
		if verr := v.Validate(c); verr != nil {
			return Question{}, rejectionFrom(verr)
		}
	}
	q, err := NewQuestion(c.Prompt, c.Options, c.Correct, c.Explanation)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Question{}, rejectionFrom(verr)
		}
		return Question{}, &Rejection{Validator: "construct", Reason: err.Error()}
	}
	return q, nil
}

func rejectionFrom(verr *ValidationError) *Rejection {
	return &Rejection{Validator: verr.Validator, Reason: verr.Message}
}
