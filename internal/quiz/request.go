package quiz

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	MinQuestions     = 1
	MaxQuestions     = 25
	DefaultQuestions = 10
)

// Difficulties is the fixed set of difficulty labels, in menu order.
var Difficulties = []string{"Easy", "Medium", "Hard"}

// DefaultDifficulty is preselected in every surface.
const DefaultDifficulty = "Medium"

// GenerationRequest is what a user asks for at the session boundary.
type GenerationRequest struct {
	Count      int    `json:"count" validate:"min=1,max=25"`
	Difficulty string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

// DefaultRequest returns the preselected request.
func DefaultRequest() GenerationRequest {
	return GenerationRequest{Count: DefaultQuestions, Difficulty: DefaultDifficulty}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// RequestError lists every field that failed the bounds check.
type RequestError struct {
	Fields map[string]string // json field name → problem
}

func (e *RequestError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"count", "difficulty"} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, f+" "+msg)
		}
	}
	return "invalid generation request: " + strings.Join(parts, "; ")
}

// Validate checks Count and Difficulty. The difficulty must match one of
// Difficulties exactly; it is passed into the prompt verbatim.
func (r GenerationRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &RequestError{Fields: make(map[string]string)}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Count":
			out.Fields["count"] = fmt.Sprintf("must be between %d and %d", MinQuestions, MaxQuestions)
		case "Difficulty":
			out.Fields["difficulty"] = "must be one of " + strings.Join(Difficulties, ", ")
		}
	}
	return out
}
