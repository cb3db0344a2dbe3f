package quiz

import (
	"errors"
	"fmt"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/llm"
	"github.com/rebel47/mcq-generator/internal/mcq"
)

// UserMessage turns an error from any stage of the flow into the line shown
// to the user. Unknown errors keep their text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		extractErr    *extract.ExtractionError
		incompleteErr *IncompleteError
		requestErr    *RequestError
		rateErr       *llm.ErrRateLimit
		unavailErr    *llm.ErrProviderUnavailable
		truncErr      *llm.ErrMaxTokensExceeded
	)

	switch {
	case errors.Is(err, extract.ErrInsufficientContent):
		return "Could not extract text from the PDF. Please make sure it's not scanned or image-based."
	case errors.As(err, &extractErr):
		return fmt.Sprintf("Error reading PDF: %v", extractErr.Err)
	case errors.As(err, &requestErr):
		return requestErr.Error()
	case errors.As(err, &incompleteErr):
		return fmt.Sprintf("Please answer all questions before submitting (%d unanswered).", len(incompleteErr.Missing))
	case errors.Is(err, ErrEmptyQuestionSet):
		return "Generate questions first."
	case errors.Is(err, ErrQuestionIndex), errors.Is(err, ErrUnknownLabel):
		return "Invalid answer selection: " + err.Error()
	case errors.Is(err, ErrNoQuestions):
		return "No valid questions were generated. Please try again."
	case errors.Is(err, mcq.ErrMalformedResponse), errors.Is(err, mcq.ErrSchema):
		return "Failed to parse the generated questions. Please try again."
	case errors.As(err, &rateErr):
		return "The question generator is rate limited. Please wait a moment and try again."
	case errors.As(err, &truncErr):
		return "The generated response was cut off. Try requesting fewer questions."
	case errors.As(err, &unavailErr):
		return fmt.Sprintf("Error generating questions: %v", unavailErr)
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}
