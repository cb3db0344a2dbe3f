package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/llm"
	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/report"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps a flow error onto a status code and the user-facing message.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), quiz.UserMessage(err))
}

func statusFor(err error) int {
	var (
		requestErr *quiz.RequestError
		extractErr *extract.ExtractionError
		unrender   *report.UnrenderableError
		rateErr    *llm.ErrRateLimit
		unavailErr *llm.ErrProviderUnavailable
	)
	switch {
	case errors.As(err, &requestErr),
		errors.Is(err, quiz.ErrQuestionIndex),
		errors.Is(err, quiz.ErrUnknownLabel):
		return http.StatusBadRequest
	case errors.As(err, &extractErr),
		errors.Is(err, extract.ErrInsufficientContent),
		errors.As(err, &unrender):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrEmptyQuestionSet):
		return http.StatusConflict
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, mcq.ErrMalformedResponse),
		errors.Is(err, mcq.ErrSchema),
		errors.As(err, &unavailErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
