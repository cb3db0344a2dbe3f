package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rebel47/mcq-generator/internal/llm"
	"github.com/rebel47/mcq-generator/internal/mcq"
)

// ErrNoQuestions is returned when a round parsed but accepted nothing.
var ErrNoQuestions = errors.New("no valid questions were generated")

// Service drives generation rounds against a session. A session is only
// mutated after a round parses and accepts at least one question.
type Service struct {
	gen mcq.Generator
}

// NewService returns a Service backed by gen.
func NewService(gen mcq.Generator) *Service {
	return &Service{gen: gen}
}

// StartRound generates req.Count questions and starts sess with them.
// Fewer accepted than requested is reported through Round.Partial and a
// warning log line, not an error.
func (svc *Service) StartRound(ctx context.Context, sess *Session, req GenerationRequest) (*mcq.Round, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	round, err := svc.gen.Generate(ctx, mcq.GenerateInput{
		SourceText: sess.SourceText(),
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Exclude:    sess.Exclusions(),
	})
	if err != nil {
		return nil, err
	}
	accepted := round.Accepted()
	if len(accepted) == 0 {
		return round, fmt.Errorf("%w (%d rejected)", ErrNoQuestions, len(round.Result.Rejected))
	}
	if round.Partial() {
		slog.Warn("fewer questions accepted than requested",
			"requested", req.Count, "accepted", len(accepted), "rejected", len(round.Result.Rejected))
	}

	if err := sess.Start(accepted); err != nil {
		return round, err
	}
	sess.difficulty = req.Difficulty
	return round, nil
}

// AddQuestion generates one more question, asking the model to avoid every
// prompt already issued, and appends it. The session must already hold
// questions.
func (svc *Service) AddQuestion(ctx context.Context, sess *Session) (mcq.Question, error) {
	if sess.State() == StateIdle {
		return mcq.Question{}, ErrEmptyQuestionSet
	}

	ctx = llm.WithPurpose(ctx, "add-question")
	round, err := svc.gen.Generate(ctx, mcq.GenerateInput{
		SourceText: sess.SourceText(),
		Count:      1,
		Difficulty: sess.Difficulty(),
		Exclude:    sess.Exclusions(),
	})
	if err != nil {
		return mcq.Question{}, err
	}
	accepted := round.Accepted()
	if len(accepted) == 0 {
		return mcq.Question{}, ErrNoQuestions
	}

	q := accepted[0]
	if sess.IsIssued(q.Prompt()) {
		slog.Debug("appended question repeats an issued prompt", "prompt", q.Prompt())
	}
	if err := sess.Append(q); err != nil {
		return mcq.Question{}, err
	}
	return q, nil
}
