// Package quiz models one practice session: the questions in play, the
// user's selections, submission, and the derived score.
package quiz

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rebel47/mcq-generator/internal/dedup"
	"github.com/rebel47/mcq-generator/internal/mcq"
)

// Unanswered is the selection sentinel meaning "no choice made". It never
// equals a valid option label.
const Unanswered mcq.Label = ""

var (
	// ErrEmptyQuestionSet is returned by Start when no questions are given.
	ErrEmptyQuestionSet = errors.New("no questions to start a quiz with")

	// ErrQuestionIndex is returned for an index outside the question list.
	ErrQuestionIndex = errors.New("question index out of range")

	// ErrUnknownLabel is returned when a selection names no option of the
	// question.
	ErrUnknownLabel = errors.New("label is not an option of the question")
)

// State is the lifecycle phase of a Session.
type State int

const (
	StateIdle      State = iota // no questions yet, or reset
	StateActive                 // questions in play, not submitted
	StateSubmitted              // answers submitted and scored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is the explicit state of one practice flow. It is owned by one
// caller at a time and is not safe for concurrent use.
type Session struct {
	questions       []mcq.Question
	answers         map[int]mcq.Label
	submitted       bool
	generationCount int
	sourceText      string
	difficulty      string
	tracker         *dedup.Tracker
}

// NewSession returns an idle session for the given study material.
func NewSession(sourceText, difficulty string) *Session {
	return &Session{
		answers:    make(map[int]mcq.Label),
		sourceText: sourceText,
		difficulty: difficulty,
		tracker:    dedup.NewTracker(),
	}
}

// Start replaces the question list, clears answers and submission, and
// counts one generation. Every question is registered with the dedup
// tracker. With no questions it returns ErrEmptyQuestionSet and leaves the
// session untouched.
func (s *Session) Start(questions []mcq.Question) error {
	if len(questions) == 0 {
		return ErrEmptyQuestionSet
	}
	s.questions = slices.Clone(questions)
	s.answers = make(map[int]mcq.Label)
	s.submitted = false
	s.generationCount++
	for _, q := range questions {
		s.tracker.Register(q)
	}
	return nil
}

// Select records the choice for question index. Passing Unanswered clears
// it. Any option label of that question is accepted; correctness is not
// checked here.
func (s *Session) Select(index int, label mcq.Label) error {
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d of %d", ErrQuestionIndex, index, len(s.questions))
	}
	if label == Unanswered {
		delete(s.answers, index)
		return nil
	}
	if !s.questions[index].HasLabel(label) {
		return fmt.Errorf("%w: %q for question %d", ErrUnknownLabel, label, index+1)
	}
	s.answers[index] = label
	return nil
}

// Submit marks the session submitted. It does not require every question to
// be answered; callers enforce that with RequireComplete.
func (s *Session) Submit() {
	s.submitted = true
}

// Append adds one question at the end, registers it with the tracker and
// clears submission. Existing answers are kept.
func (s *Session) Append(q mcq.Question) error {
	if q.Prompt() == "" {
		return fmt.Errorf("append: %w", ErrEmptyQuestionSet)
	}
	s.questions = append(s.questions, q)
	s.tracker.Register(q)
	s.submitted = false
	return nil
}

// Reset returns the session to idle and clears the tracker. The source text
// and difficulty are kept.
func (s *Session) Reset() {
	s.questions = nil
	s.answers = make(map[int]mcq.Label)
	s.submitted = false
	s.generationCount = 0
	s.tracker.Reset()
}

// State reports the lifecycle phase.
func (s *Session) State() State {
	switch {
	case len(s.questions) == 0:
		return StateIdle
	case s.submitted:
		return StateSubmitted
	default:
		return StateActive
	}
}

// Questions returns a copy of the question list.
func (s *Session) Questions() []mcq.Question { return slices.Clone(s.questions) }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Question returns the question at index.
func (s *Session) Question(index int) (mcq.Question, bool) {
	if index < 0 || index >= len(s.questions) {
		return mcq.Question{}, false
	}
	return s.questions[index], true
}

// Answer returns the selection for index, or Unanswered.
func (s *Session) Answer(index int) mcq.Label { return s.answers[index] }

// Answers returns a copy of the selections keyed by question index.
func (s *Session) Answers() map[int]mcq.Label {
	out := make(map[int]mcq.Label, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// AnswerList returns the selections in question order, Unanswered for gaps.
func (s *Session) AnswerList() []mcq.Label {
	out := make([]mcq.Label, len(s.questions))
	for i := range out {
		out[i] = s.answers[i]
	}
	return out
}

// Unanswered returns the indexes with no selection, ascending.
func (s *Session) Unanswered() []int {
	var out []int
	for i := range s.questions {
		if s.answers[i] == Unanswered {
			out = append(out, i)
		}
	}
	return out
}

// Submitted reports whether Submit was called since the last Start or Append.
func (s *Session) Submitted() bool { return s.submitted }

// GenerationCount returns how many times Start succeeded since the last Reset.
func (s *Session) GenerationCount() int { return s.generationCount }

// SourceText returns the study material.
func (s *Session) SourceText() string { return s.sourceText }

// Difficulty returns the difficulty label used for generation.
func (s *Session) Difficulty() string { return s.difficulty }

// Exclusions returns the prompts already issued, for the next prompt.
func (s *Session) Exclusions() []string { return s.tracker.Exclusions() }

// IsIssued reports whether a question with this prompt was already issued.
func (s *Session) IsIssued(prompt string) bool {
	return s.tracker.IsExcluded(dedup.Of(prompt))
}

// IncompleteError lists the questions still without a selection.
type IncompleteError struct {
	Missing []int // zero-based indexes
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", len(e.Missing))
}

// RequireComplete returns *IncompleteError unless every question has a
// selection. Call it before Submit at the user-facing boundary.
func RequireComplete(s *Session) error {
	if missing := s.Unanswered(); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}
