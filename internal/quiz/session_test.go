package quiz

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rebel47/mcq-generator/internal/mcq"
)

func testQuestion(t *testing.T, n int, correct mcq.Label) mcq.Question {
	t.Helper()
	q, err := mcq.NewQuestion(
		fmt.Sprintf("Question number %d about cells?", n),
		[]mcq.Option{
			{Label: "A", Text: "one"},
			{Label: "B", Text: "two"},
			{Label: "C", Text: "three"},
			{Label: "D", Text: "four"},
		},
		correct,
		"Because the material says so in section one.",
	)
	if err != nil {
		t.Fatalf("build question: %v", err)
	}
	return q
}

func threeQuestions(t *testing.T) []mcq.Question {
	return []mcq.Question{
		testQuestion(t, 1, "A"),
		testQuestion(t, 2, "B"),
		testQuestion(t, 3, "C"),
	}
}

func TestNewSession_Idle(t *testing.T) {
	s := NewSession("material", "Hard")
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.SourceText() != "material" || s.Difficulty() != "Hard" {
		t.Errorf("unexpected source/difficulty %q %q", s.SourceText(), s.Difficulty())
	}
	if got := s.Score(); got.Total != 0 || got.Percentage != 0 {
		t.Errorf("empty score = %+v", got)
	}
}

func TestStart_Empty(t *testing.T) {
	s := NewSession("material", "Medium")
	if err := s.Start(threeQuestions(t)); err != nil {
		t.Fatal(err)
	}
	s.Select(0, "A")

	if err := s.Start(nil); !errors.Is(err, ErrEmptyQuestionSet) {
		t.Fatalf("Start(nil) err = %v, want ErrEmptyQuestionSet", err)
	}
	if s.Len() != 3 || s.Answer(0) != "A" || s.GenerationCount() != 1 {
		t.Error("failed Start must leave the session unchanged")
	}
}

func TestStart_ResetsAnswersAndCounts(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))
	s.Select(1, "B")
	s.Submit()

	s.Start([]mcq.Question{testQuestion(t, 9, "D")})
	if s.State() != StateActive {
		t.Errorf("State() = %v, want active", s.State())
	}
	if len(s.Answers()) != 0 {
		t.Error("answers should be cleared")
	}
	if s.GenerationCount() != 2 {
		t.Errorf("GenerationCount() = %d, want 2", s.GenerationCount())
	}
	if len(s.Exclusions()) != 4 {
		t.Errorf("Exclusions() = %d entries, want 4", len(s.Exclusions()))
	}
}

func TestSelect(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))

	if err := s.Select(3, "A"); !errors.Is(err, ErrQuestionIndex) {
		t.Errorf("out of range err = %v", err)
	}
	if err := s.Select(-1, "A"); !errors.Is(err, ErrQuestionIndex) {
		t.Errorf("negative index err = %v", err)
	}
	if err := s.Select(0, "E"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("unknown label err = %v", err)
	}
	if err := s.Select(0, "D"); err != nil {
		t.Fatalf("wrong-but-valid label should be accepted: %v", err)
	}
	if s.Answer(0) != "D" {
		t.Errorf("Answer(0) = %q", s.Answer(0))
	}
	if err := s.Select(0, Unanswered); err != nil || s.Answer(0) != Unanswered {
		t.Errorf("clearing selection failed: %v", err)
	}
}

// Three questions: one correct, one wrong, one unanswered.
func TestScore_ThreeQuestionScenario(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))
	s.Select(0, "A")
	s.Select(1, "C")
	s.Submit()

	got := s.Score()
	if got.Correct != 1 || got.Total != 3 || got.Unanswered != 1 {
		t.Fatalf("Score() = %+v", got)
	}
	if got.Incorrect() != 1 {
		t.Errorf("Incorrect() = %d, want 1", got.Incorrect())
	}
	if math.Abs(got.Percentage-33.333) > 0.01 {
		t.Errorf("Percentage = %f", got.Percentage)
	}
	if got.String() != "1/3 (33.3%)" {
		t.Errorf("String() = %q", got.String())
	}
	if got.Verdict() != "Keep practicing!" {
		t.Errorf("Verdict() = %q", got.Verdict())
	}
	if s.State() != StateSubmitted {
		t.Errorf("State() = %v", s.State())
	}
}

func TestScore_Bounds(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))
	for i, l := range []mcq.Label{"A", "B", "C"} {
		s.Select(i, l)
	}
	if got := s.Score(); got.Percentage != 100 || got.Correct != got.Total {
		t.Errorf("all correct = %+v", got)
	}
	for i := range 3 {
		s.Select(i, "D")
	}
	if got := s.Score(); got.Percentage != 0 || got.Correct != 0 {
		t.Errorf("all wrong = %+v", got)
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "Excellent!"},
		{80, "Excellent!"},
		{79.9, "Good job!"},
		{60, "Good job!"},
		{59.9, "Keep practicing!"},
		{0, "Keep practicing!"},
	}
	for _, tt := range tests {
		if got := (ScoreResult{Percentage: tt.pct}).Verdict(); got != tt.want {
			t.Errorf("Verdict(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestAppend_ClearsSubmitted(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))
	s.Select(0, "A")
	s.Submit()

	extra := testQuestion(t, 4, "D")
	if err := s.Append(extra); err != nil {
		t.Fatal(err)
	}
	if s.Submitted() || s.State() != StateActive {
		t.Error("Append should clear submission")
	}
	if s.Len() != 4 || s.Answer(0) != "A" {
		t.Error("Append should keep existing questions and answers")
	}
	if !s.IsIssued(extra.Prompt()) {
		t.Error("appended question should be tracked")
	}
	if got := s.Unanswered(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Unanswered() = %v", got)
	}
}

func TestReset(t *testing.T) {
	s := NewSession("material", "Easy")
	s.Start(threeQuestions(t))
	s.Select(0, "A")
	s.Reset()

	if s.State() != StateIdle || s.Len() != 0 || len(s.Answers()) != 0 {
		t.Error("Reset should return to idle")
	}
	if len(s.Exclusions()) != 0 || s.GenerationCount() != 0 {
		t.Error("Reset should clear the tracker and count")
	}
	if s.SourceText() != "material" {
		t.Error("Reset keeps the source text")
	}
}

func TestRequireComplete(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))
	s.Select(1, "B")

	err := RequireComplete(s)
	var ie *IncompleteError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *IncompleteError", err)
	}
	if len(ie.Missing) != 2 || ie.Missing[0] != 0 || ie.Missing[1] != 2 {
		t.Errorf("Missing = %v", ie.Missing)
	}

	s.Select(0, "A")
	s.Select(2, "C")
	if err := RequireComplete(s); err != nil {
		t.Errorf("complete session err = %v", err)
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	s := NewSession("material", "Medium")
	s.Start(threeQuestions(t))
	qs := s.Questions()
	qs[0] = testQuestion(t, 99, "D")
	if q, _ := s.Question(0); q.Correct() != "A" {
		t.Error("Questions must return a copy")
	}
}
