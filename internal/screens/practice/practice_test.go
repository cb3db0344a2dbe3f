package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuestions(t *testing.T, n int) []mcq.Question {
	t.Helper()
	labels := []mcq.Label{"A", "B", "C", "D"}
	var qs []mcq.Question
	for i := range n {
		q, err := mcq.NewQuestion(fmt.Sprintf("Sample question number %d?", i+1), []mcq.Option{
			{Label: "A", Text: "One"},
			{Label: "B", Text: "Two"},
			{Label: "C", Text: "Three"},
			{Label: "D", Text: "Four"},
		}, labels[i%4], "The explanation for this sample question is here.")
		if err != nil {
			t.Fatal(err)
		}
		qs = append(qs, q)
	}
	return qs
}

func testScreen(t *testing.T, n int, opts Options) *Model {
	t.Helper()
	sess := quiz.NewSession("material", "Medium")
	if err := sess.Start(testQuestions(t, n)); err != nil {
		t.Fatal(err)
	}
	return New(context.Background(), sess, opts)
}

func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

// settle runs a background command and feeds its message back, the way the
// program loop would.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPractice_AnswerAndSubmit(t *testing.T) {
	m := testScreen(t, 3, Options{})
	if !strings.Contains(m.Content(), "Question 1 of 3") {
		t.Fatalf("unexpected first view:\n%s", m.Content())
	}

	send(t, m, keyPress('a'))
	send(t, m, keyPress('c'))
	if m.phase != phaseAnswer || m.choice.Index != 2 {
		t.Fatalf("want third question, got phase %d index %d", m.phase, m.choice.Index)
	}
	send(t, m, specialKey(tea.KeyDown))
	send(t, m, specialKey(tea.KeyDown))
	send(t, m, specialKey(tea.KeyEnter))

	sess := m.Session()
	if !sess.Submitted() || m.phase != phaseReview {
		t.Fatalf("expected submitted review, phase %d", m.phase)
	}
	if got := sess.AnswerList(); got[0] != "A" || got[1] != "C" || got[2] != "C" {
		t.Errorf("answers = %v", got)
	}
	if score := sess.Score(); score.Correct != 2 || score.Total != 3 {
		t.Errorf("score = %+v", score)
	}
	view := m.Content()
	for _, want := range []string{"Correct answers: 2/3", "Question 1", "[q] quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("review missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "[n] one more question") || strings.Contains(view, "[s] save") {
		t.Error("options without handlers must be hidden")
	}
}

func TestPractice_RefusesSubmitWithGaps(t *testing.T) {
	m := testScreen(t, 3, Options{})

	send(t, m, keyPress('a'))
	send(t, m, specialKey(tea.KeyRight)) // skip question 2
	send(t, m, specialKey(tea.KeyTab))   // skip question 3

	sess := m.Session()
	if sess.Submitted() {
		t.Fatal("submitted with unanswered questions")
	}
	if m.phase != phaseAnswer || len(m.pending) != 2 || m.choice.Index != 1 {
		t.Fatalf("want a pass over questions 2 and 3, got pending %v index %d", m.pending, m.choice.Index)
	}
	if !strings.Contains(m.Content(), "(2 unanswered)") {
		t.Errorf("missing refusal notice:\n%s", m.Content())
	}

	send(t, m, keyPress('b'))
	send(t, m, specialKey(tea.KeyRight))
	if sess.Submitted() || len(m.pending) != 1 || m.choice.Index != 2 {
		t.Fatalf("still one gap: pending %v submitted %v", m.pending, sess.Submitted())
	}

	send(t, m, keyPress('d'))
	if !sess.Submitted() || m.phase != phaseReview {
		t.Fatal("expected submission once every question is answered")
	}
}

func TestPractice_BackAndClear(t *testing.T) {
	m := testScreen(t, 2, Options{})

	send(t, m, keyPress('b'))
	send(t, m, specialKey(tea.KeyLeft))
	if m.choice.Index != 0 || m.choice.Selected != "B" {
		t.Fatalf("back should show question 1 with its answer, got %d %q", m.choice.Index, m.choice.Selected)
	}
	send(t, m, specialKey(tea.KeyBackspace))
	if m.Session().Answer(0) != quiz.Unanswered || m.choice.Index != 0 {
		t.Error("backspace should clear the answer and stay on the question")
	}
}

func TestPractice_AddQuestion(t *testing.T) {
	extra := testQuestions(t, 2)[1]
	var m *Model
	calls := 0
	m = testScreen(t, 1, Options{Add: func(context.Context) (mcq.Question, error) {
		calls++
		return extra, m.Session().Append(extra)
	}})

	send(t, m, keyPress('a'))
	if !strings.Contains(m.Content(), "[n] one more question") {
		t.Fatalf("add option missing:\n%s", m.Content())
	}
	settle(t, m, send(t, m, keyPress('n')))

	sess := m.Session()
	if calls != 1 || sess.Len() != 2 {
		t.Fatalf("calls %d len %d", calls, sess.Len())
	}
	if m.phase != phaseAnswer || m.choice.Index != 1 || sess.Submitted() {
		t.Fatalf("expected to answer the new question, phase %d index %d", m.phase, m.choice.Index)
	}
	if sess.Answer(0) != "A" {
		t.Error("existing answer lost")
	}

	send(t, m, keyPress('b'))
	if !sess.Submitted() || sess.Score().Correct != 2 {
		t.Errorf("score after add = %+v", sess.Score())
	}
}

func TestPractice_AddQuestionFailure(t *testing.T) {
	m := testScreen(t, 1, Options{Add: func(context.Context) (mcq.Question, error) {
		return mcq.Question{}, quiz.ErrNoQuestions
	}})
	send(t, m, keyPress('a'))
	settle(t, m, send(t, m, keyPress('n')))

	if m.phase != phaseReview || m.Session().Len() != 1 {
		t.Fatalf("failed add should return to review, phase %d", m.phase)
	}
	if !strings.Contains(m.Content(), "No valid questions") {
		t.Errorf("missing error notice:\n%s", m.Content())
	}
}

func TestPractice_SaveReport(t *testing.T) {
	var saved []string
	m := testScreen(t, 1, Options{
		Save: func(path string) error {
			saved = append(saved, path)
			if len(saved) > 1 {
				return errors.New("disk full")
			}
			return nil
		},
		ReportPath: func() string { return "quiz_results_20260102_030405.pdf" },
	})
	send(t, m, keyPress('a'))

	send(t, m, keyPress('s'))
	if m.phase != phaseSave || !strings.Contains(m.Content(), "Save report as:") {
		t.Fatalf("expected save prompt:\n%s", m.Content())
	}
	settle(t, m, send(t, m, specialKey(tea.KeyEnter)))
	if len(saved) != 1 || saved[0] != "quiz_results_20260102_030405.pdf" {
		t.Fatalf("saved = %v", saved)
	}
	if m.phase != phaseReview || !strings.Contains(m.Content(), "Saved quiz_results_20260102_030405.pdf") {
		t.Errorf("missing saved notice:\n%s", m.Content())
	}

	send(t, m, keyPress('s'))
	send(t, m, specialKey(tea.KeyEscape))
	if m.phase != phaseReview || len(saved) != 1 {
		t.Error("esc should cancel without saving")
	}

	send(t, m, keyPress('s'))
	settle(t, m, send(t, m, specialKey(tea.KeyEnter)))
	if !strings.Contains(m.Content(), "disk full") {
		t.Errorf("missing save error:\n%s", m.Content())
	}
}

func TestPractice_Quit(t *testing.T) {
	m := testScreen(t, 2, Options{})
	if !isQuit(send(t, m, specialKey(tea.KeyEscape))) {
		t.Error("esc while answering should quit")
	}
	if m.Session().Submitted() {
		t.Error("quitting must not submit")
	}

	m = testScreen(t, 1, Options{})
	send(t, m, keyPress('a'))
	if !isQuit(send(t, m, keyPress('q'))) {
		t.Error("q in review should quit")
	}
	if m.Content() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestPractice_WindowSize(t *testing.T) {
	m := testScreen(t, 1, Options{})
	send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.width != 100 {
		t.Errorf("width = %d", m.width)
	}
}
