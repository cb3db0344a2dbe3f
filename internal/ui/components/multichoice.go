// Package components renders quiz questions and results for the terminal.
package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/ui/theme"
)

// MultiChoice answers one question. The cursor moves with the arrow keys;
// enter picks the option under it and a label key picks that option
// directly. Backspace clears the answer.
type MultiChoice struct {
	Index    int // zero-based position in the quiz
	Question mcq.Question
	Cursor   int
	Selected mcq.Label
	Chosen   bool // set by the update that picked or cleared an answer
}

// NewMultiChoice creates the component with the cursor on the current
// answer, or on the first option when there is none.
func NewMultiChoice(index int, q mcq.Question, selected mcq.Label) MultiChoice {
	m := MultiChoice{Index: index, Question: q, Selected: selected}
	for i, l := range q.Labels() {
		if l == selected {
			m.Cursor = i
		}
	}
	return m
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	m.Chosen = false
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	labels := m.Question.Labels()
	if text := strings.ToUpper(kmsg.Text); text != "" {
		for i, l := range labels {
			if string(l) == text {
				m.Cursor = i
				m.Selected = l
				m.Chosen = true
				return m, nil
			}
		}
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(labels)-1 {
			m.Cursor++
		}
	case "enter":
		m.Selected = labels[m.Cursor]
		m.Chosen = true
	case "backspace", "delete":
		m.Selected = quiz.Unanswered
		m.Chosen = true
	}
	return m, nil
}

// View renders the question with the cursor and the current answer.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Question.Render(fmt.Sprintf("Question %d: %s", m.Index+1, m.Question.Prompt())))
	b.WriteString("\n\n")

	for i, opt := range m.Question.Options() {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s. %s", prefix, opt.Label, opt.Text)
		style := theme.Unselected
		switch {
		case opt.Label == m.Selected:
			line += " ●"
			style = theme.Selected
		case i == m.Cursor:
			style = theme.Body.Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// QuestionView renders question index (zero-based) with the cursor on the
// current selection.
func QuestionView(index int, q mcq.Question, selected mcq.Label) string {
	return NewMultiChoice(index, q, selected).View()
}

// ReviewView renders a submitted question with the answer marked. The
// correct option is green; a wrong selection is red.
func ReviewView(index int, q mcq.Question, answer mcq.Label) string {
	status := theme.Incorrect.Render("✗ Incorrect")
	if q.IsCorrect(answer) {
		status = theme.Correct.Render("✓ Correct")
	} else if answer == quiz.Unanswered {
		status = theme.Hint.Render("- Not answered")
	}

	var b strings.Builder
	b.WriteString(theme.Question.Render(fmt.Sprintf("Question %d", index+1)) + " " + status + "\n")
	b.WriteString(theme.Body.Render(q.Prompt()) + "\n\n")

	for _, opt := range q.Options() {
		line := fmt.Sprintf("  %s. %s", opt.Label, opt.Text)
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case opt.Label == answer && q.IsCorrect(answer):
			line += " (Your answer ✓)"
			style = theme.Correct
		case opt.Label == answer:
			line += " (Your answer ✗)"
			style = theme.Incorrect
		case opt.Label == q.Correct():
			line += " (Correct answer)"
			style = theme.Correct
		}
		b.WriteString(style.Render(line) + "\n")
	}

	b.WriteString("\n" + theme.Hint.Render("Explanation: "+q.Explanation()) + "\n")
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}
