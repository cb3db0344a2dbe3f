package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/rebel47/mcq-generator/internal/ui/components"
	"github.com/rebel47/mcq-generator/internal/ui/theme"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.Content())
	v.AltScreen = true
	return v
}

// Content renders the current phase as plain styled text.
func (m *Model) Content() string {
	if m.quitting {
		return ""
	}

	var sections []string
	switch m.phase {
	case phaseAnswer:
		answered := m.sess.Len() - len(m.sess.Unanswered())
		sections = append(sections,
			theme.Subtitle.Render(fmt.Sprintf("Question %d of %d · %d answered", m.choice.Index+1, m.sess.Len(), answered)),
			m.choice.View(),
		)
	case phaseReview, phaseSave, phaseGenerating:
		sections = append(sections, components.ScoreSummary(m.sess.Score(), m.width))
		if q, err := m.sess.Question(m.reviewIdx); err == nil {
			sections = append(sections, components.ReviewView(m.reviewIdx, q, m.sess.Answer(m.reviewIdx)))
		}
		if m.phase == phaseSave {
			sections = append(sections, theme.Body.Render("Save report as:")+" "+m.path.View())
		}
	}

	if m.notice != "" {
		sections = append(sections, m.noticeStyle.Render(m.notice))
	}
	if hints := m.hints(); hints != "" {
		sections = append(sections, theme.Hint.Render(hints))
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func (m *Model) hints() string {
	switch m.phase {
	case phaseAnswer:
		return "A-D or ↑↓ Enter answer · ← back · → skip · Backspace clear · Esc quit"
	case phaseReview:
		parts := []string{"←→ browse"}
		if m.opts.Add != nil {
			parts = append(parts, "[n] one more question")
		}
		if m.opts.Save != nil {
			parts = append(parts, "[s] save PDF report")
		}
		return strings.Join(append(parts, "[q] quit"), " · ")
	case phaseSave:
		return "Enter save · Esc cancel"
	}
	return ""
}
