package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/ui/theme"
)

// ScoreBar renders a horizontal bar filled to the score percentage.
type ScoreBar struct {
	Score quiz.ScoreResult
	Width int
}

// View renders the bar followed by the percentage.
func (p ScoreBar) View() string {
	barWidth := p.Width - 8
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Score.Percentage / 100)
	filled = min(max(filled, 0), barWidth)

	return theme.ScoreFilled.Render(strings.Repeat(" ", filled)) +
		theme.ScoreEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %.1f%%", p.Score.Percentage))
}

// ScoreSummary renders the result header: correct count, unanswered count,
// bar, and verdict.
func ScoreSummary(score quiz.ScoreResult, width int) string {
	lines := []string{
		theme.Title.Render("Quiz Results"),
		theme.Body.Render(fmt.Sprintf("Correct answers: %d/%d", score.Correct, score.Total)),
	}
	if score.Unanswered > 0 {
		lines = append(lines, theme.Warning.Render(fmt.Sprintf("Unanswered: %d", score.Unanswered)))
	}
	lines = append(lines,
		ScoreBar{Score: score, Width: width}.View(),
		theme.Verdict(score.Percentage).Render(score.Verdict()),
	)
	return strings.Join(lines, "\n")
}
