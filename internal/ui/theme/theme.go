// Package theme holds the terminal palette and styles for the practice
// quiz and result screens.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette. Success and Error match the report's green and red.
var (
	Primary = lipgloss.Color("#2563EB") // Blue
	Accent  = lipgloss.Color("#F59E0B") // Amber
	Success = lipgloss.Color("#16A34A") // Green
	Error   = lipgloss.Color("#DC2626") // Red
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Question = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)
)

// Answer states in the review.
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Containers
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	ScoreFilled = lipgloss.NewStyle().
			Background(Success)

	ScoreEmpty = lipgloss.NewStyle().
			Background(Border)
)

// Verdict returns the style for a score verdict band.
func Verdict(percentage float64) lipgloss.Style {
	switch {
	case percentage >= 80:
		return Correct
	case percentage >= 60:
		return Selected
	default:
		return Warning
	}
}
