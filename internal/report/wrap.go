package report

import "strings"

// Wrap breaks text into lines no wider than width, as measured by measure.
// Words are split on any whitespace and rejoined with single spaces. A word
// wider than width on its own is emitted alone on its line. Whitespace-only
// text yields no lines.
func Wrap(text string, width float64, measure func(string) float64) []string {
	var (
		lines []string
		cur   string
	)
	for _, w := range strings.Fields(text) {
		if cur == "" {
			cur = w
			continue
		}
		if candidate := cur + " " + w; measure(candidate) <= width {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
