// Package report lays out and renders the downloadable quiz results
// document.
//
// Layout is separate from drawing: Layout produces page-by-page text runs
// in top-down coordinates, and Render draws them with fpdf.
package report

import (
	"fmt"
	"time"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
)

const (
	optionIndent = 20
	// GeneratedFormat is the timestamp layout in the header.
	GeneratedFormat = "2006-01-02 15:04:05"
)

// Input is everything the report shows.
type Input struct {
	Questions   []mcq.Question
	Answers     []mcq.Label // by question index; missing or empty means unanswered
	Score       quiz.ScoreResult
	GeneratedAt time.Time
}

// FromSession snapshots a session for the report.
func FromSession(s *quiz.Session, at time.Time) Input {
	return Input{
		Questions:   s.Questions(),
		Answers:     s.AnswerList(),
		Score:       s.Score(),
		GeneratedAt: at,
	}
}

func (in Input) answer(i int) mcq.Label {
	if i < len(in.Answers) {
		return in.Answers[i]
	}
	return quiz.Unanswered
}

// Font selects the Helvetica variant and size of a run.
type Font struct {
	Size float64
	Bold bool
}

// Measurer reports the rendered width of text in points.
type Measurer interface {
	Width(text string, font Font) float64
}

// TextRun is one line of text. X and Y are in points from the top-left
// corner; Y is the baseline.
type TextRun struct {
	X, Y  float64
	Font  Font
	Color Color
	Text  string
}

// Page is the runs drawn on one page, in drawing order.
type Page struct {
	Runs []TextRun
}

// Document is a laid-out report.
type Document struct {
	Pages []Page
}

// Runs returns every run across pages, in order.
func (d *Document) Runs() []TextRun {
	var out []TextRun
	for _, p := range d.Pages {
		out = append(out, p.Runs...)
	}
	return out
}

type cursor struct {
	style Style
	doc   *Document
	y     float64 // top of the next line
}

func (c *cursor) newPage() {
	c.doc.Pages = append(c.doc.Pages, Page{})
	c.y = c.style.Margin
}

func (c *cursor) remaining() float64 { return c.style.bottom() - c.y }

// line places one atomic line, breaking the page first if it does not fit.
func (c *cursor) line(x float64, font Font, color Color, text string) {
	h := c.style.lineHeight(font.Size)
	if c.remaining() < h && c.y > c.style.Margin {
		c.newPage()
	}
	page := &c.doc.Pages[len(c.doc.Pages)-1]
	page.Runs = append(page.Runs, TextRun{X: x, Y: c.y + font.Size, Font: font, Color: color, Text: text})
	c.y += h
}

// block places the wrapped lines of one paragraph together. A block taller
// than a whole page falls back to breaking between lines.
func (c *cursor) block(x float64, font Font, color Color, lines []string) {
	h := float64(len(lines)) * c.style.lineHeight(font.Size)
	if h <= c.style.PageHeight-2*c.style.Margin {
		c.need(h)
	}
	for _, l := range lines {
		c.line(x, font, color, l)
	}
}

// gap advances the cursor without drawing. Gaps never cause a page break.
func (c *cursor) gap(h float64) { c.y += h }

// need starts a new page unless at least h points remain.
func (c *cursor) need(h float64) {
	if c.remaining() < h && c.y > c.style.Margin {
		c.newPage()
	}
}

// Layout computes the page-drawing instructions for in. Any text that
// cannot be encoded for the core fonts aborts the layout with
// *UnrenderableError.
func Layout(in Input, m Measurer, st Style) (*Document, error) {
	if st.PageHeight-2*st.Margin < st.MinPageRemaining || st.contentWidth() <= optionIndent {
		return nil, fmt.Errorf("report: page %gx%g too small for margin %g", st.PageWidth, st.PageHeight, st.Margin)
	}

	c := &cursor{style: st, doc: &Document{}}
	c.newPage()

	var lerr error
	wrapped := func(text string, x, width float64, font Font, color Color) {
		if lerr != nil {
			return
		}
		n, err := normalize(text)
		if err != nil {
			lerr = err
			return
		}
		measure := func(s string) float64 { return m.Width(s, font) }
		c.block(x, font, color, Wrap(n, width, measure))
	}

	title := Font{Size: st.TitleSize, Bold: true}
	heading := Font{Size: st.HeadingSize, Bold: true}
	body := Font{Size: st.BodySize}
	small := Font{Size: st.SmallSize}
	smallBold := Font{Size: st.SmallSize, Bold: true}
	full := st.contentWidth()
	indented := full - optionIndent

	wrapped("MCQ Quiz Results", st.Margin, full, title, st.Neutral)
	wrapped("Generated: "+in.GeneratedAt.Format(GeneratedFormat), st.Margin, full, small, st.Neutral)
	c.gap(st.LineHeight / 3)
	wrapped("Final Score: "+in.Score.String(), st.Margin, full, heading, st.Neutral)
	wrapped(fmt.Sprintf("Unanswered: %d", in.Score.Unanswered), st.Margin, full, body, st.Neutral)
	wrapped(in.Score.Verdict(), st.Margin, full, body, st.Neutral)
	c.gap(st.LineHeight)

	for i, q := range in.Questions {
		answer := in.answer(i)

		c.need(st.MinPageRemaining)
		h := fmt.Sprintf("Question %d:", i+1)
		if answer == quiz.Unanswered {
			h += " (Not answered)"
		}
		wrapped(h, st.Margin, full, heading, st.Neutral)
		wrapped(q.Prompt(), st.Margin, full, body, st.Neutral)
		c.gap(st.LineHeight / 3)

		for _, opt := range q.Options() {
			text := fmt.Sprintf("%s. %s", opt.Label, opt.Text)
			if opt.Label == answer {
				text += " (Your answer)"
			}
			if opt.Label == q.Correct() {
				text += " (Correct answer)"
			}
			wrapped(text, st.Margin+optionIndent, indented, body, optionColor(st, opt.Label, answer, q.Correct()))
		}

		c.gap(st.LineHeight / 3)
		wrapped("Explanation:", st.Margin, full, smallBold, st.Neutral)
		wrapped(q.Explanation(), st.Margin+optionIndent, indented, small, st.Neutral)
		c.gap(st.LineHeight)
	}

	if lerr != nil {
		return nil, lerr
	}
	return c.doc, nil
}

// optionColor picks the color of one option line. The correct option is
// always affirmative: either the user chose it, or it is shown as the
// answer they missed.
func optionColor(st Style, label, answer, correct mcq.Label) Color {
	selected := answer != quiz.Unanswered && label == answer
	switch {
	case selected && label == correct:
		return st.Affirmative
	case selected:
		return st.Negative
	case label == correct:
		return st.Affirmative
	default:
		return st.Neutral
	}
}

// FileName returns the download name for a report generated at t.
func FileName(t time.Time) string {
	return "quiz_results_" + t.Format("20060102_150405") + ".pdf"
}
