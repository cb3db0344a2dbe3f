// Package practice is the interactive terminal quiz: answer every question,
// submit, review the graded results, then add a question or save the report.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/ui/components"
	"github.com/rebel47/mcq-generator/internal/ui/theme"
)

type phase int

const (
	phaseAnswer phase = iota
	phaseReview
	phaseSave
	phaseGenerating
)

// AddFunc generates one more question and appends it to the session.
type AddFunc func(ctx context.Context) (mcq.Question, error)

// SaveFunc writes the results report to path.
type SaveFunc func(path string) error

// Options wires the screen to the rest of the program.
type Options struct {
	Add        AddFunc       // nil hides "one more question"
	Save       SaveFunc      // nil hides "save report"
	ReportPath func() string // path offered when saving
}

// Model is the practice screen. It drives a session that already holds
// questions.
type Model struct {
	ctx  context.Context
	sess *quiz.Session
	opts Options

	phase   phase
	pending []int // question indexes to answer in this pass
	pos     int
	choice  components.MultiChoice

	reviewIdx int
	path      textinput.Model

	notice      string
	noticeStyle lipgloss.Style
	width       int
	quitting    bool
}

// New returns the screen positioned on the first question of sess.
func New(ctx context.Context, sess *quiz.Session, opts Options) *Model {
	m := &Model{ctx: ctx, sess: sess, opts: opts, width: 60}
	all := make([]int, sess.Len())
	for i := range all {
		all[i] = i
	}
	m.beginAnswering(all)
	return m
}

// Session returns the session the screen drives.
func (m *Model) Session() *quiz.Session { return m.sess }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case questionAddedMsg:
		return m.handleAdded(msg)

	case reportSavedMsg:
		m.phase = phaseReview
		if msg.Err != nil {
			m.setNotice(quiz.UserMessage(msg.Err), theme.Incorrect)
		} else {
			m.setNotice("Saved "+msg.Path, theme.Correct)
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.phase {
		case phaseAnswer:
			return m.handleAnswerKey(msg)
		case phaseReview:
			return m.handleReviewKey(msg)
		case phaseSave:
			return m.handleSaveKey(msg)
		}
		return m, nil
	}

	if m.phase == phaseSave {
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) beginAnswering(indexes []int) {
	m.phase = phaseAnswer
	m.pending = indexes
	m.pos = 0
	m.loadChoice()
}

func (m *Model) loadChoice() {
	i := m.pending[m.pos]
	q, _ := m.sess.Question(i)
	m.choice = components.NewMultiChoice(i, q, m.sess.Answer(i))
}

func (m *Model) handleAnswerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.quit()
	case "left", "h":
		if m.pos > 0 {
			m.pos--
			m.loadChoice()
		}
		return m, nil
	case "right", "l", "tab":
		return m.advance()
	}

	var cmd tea.Cmd
	m.choice, cmd = m.choice.Update(msg)
	if !m.choice.Chosen {
		return m, cmd
	}
	if err := m.sess.Select(m.choice.Index, m.choice.Selected); err != nil {
		m.setNotice(quiz.UserMessage(err), theme.Incorrect)
		return m, cmd
	}
	m.notice = ""
	if m.choice.Selected == quiz.Unanswered {
		return m, cmd
	}
	return m.advance()
}

// advance moves to the next pending question, or tries to submit after the
// last one. Submission is refused while any question is unanswered; the
// pass then restarts over the missing ones.
func (m *Model) advance() (tea.Model, tea.Cmd) {
	m.pos++
	if m.pos < len(m.pending) {
		m.loadChoice()
		return m, nil
	}

	if err := quiz.RequireComplete(m.sess); err != nil {
		var ie *quiz.IncompleteError
		if errors.As(err, &ie) {
			m.beginAnswering(ie.Missing)
		}
		m.setNotice(quiz.UserMessage(err), theme.Warning)
		return m, nil
	}

	m.sess.Submit()
	m.phase = phaseReview
	m.reviewIdx = 0
	m.notice = ""
	return m, nil
}

func (m *Model) handleReviewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "left", "h":
		if m.reviewIdx > 0 {
			m.reviewIdx--
		}
	case "right", "l":
		if m.reviewIdx < m.sess.Len()-1 {
			m.reviewIdx++
		}
	case "n":
		if m.opts.Add == nil {
			return m, nil
		}
		m.phase = phaseGenerating
		m.setNotice("Generating a new unique question...", theme.Hint)
		add, ctx := m.opts.Add, m.ctx
		return m, func() tea.Msg {
			q, err := add(ctx)
			return questionAddedMsg{Question: q, Err: err}
		}
	case "s":
		if m.opts.Save == nil {
			return m, nil
		}
		m.phase = phaseSave
		m.notice = ""
		m.path = textinput.New()
		if m.opts.ReportPath != nil {
			m.path.Placeholder = m.opts.ReportPath()
		}
		return m, m.path.Focus()
	}
	return m, nil
}

func (m *Model) handleSaveKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = phaseReview
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			path = m.path.Placeholder
		}
		if path == "" {
			m.setNotice("Enter a file name for the report.", theme.Warning)
			return m, nil
		}
		m.phase = phaseGenerating
		m.setNotice("Saving "+path+"...", theme.Hint)
		save := m.opts.Save
		return m, func() tea.Msg {
			return reportSavedMsg{Path: path, Err: save(path)}
		}
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m *Model) handleAdded(msg questionAddedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.phase = phaseReview
		m.setNotice(quiz.UserMessage(msg.Err), theme.Incorrect)
		return m, nil
	}
	m.beginAnswering([]int{m.sess.Len() - 1})
	m.setNotice(fmt.Sprintf("Added question %d.", m.sess.Len()), theme.Correct)
	return m, nil
}

func (m *Model) setNotice(text string, style lipgloss.Style) {
	m.notice = text
	m.noticeStyle = style
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}
