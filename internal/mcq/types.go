package mcq

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Label identifies one option of a question, e.g. "A".
type Label string

// Option is one labelled answer choice.
type Option struct {
	Label Label  `json:"label"`
	Text  string `json:"text"`
}

// Question is an accepted multiple-choice question. The zero value is not
// valid; questions are built with NewQuestion or decoded from the wire
// format, both of which enforce the invariants:
//
//   - exactly four options with unique, non-empty labels
//   - the correct label is one of the option labels
//   - the prompt is at least 10 characters and the explanation at least 20
//     (counted in runes after trimming surrounding whitespace)
//
// A Question is immutable once constructed.
type Question struct {
	prompt      string
	options     []Option
	correct     Label
	explanation string
}

// NewQuestion validates the parts of a question and returns it. Options keep
// the given order. Surrounding whitespace on every field is trimmed. The
// returned error is a *ValidationError naming the failed check.
func NewQuestion(prompt string, options []Option, correct Label, explanation string) (Question, error) {
	c := &Candidate{
		Prompt:      prompt,
		Options:     options,
		Correct:     correct,
		Explanation: explanation,
	}
	c.normalize()
	for _, v := range invariantValidators {
		if verr := v.Validate(c); verr != nil {
			return Question{}, verr
		}
	}
	return Question{
		prompt:      c.Prompt,
		options:     slices.Clone(c.Options),
		correct:     c.Correct,
		explanation: c.Explanation,
	}, nil
}

// Prompt returns the question text.
func (q Question) Prompt() string { return q.prompt }

// Options returns a copy of the options in generator order.
func (q Question) Options() []Option { return slices.Clone(q.options) }

// Labels returns the option labels in order.
func (q Question) Labels() []Label {
	out := make([]Label, len(q.options))
	for i, o := range q.options {
		out[i] = o.Label
	}
	return out
}

// Option returns the text for label.
func (q Question) Option(label Label) (string, bool) {
	for _, o := range q.options {
		if o.Label == label {
			return o.Text, true
		}
	}
	return "", false
}

// HasLabel reports whether label is one of the question's options.
func (q Question) HasLabel(label Label) bool {
	_, ok := q.Option(label)
	return ok
}

// Correct returns the label of the correct option.
func (q Question) Correct() Label { return q.correct }

// IsCorrect reports whether label is the correct answer.
func (q Question) IsCorrect(label Label) bool { return label == q.correct }

// Explanation returns why the correct answer is right.
func (q Question) Explanation() string { return q.explanation }

// MarshalJSON encodes the question in the wire format used by the prompt:
// options as an object whose keys keep the option order.
func (q Question) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"question":`)
	if err := writeString(&b, q.prompt); err != nil {
		return nil, err
	}
	b.WriteString(`,"options":{`)
	for i, o := range q.options {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeString(&b, string(o.Label)); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := writeString(&b, o.Text); err != nil {
			return nil, err
		}
	}
	b.WriteString(`},"correct_answer":`)
	if err := writeString(&b, string(q.correct)); err != nil {
		return nil, err
	}
	b.WriteString(`,"explanation":`)
	if err := writeString(&b, q.explanation); err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes the wire format and enforces the invariants.
func (q *Question) UnmarshalJSON(data []byte) error {
	c, verr := decodeEntry(data)
	if verr != nil {
		return verr
	}
	parsed, err := NewQuestion(c.Prompt, c.Options, c.Correct, c.Explanation)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func writeString(b *bytes.Buffer, s string) error {
	enc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	b.Write(enc)
	return nil
}

// QuestionSet is the top-level wire envelope.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// MarshalQuestions encodes questions as an indented {"questions": [...]}
// document that ParseAndValidate reads back.
func MarshalQuestions(questions []Question) ([]byte, error) {
	if questions == nil {
		questions = []Question{}
	}
	return json.MarshalIndent(QuestionSet{Questions: questions}, "", "  ")
}

// Candidate is a decoded but not yet accepted question entry. Validators
// inspect it; fields hold whatever the generator produced after trimming.
type Candidate struct {
	Prompt      string
	Options     []Option
	Correct     Label
	Explanation string
}

func (c *Candidate) normalize() {
	c.Prompt = strings.TrimSpace(c.Prompt)
	c.Explanation = strings.TrimSpace(c.Explanation)
	c.Correct = Label(strings.TrimSpace(string(c.Correct)))
	opts := make([]Option, len(c.Options))
	for i, o := range c.Options {
		opts[i] = Option{
			Label: Label(strings.TrimSpace(string(o.Label))),
			Text:  strings.TrimSpace(o.Text),
		}
	}
	c.Options = opts
}
