package mcq

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxSourceRunes bounds the study material embedded in one prompt.
const DefaultMaxSourceRunes = 30000

const systemPrompt = `You are an expert educator writing multiple-choice practice questions from study material.

Rules:
- Base every question only on the provided content.
- Each question must have exactly four options labelled A, B, C and D, with exactly one correct answer.
- All options must be relevant to the question. Distractors should be plausible, not absurd.
- The explanation must say why the correct answer is right in one or two sentences.
- Return ONLY a single valid JSON object. No markdown, no commentary.`

// PromptInput holds everything that goes into one generation prompt.
type PromptInput struct {
	// SourceText is the extracted study material.
	SourceText string

	// Count is the number of questions to request. Callers keep it within
	// [1, 25]; the builder embeds it as given.
	Count int

	// Difficulty is included verbatim ("Easy", "Medium", "Hard").
	Difficulty string

	// Exclude lists prompts of questions already issued, in issue order.
	Exclude []string

	// MaxSourceRunes caps SourceText. Zero means DefaultMaxSourceRunes.
	MaxSourceRunes int
}

// BuildPrompt returns the user message for one generation round. It is a
// pure function of its input.
func BuildPrompt(in PromptInput) string {
	limit := in.MaxSourceRunes
	if limit <= 0 {
		limit = DefaultMaxSourceRunes
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d multiple choice questions based on the following content.\n", in.Count)
	fmt.Fprintf(&b, "Difficulty level: %s\n", in.Difficulty)

	b.WriteString("\nRules:\n")
	b.WriteString("1. Each question must have exactly one correct answer\n")
	b.WriteString("2. All options must be relevant to the question\n")
	b.WriteString("3. Return ONLY valid JSON format\n")

	if len(in.Exclude) > 0 {
		b.WriteString("\nDo not repeat or closely paraphrase any of these questions, which were already asked:\n")
		b.WriteString(buildExclusions(in.Exclude))
		b.WriteString("\n")
	}

	b.WriteString("\nFormat:\n")
	b.WriteString(formatExample)

	b.WriteString("\nContent:\n")
	b.WriteString(truncateRunes(in.SourceText, limit))
	b.WriteString("\n")

	return b.String()
}

const formatExample = `{
  "questions": [
    {
      "question": "Question text here?",
      "options": {
        "A": "First option",
        "B": "Second option",
        "C": "Third option",
        "D": "Fourth option"
      },
      "correct_answer": "A",
      "explanation": "Brief explanation here"
    }
  ]
}
`

// buildExclusions numbers every excluded question in issue order.
func buildExclusions(exclude []string) string {
	var b strings.Builder
	for i, q := range exclude {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateRunes returns the first max runes of s. It never splits a UTF-8
// sequence.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
