package quiz

import "fmt"

// ScoreResult is derived from a session snapshot; it is never stored.
type ScoreResult struct {
	Correct    int
	Total      int
	Unanswered int
	Percentage float64
}

// Score compares every selection with the correct label.
func (s *Session) Score() ScoreResult {
	var r ScoreResult
	r.Total = len(s.questions)
	for i, q := range s.questions {
		a := s.answers[i]
		switch {
		case a == Unanswered:
			r.Unanswered++
		case q.IsCorrect(a):
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Percentage = 100 * float64(r.Correct) / float64(r.Total)
	}
	return r
}

// Incorrect returns the number of answered questions that were wrong.
func (r ScoreResult) Incorrect() int { return r.Total - r.Correct - r.Unanswered }

// Verdict returns the feedback line for the percentage.
func (r ScoreResult) Verdict() string {
	switch {
	case r.Percentage >= 80:
		return "Excellent!"
	case r.Percentage >= 60:
		return "Good job!"
	default:
		return "Keep practicing!"
	}
}

// String renders "c/t (p%)".
func (r ScoreResult) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%)", r.Correct, r.Total, r.Percentage)
}
