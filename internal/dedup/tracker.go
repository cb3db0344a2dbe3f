// Package dedup remembers which questions a session has already issued so
// the next generation round can ask the model not to repeat them.
//
// The tracker is advisory. Nothing rejects a generated question because its
// fingerprint is already known; the model may still produce near-duplicates.
package dedup

import (
	"strings"
	"unicode/utf8"

	"github.com/rebel47/mcq-generator/internal/mcq"
)

// FingerprintRunes bounds the prompt prefix used as a fingerprint.
const FingerprintRunes = 120

// Fingerprint identifies a question prompt for exclusion. Equality is exact
// and case-sensitive.
type Fingerprint string

// Of returns the fingerprint of a prompt: surrounding whitespace trimmed,
// inner runs of whitespace collapsed to one space, cut to FingerprintRunes.
func Of(prompt string) Fingerprint {
	collapsed := strings.Join(strings.Fields(prompt), " ")
	if utf8.RuneCountInString(collapsed) <= FingerprintRunes {
		return Fingerprint(collapsed)
	}
	n := 0
	for i := range collapsed {
		if n == FingerprintRunes {
			return Fingerprint(collapsed[:i])
		}
		n++
	}
	return Fingerprint(collapsed)
}

// Tracker holds the fingerprints issued in one session. The zero value is
// ready to use. A Tracker is owned by one session and not safe for
// concurrent use.
type Tracker struct {
	seen  map[Fingerprint]struct{}
	order []string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Register records q and returns its fingerprint. Registering the same
// prompt twice keeps one exclusion entry.
func (t *Tracker) Register(q mcq.Question) Fingerprint {
	fp := Of(q.Prompt())
	if t.seen == nil {
		t.seen = make(map[Fingerprint]struct{})
	}
	if _, ok := t.seen[fp]; !ok {
		t.seen[fp] = struct{}{}
		t.order = append(t.order, q.Prompt())
	}
	return fp
}

// IsExcluded reports whether fp has been registered.
func (t *Tracker) IsExcluded(fp Fingerprint) bool {
	_, ok := t.seen[fp]
	return ok
}

// Exclusions returns the prompts of registered questions in issue order,
// for the prompt builder's exclusion hint.
func (t *Tracker) Exclusions() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of distinct fingerprints registered.
func (t *Tracker) Len() int { return len(t.order) }

// Reset forgets everything.
func (t *Tracker) Reset() {
	t.seen = nil
	t.order = nil
}
