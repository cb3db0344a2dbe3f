package report

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// UnrenderableError reports text the core PDF fonts cannot draw.
type UnrenderableError struct {
	Rune rune
	Text string
}

func (e *UnrenderableError) Error() string {
	return fmt.Sprintf("character %q (%U) cannot be rendered in the report font", e.Rune, e.Rune)
}

// normalize returns the NFC form of s, or an error naming the first rune
// outside Windows-1252.
func normalize(s string) (string, error) {
	n := norm.NFC.String(s)
	for _, r := range n {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return "", &UnrenderableError{Rune: r, Text: s}
		}
	}
	return n, nil
}

// encode converts normalized text to the single-byte form fpdf's core fonts
// expect. Callers pass text that already went through normalize.
func encode(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, _ := charmap.Windows1252.EncodeRune(r)
		out = append(out, b)
	}
	return string(out)
}
