// Package extract turns uploaded documents into plain text for the
// question generator.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// DefaultMinContentRunes is the least amount of non-space text a document
// must yield before generation is attempted.
const DefaultMinContentRunes = 50

// ErrInsufficientContent means extraction succeeded but produced too little
// text, typically a scanned or image-only PDF.
var ErrInsufficientContent = errors.New("insufficient text content")

// Extractor pulls the text out of a document.
type Extractor interface {
	// Extract returns the document text with pages joined by "\n".
	Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// ExtractionError wraps any failure to read the document.
type ExtractionError struct {
	Source string // extractor name
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: extract text: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// CheckContent returns ErrInsufficientContent when text has fewer than min
// non-space runes. A min of zero or less means DefaultMinContentRunes.
func CheckContent(text string, min int) error {
	if min <= 0 {
		min = DefaultMinContentRunes
	}
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
			if n >= min {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %d of %d characters", ErrInsufficientContent, n, min)
}

// joinPages concatenates page texts the way the extractors report them.
func joinPages(pages []string) string {
	return strings.TrimSpace(strings.Join(pages, "\n"))
}

// Default returns the pure Go extractor.
func Default() Extractor { return PDF{} }

// ByName returns the extractor for name: "pdf" (default) or "pdftotext".
func ByName(name string) (Extractor, error) {
	switch name {
	case "", "pdf":
		return PDF{}, nil
	case "pdftotext":
		return PDFToText{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (use pdf or pdftotext)", name)
	}
}
