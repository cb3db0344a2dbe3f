package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text with the pure Go ledongthuc/pdf reader.
type PDF struct{}

// Extract reads every page's plain text. Pages with no content stream yield
// an empty entry.
func (PDF) Extract(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", &ExtractionError{Source: "pdf", Err: fmt.Errorf("malformed document: %v", p)}
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Source: "pdf", Err: err}
	}

	n := doc.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Source: "pdf", Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pages = append(pages, s)
	}
	return joinPages(pages), nil
}
