package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// PDFToText shells out to poppler's pdftotext. It handles layouts the pure
// Go reader garbles, at the cost of an external binary.
type PDFToText struct {
	// Binary overrides the executable; empty means "pdftotext" on PATH.
	Binary string
}

// Extract copies the document to a temporary file and runs the binary on it.
// pdftotext separates pages with form feeds; those become "\n".
func (p PDFToText) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftotext"
	}

	tmp, err := os.CreateTemp("", "mcqgen-*.pdf")
	if err != nil {
		return "", &ExtractionError{Source: "pdftotext", Err: err}
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, io.NewSectionReader(r, 0, size))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", &ExtractionError{Source: "pdftotext", Err: err}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-enc", "UTF-8", tmp.Name(), "-")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &ExtractionError{Source: "pdftotext", Err: err}
	}

	pages := strings.Split(string(out), "\f")
	return joinPages(pages), nil
}
