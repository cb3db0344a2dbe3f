package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

func fontStyle(f Font) string {
	if f.Bold {
		return "B"
	}
	return ""
}

// fpdfMeasurer measures with fpdf's core font metrics.
type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
}

func (m fpdfMeasurer) Width(text string, f Font) float64 {
	m.pdf.SetFont(fontFamily, fontStyle(f), f.Size)
	return m.pdf.GetStringWidth(encode(text))
}

func newPDF(st Style) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: st.PageWidth, Ht: st.PageHeight},
	})
	pdf.SetMargins(st.Margin, st.Margin, st.Margin)
	pdf.SetAutoPageBreak(false, st.Margin)
	return pdf
}

// NewMeasurer returns a Measurer backed by fpdf's Helvetica metrics.
func NewMeasurer(st Style) Measurer {
	return fpdfMeasurer{pdf: newPDF(st)}
}

// Render lays out in and draws it as a PDF.
func Render(in Input, st Style) ([]byte, error) {
	pdf := newPDF(st)
	doc, err := Layout(in, fpdfMeasurer{pdf: pdf}, st)
	if err != nil {
		return nil, err
	}
	return draw(pdf, doc, in)
}

// draw writes doc into pdf and returns the encoded bytes.
func draw(pdf *fpdf.Fpdf, doc *Document, in Input) ([]byte, error) {
	pdf.SetTitle("MCQ Quiz Results", true)
	pdf.SetCreator("mcqgen", true)
	if !in.GeneratedAt.IsZero() {
		pdf.SetCreationDate(in.GeneratedAt)
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, run := range page.Runs {
			pdf.SetFont(fontFamily, fontStyle(run.Font), run.Font.Size)
			pdf.SetTextColor(run.Color.R, run.Color.G, run.Color.B)
			pdf.Text(run.X, run.Y, encode(run.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
