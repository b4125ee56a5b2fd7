// Package pdftest builds small fixture PDFs for tests.
package pdftest

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// PageWidth and PageHeight are the fixture page dimensions in points (A4).
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

// SinglePage returns a one-page PDF containing text near the top-left.
func SinglePage(text string) ([]byte, error) {
	return MultiPage([]string{text})
}

// MultiPage returns a PDF with one page per entry of texts, each page
// carrying its entry as a single Helvetica 12pt text run.
func MultiPage(texts []string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)

	for _, text := range texts {
		pdf.AddPage()
		pdf.Text(72, 100, text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
