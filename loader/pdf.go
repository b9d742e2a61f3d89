package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFLoader loads PDF files via native text extraction.
type PDFLoader struct{}

// NewPDF returns a loader for PDF files.
func NewPDF() *PDFLoader { return &PDFLoader{} }

// Load opens the PDF at path and returns one Page per page that yields
// any text. Pages whose extraction fails are skipped; a document where no
// page yields text is an error, since the extraction oracle would have
// nothing to work with.
func (l *PDFLoader) Load(ctx context.Context, path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]Page, 0, totalPages)

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, Page{Number: i, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return pages, nil
}

// Text concatenates pages into a single string with page markers, the
// form the extraction oracle receives.
func Text(pages []Page) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[page %d]\n%s", p.Number, p.Text)
	}
	return b.String()
}
