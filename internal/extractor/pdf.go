package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the text of every readable page, pages separated by a
// blank line. Pages that fail to decode are skipped.
func ExtractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for n := 1; n <= r.NumPage(); n++ {
		p := r.Page(n)
		if p.V.IsNull() {
			continue
		}
		raw, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if body := normalizeLines(raw); body != "" {
			pages = append(pages, body)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text could be extracted from PDF")
	}
	return strings.Join(pages, "\n\n"), nil
}
