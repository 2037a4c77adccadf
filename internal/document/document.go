// Package document reads the text layer of PDF files.
//
// Text is pulled page by page with [github.com/ledongthuc/pdf]. Scanned (image-only) pages
// produce empty strings; no OCR is attempted.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/ledongthuc/pdf"
)

// ValidatePath checks that path names an existing regular file with a .pdf extension.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: pdf path", shared.ErrMissingArgument)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDocumentRead, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", shared.ErrDocumentRead, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s is not a PDF file", shared.ErrInvalidArgument, path)
	}
	return nil
}

// ReadPages returns the plain text of every page in order.
func ReadPages(path string) ([]string, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", shared.ErrDocumentRead, path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", shared.ErrDocumentRead, i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// Join concatenates page texts with a newline between pages.
func Join(pages []string) string {
	return strings.Join(pages, "\n")
}

// ReadText reads every page of the PDF at path and joins them.
func ReadText(path string) (string, error) {
	pages, err := ReadPages(path)
	if err != nil {
		return "", err
	}
	return Join(pages), nil
}
