package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

var ErrEmptyDocument = errors.New("pdf document is empty")

// Extractor obtiene el texto plano de un PDF.
type Extractor interface {
	ExtractText(r io.Reader) (string, error)
}

// TextExtractor implementa Extractor con ledongthuc/pdf.
type TextExtractor struct {
	// MaxBytes limita cuánto se lee del stream; 0 significa sin límite.
	MaxBytes int64
}

func NewTextExtractor(maxBytes int64) *TextExtractor {
	return &TextExtractor{MaxBytes: maxBytes}
}

// ExtractText devuelve el texto de cada página unido por "\n".
func (e *TextExtractor) ExtractText(r io.Reader) (string, error) {
	if e.MaxBytes > 0 {
		r = io.LimitReader(r, e.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if e.MaxBytes > 0 && int64(len(data)) > e.MaxBytes {
		return "", fmt.Errorf("pdf exceeds %d bytes", e.MaxBytes)
	}

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	fonts := make(map[string]*lpdf.Font)
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}
