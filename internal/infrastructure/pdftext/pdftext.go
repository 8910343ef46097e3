// Package pdftext extracts the embedded text layer from PDF documents,
// page by page, up to a configured page cap.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// Text-layer extraction is deterministic, so pages that yield text get
// a flat confidence well above the OCR range.
const pageConfidence = 0.95

const defaultMaxPages = 10

type Extractor struct {
	maxPages int
}

func NewExtractor(maxPages int) *Extractor {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Extractor{maxPages: maxPages}
}

// ExtractPages reads the text layer of the first maxPages pages. Pages
// without text are kept as zero-confidence markers. When the native
// reader fails or finds no text at all, the document goes through
// pdftotext once before the empty result is accepted.
func (e *Extractor) ExtractPages(ctx context.Context, data []byte) ([]domain.PageText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, embErr := e.extractEmbedded(data)
	if embErr == nil && hasText(pages) {
		return pages, nil
	}

	if whole, err := e.convertWhole(data); err == nil && whole.Text != "" {
		return []domain.PageText{whole}, nil
	}

	if embErr != nil {
		return nil, fmt.Errorf("pdf open: %w", embErr)
	}
	return pages, nil
}

// extractEmbedded recovers from reader panics; malformed documents must
// fail the extraction, not the worker.
func (e *Extractor) extractEmbedded(data []byte) (pages []domain.PageText, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	limit := reader.NumPage()
	if limit > e.maxPages {
		limit = e.maxPages
	}

	pages = make([]domain.PageText, 0, limit)
	for num := 1; num <= limit; num++ {
		pages = append(pages, extractPage(reader, num))
	}
	return pages, nil
}

func extractPage(reader *pdf.Reader, num int) domain.PageText {
	empty := domain.PageText{
		PageNumber: num,
		Confidence: 0,
		Error:      "No text extracted",
	}

	page := reader.Page(num)
	if page.V.IsNull() {
		return empty
	}

	text, err := page.GetPlainText(nil)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		return empty
	}

	return domain.PageText{
		PageNumber: num,
		Text:       text,
		Confidence: pageConfidence,
		WordCount:  len(strings.Fields(text)),
	}
}

func (e *Extractor) convertWhole(data []byte) (domain.PageText, error) {
	res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", true)
	if err != nil {
		return domain.PageText{}, err
	}

	text := strings.TrimSpace(res.Body)
	return domain.PageText{
		PageNumber: 1,
		Text:       text,
		Confidence: pageConfidence,
		WordCount:  len(strings.Fields(text)),
	}, nil
}

func hasText(pages []domain.PageText) bool {
	for _, p := range pages {
		if p.Text != "" {
			return true
		}
	}
	return false
}
