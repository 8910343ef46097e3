// Package ocr recognizes text in scanned images.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// Word results at or below this confidence are noise and stay out of
// the page's word list.
const minWordConfidence = 30

const modelVersion = "tesseract-5.0"

// TesseractEngine recognizes image text through the system tesseract
// installation. A fresh client is created per call; gosseract clients
// are not safe for concurrent use.
type TesseractEngine struct {
	language string
}

func NewTesseractEngine(language string) *TesseractEngine {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "eng"
	}
	return &TesseractEngine{language: lang}
}

func (e *TesseractEngine) Available() bool      { return true }
func (e *TesseractEngine) ModelVersion() string { return modelVersion }

func (e *TesseractEngine) Recognize(ctx context.Context, imageData []byte, mimeType string) (domain.PageText, error) {
	if err := ctx.Err(); err != nil {
		return domain.PageText{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return domain.PageText{}, fmt.Errorf("ocr set language %q: %w", e.language, err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return domain.PageText{}, fmt.Errorf("ocr set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return domain.PageText{}, fmt.Errorf("ocr recognize: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return domain.PageText{}, fmt.Errorf("ocr word boxes: %w", err)
	}

	words := make([]recognizedWord, 0, len(boxes))
	for _, box := range boxes {
		words = append(words, recognizedWord{
			Text:       box.Word,
			Confidence: box.Confidence,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
		})
	}

	page := assemblePage(text, words)
	page.Dimensions = decodeDimensions(imageData)
	return page, nil
}

type recognizedWord struct {
	Text       string
	Confidence float64
	X, Y       int
	Width      int
	Height     int
}

// assemblePage folds raw recognition output into a page. Confidence is
// the mean over scored words on a 0..1 scale; only confidently
// recognized words keep their positions.
func assemblePage(text string, words []recognizedWord) domain.PageText {
	trimmed := strings.TrimSpace(text)

	var sum float64
	scored := 0
	positions := make([]domain.WordPosition, 0, len(words))
	for _, w := range words {
		if w.Confidence > 0 {
			sum += w.Confidence
			scored++
		}
		if w.Confidence > minWordConfidence && strings.TrimSpace(w.Text) != "" {
			positions = append(positions, domain.WordPosition{
				Text:       strings.TrimSpace(w.Text),
				Confidence: int(w.Confidence),
				X:          w.X,
				Y:          w.Y,
				Width:      w.Width,
				Height:     w.Height,
			})
		}
	}

	page := domain.PageText{
		Text:      trimmed,
		WordCount: len(strings.Fields(trimmed)),
		Words:     positions,
	}
	if scored > 0 {
		page.Confidence = sum / float64(scored) / 100.0
	}
	return page
}

func decodeDimensions(imageData []byte) *domain.ImageSize {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil
	}
	return &domain.ImageSize{Width: cfg.Width, Height: cfg.Height}
}
