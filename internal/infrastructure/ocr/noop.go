package ocr

import (
	"context"
	"errors"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// NoopEngine stands in when OCR is disabled. Image jobs fail fast with
// a clear reason instead of a broken tesseract invocation.
type NoopEngine struct{}

func (NoopEngine) Recognize(ctx context.Context, image []byte, mimeType string) (domain.PageText, error) {
	return domain.PageText{}, errors.New("ocr engine disabled")
}

func (NoopEngine) Available() bool      { return false }
func (NoopEngine) ModelVersion() string { return "disabled" }
