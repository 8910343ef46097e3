package ports

import (
	"context"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// FileFetcher downloads a source document by URL.
type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// OCREngine recognizes text in a single image.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (domain.PageText, error)
	Available() bool
	ModelVersion() string
}

// PDFExtractor returns per-page text for a PDF document.
type PDFExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]domain.PageText, error)
}

// EntityRecognizer detects generic entities (dates, quantities, names)
// outside the clinical categories.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]domain.GenericEntity, error)
	Available() bool
}

// CallbackSender delivers one signed terminal callback. One attempt per
// job; delivery failure is the caller's to log, never to retry.
type CallbackSender interface {
	Send(ctx context.Context, url string, payload domain.CallbackPayload) error
}

// JobQueue publishes and consumes processing jobs.
type JobQueue interface {
	Publish(ctx context.Context, job domain.ProcessingJob) error
	Subscribe(ctx context.Context, handler func(context.Context, domain.ProcessingJob)) error
	Close(ctx context.Context) error
}

// ScratchStore stages per-job working files. Keys are scoped by job, so
// concurrent jobs never collide.
type ScratchStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
	Load(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}
