// Package ports declares the interfaces between the core pipeline and
// its collaborators. Inbound ports are implemented by usecases; outbound
// ports by infrastructure adapters.
package ports

import (
	"context"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// DocumentProcessor runs the full pipeline for one job and returns the
// synchronous acknowledgment. Implementations deliver the terminal
// callback themselves; callback failure never surfaces here.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error)
	ProcessText(ctx context.Context, job domain.ProcessingJob) (domain.Acknowledgment, error)
}

// TextAnalyzer serves the lightweight, unsigned text analysis.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (domain.QuickAnalysis, error)
}
