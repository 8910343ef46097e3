package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/core/medtext"
	"github.com/mediscan/ai-service/internal/core/ports"
)

// AnalyzeTextUseCase backs the unsigned quick-analysis endpoint. It runs
// the lightweight insight pass only; no findings extraction, no callback.
type AnalyzeTextUseCase struct {
	recognizer ports.EntityRecognizer
	now        func() time.Time
}

func NewAnalyzeTextUseCase(recognizer ports.EntityRecognizer) *AnalyzeTextUseCase {
	return &AnalyzeTextUseCase{
		recognizer: recognizer,
		now:        time.Now,
	}
}

func (uc *AnalyzeTextUseCase) Analyze(ctx context.Context, text string) (domain.QuickAnalysis, error) {
	started := uc.now()

	// Entity recognition fails open: the analysis still ships without
	// the general-entity category.
	entities, err := uc.recognizer.Recognize(ctx, text)
	if err != nil {
		slog.Warn("entity_recognition_failed", "error", err)
		entities = nil
	}

	analysis := medtext.AnalyzeText(text, entities, uc.now().UTC())
	analysis.ProcessingTimeMS = uc.now().Sub(started).Milliseconds()
	return analysis, nil
}
