package ner

import (
	"context"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// NoopRecognizer stands in when entity recognition is disabled. It
// yields an empty result rather than an error, so processing continues
// with the general category empty.
type NoopRecognizer struct{}

func (NoopRecognizer) Recognize(ctx context.Context, text string) ([]domain.GenericEntity, error) {
	return []domain.GenericEntity{}, nil
}

func (NoopRecognizer) Available() bool { return false }
