// Package ner detects generic entities (dates, money, names,
// quantities) with a small pattern lexicon.
package ner

import (
	"context"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/mediscan/ai-service/internal/core/domain"
)

const entityConfidence = 0.8

// Patterns run in priority order; a later pattern never claims a span
// that overlaps an earlier match.
var labelPatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"DATE", regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)},
	{"DATE", regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},
	{"DATE", regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,\s*\d{4})?\b`)},
	{"MONEY", regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d+)?`)},
	{"PERSON", regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`)},
	{"CARDINAL", regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)},
}

type LexiconRecognizer struct{}

func NewLexiconRecognizer() *LexiconRecognizer { return &LexiconRecognizer{} }

func (*LexiconRecognizer) Available() bool { return true }

func (*LexiconRecognizer) Recognize(ctx context.Context, text string) ([]domain.GenericEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entities := make([]domain.GenericEntity, 0, 8)
	var claimed [][2]int

	for _, lp := range labelPatterns {
		for _, span := range lp.pattern.FindAllStringIndex(text, -1) {
			if overlaps(claimed, span[0], span[1]) {
				continue
			}
			claimed = append(claimed, [2]int{span[0], span[1]})
			entities = append(entities, domain.GenericEntity{
				Text:       text[span[0]:span[1]],
				Label:      lp.label,
				Start:      span[0],
				End:        span[1],
				Confidence: entityConfidence,
			})
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	toRuneOffsets(text, entities)
	return entities, nil
}

// toRuneOffsets rewrites byte spans as character spans. Entities are
// sorted and non-overlapping, so one forward pass suffices.
func toRuneOffsets(text string, entities []domain.GenericEntity) {
	bytePos, runePos := 0, 0
	advance := func(to int) int {
		for bytePos < to {
			_, size := utf8.DecodeRuneInString(text[bytePos:])
			bytePos += size
			runePos++
		}
		return runePos
	}
	for i := range entities {
		start := advance(entities[i].Start)
		end := advance(entities[i].End)
		entities[i].Start, entities[i].End = start, end
	}
}

func overlaps(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && end > c[0] {
			return true
		}
	}
	return false
}
