package medtext

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mediscan/ai-service/internal/core/domain"
)

var medicalKeywords = []string{
	"patient", "doctor", "hospital", "medicine", "diagnosis", "treatment",
	"prescription", "symptoms", "pain", "fever", "blood", "pressure",
	"heart", "lung", "kidney", "liver", "brain", "surgery", "therapy",
	"medication", "dose", "mg", "ml", "tablet", "capsule",
}

var urgencyWords = []string{"urgent", "emergency", "critical", "severe"}

var prescriptionWords = []string{"prescription", "dosage", "medication", "mg", "ml"}

// AnalyzeText produces the lightweight analysis: an excerpt summary,
// heuristic insights, keyword hits and basic text statistics.
func AnalyzeText(text string, entities []domain.GenericEntity, now time.Time) domain.QuickAnalysis {
	lower := strings.ToLower(text)
	wordCount := len(strings.Fields(text))

	found := []string{}
	for _, keyword := range medicalKeywords {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}

	insights := []string{}
	if wordCount > 100 {
		insights = append(insights, "Document contains substantial medical information")
	} else if wordCount < 20 {
		insights = append(insights, "Document appears to be brief or incomplete")
	}
	switch {
	case len(found) > 5:
		insights = append(insights, fmt.Sprintf("High medical content detected (%d medical terms found)", len(found)))
	case len(found) > 0:
		insights = append(insights, fmt.Sprintf("Medical content detected (%d medical terms found)", len(found)))
	default:
		insights = append(insights, "Limited medical terminology detected")
	}
	if containsAny(lower, urgencyWords) {
		insights = append(insights, "Document may indicate urgent medical condition")
	}
	if containsAny(lower, prescriptionWords) {
		insights = append(insights, "Document contains prescription or medication information")
	}

	statistics := domain.TextStatistics{
		WordCount:            wordCount,
		SentenceCount:        countSentences(text),
		CharacterCount:       utf8.RuneCountInString(text),
		MedicalKeywordsFound: len(found),
	}

	if len(found) > 10 {
		found = found[:10]
	}
	if entities == nil {
		entities = []domain.GenericEntity{}
	}
	if len(entities) > 20 {
		entities = entities[:20]
	}

	return domain.QuickAnalysis{
		Summary:         domain.Excerpt(text, 200),
		Insights:        insights,
		Statistics:      statistics,
		MedicalKeywords: found,
		Entities:        entities,
		Timestamp:       now,
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// countSentences counts non-blank period-separated segments.
func countSentences(text string) int {
	count := 0
	for _, segment := range strings.Split(text, ".") {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	return count
}
