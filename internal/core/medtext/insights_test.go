package medtext

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mediscan/ai-service/internal/core/domain"
)

func TestAnalyzeTextBriefMedicalNote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	analysis := AnalyzeText("Patient has fever.", nil, now)

	if analysis.Summary != "Patient has fever." {
		t.Errorf("short text should not be truncated: %q", analysis.Summary)
	}
	wantInsights := []string{
		"Document appears to be brief or incomplete",
		"Medical content detected (2 medical terms found)",
	}
	if !reflect.DeepEqual(analysis.Insights, wantInsights) {
		t.Errorf("insights = %v, want %v", analysis.Insights, wantInsights)
	}
	if !reflect.DeepEqual(analysis.MedicalKeywords, []string{"patient", "fever"}) {
		t.Errorf("keywords = %v", analysis.MedicalKeywords)
	}
	stats := analysis.Statistics
	if stats.WordCount != 3 || stats.SentenceCount != 1 || stats.CharacterCount != 18 {
		t.Errorf("unexpected statistics: %+v", stats)
	}
	if stats.MedicalKeywordsFound != 2 {
		t.Errorf("expected 2 keywords found, got %d", stats.MedicalKeywordsFound)
	}
	if analysis.Entities == nil || len(analysis.Entities) != 0 {
		t.Errorf("expected empty entities, got %v", analysis.Entities)
	}
	if !analysis.Timestamp.Equal(now) {
		t.Errorf("expected timestamp %v, got %v", now, analysis.Timestamp)
	}
}

func TestAnalyzeTextUrgencyInsight(t *testing.T) {
	analysis := AnalyzeText("URGENT: severe chest pain, emergency", nil, time.Now())

	found := false
	for _, insight := range analysis.Insights {
		if insight == "Document may indicate urgent medical condition" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected urgency insight, got %v", analysis.Insights)
	}
}

func TestAnalyzeTextSubstantialDocument(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("patient ", 120))
	analysis := AnalyzeText(text, nil, time.Now())

	if analysis.Insights[0] != "Document contains substantial medical information" {
		t.Fatalf("expected substantial-document insight first, got %v", analysis.Insights)
	}
	if !strings.HasSuffix(analysis.Summary, "...") {
		t.Errorf("expected truncated summary, got %q", analysis.Summary)
	}
	if len([]rune(analysis.Summary)) != 203 {
		t.Errorf("expected 200 runes plus ellipsis, got %d", len([]rune(analysis.Summary)))
	}
}

func TestAnalyzeTextPrescriptionInsight(t *testing.T) {
	analysis := AnalyzeText("prescription: Amoxicillin 250 mg capsule", nil, time.Now())

	wantPrescription := "Document contains prescription or medication information"
	found := false
	for _, insight := range analysis.Insights {
		if insight == wantPrescription {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected prescription insight, got %v", analysis.Insights)
	}
}

func TestAnalyzeTextKeywordAndEntityCaps(t *testing.T) {
	// Hit well over ten keywords so the returned list is capped while the
	// statistics keep the full count.
	text := "patient doctor hospital medicine diagnosis treatment prescription " +
		"symptoms pain fever blood pressure heart lung kidney"
	entities := make([]domain.GenericEntity, 25)
	for i := range entities {
		entities[i] = domain.GenericEntity{Text: "e", Label: "DATE", Confidence: 0.8}
	}

	analysis := AnalyzeText(text, entities, time.Now())

	if len(analysis.MedicalKeywords) != 10 {
		t.Errorf("expected keyword list capped at 10, got %d", len(analysis.MedicalKeywords))
	}
	if analysis.Statistics.MedicalKeywordsFound != 15 {
		t.Errorf("expected 15 keywords found, got %d", analysis.Statistics.MedicalKeywordsFound)
	}
	if len(analysis.Entities) != 20 {
		t.Errorf("expected entities capped at 20, got %d", len(analysis.Entities))
	}
}
