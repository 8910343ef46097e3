package medtext

import (
	"regexp"
	"strings"

	"github.com/mediscan/ai-service/internal/core/domain"
)

const labConfidence = 0.8

// One pattern per recognized test, each with a numeric value and an
// optional unit from a small fixed set.
var labPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:glucose|blood sugar)[\s:]*(\d+(?:\.\d+)?)\s*(mg/dl|mmol/l)?`),
	regexp.MustCompile(`(?i)(?:cholesterol|chol)[\s:]*(\d+(?:\.\d+)?)\s*(mg/dl|mmol/l)?`),
	regexp.MustCompile(`(?i)(?:hemoglobin|hgb|hb)[\s:]*(\d+(?:\.\d+)?)\s*(g/dl|g/l)?`),
	regexp.MustCompile(`(?i)(?:white blood cell|wbc)[\s:]*(\d+(?:\.\d+)?)\s*(k/ul|×10³/ul)?`),
}

// ExtractLabResults scans text for the recognized lab tests. The test
// name is the lower-cased first token of the whole match; the unit
// defaults to "unknown" when the pattern matched without one.
func ExtractLabResults(text string) []domain.LabFinding {
	labs := []domain.LabFinding{}

	for _, pattern := range labPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			whole := text[m[0]:m[1]]

			unit := "unknown"
			if m[4] >= 0 {
				unit = text[m[4]:m[5]]
			}

			labs = append(labs, domain.LabFinding{
				Test:       strings.ToLower(strings.Fields(whole)[0]),
				Value:      text[m[2]:m[3]],
				Unit:       unit,
				Confidence: labConfidence,
				Position:   domain.Span{Start: m[0], End: m[1]},
			})
		}
	}

	return labs
}
