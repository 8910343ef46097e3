package medtext

import (
	"regexp"
	"strings"

	"github.com/mediscan/ai-service/internal/core/domain"
)

const medicationConfidence = 0.75

// Two alternative shapes: a trigger word followed by a name and dose, and
// a bare name immediately followed by a dose. Both are scanned in full;
// matches overlapping between the two patterns are kept, not deduplicated.
var medicationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:taking|prescribed|medication|drug|rx)[\s:]*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s*(\d+(?:\.\d+)?)\s*(mg|g|ml|mcg)`),
	regexp.MustCompile(`(?i)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(\d+(?:\.\d+)?)\s*(mg|g|ml|mcg)`),
}

// ExtractMedications scans text for medication mentions with a dosage
// and one of the accepted units (mg, g, ml, mcg).
func ExtractMedications(text string) []domain.MedicationFinding {
	medications := []domain.MedicationFinding{}

	for _, pattern := range medicationPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			medications = append(medications, domain.MedicationFinding{
				Name:       strings.TrimSpace(text[m[2]:m[3]]),
				Dosage:     text[m[4]:m[5]],
				Unit:       text[m[6]:m[7]],
				Confidence: medicationConfidence,
				Position:   domain.Span{Start: m[0], End: m[1]},
			})
		}
	}

	return medications
}
