package medtext

import (
	"strings"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// Classification rules in fixed priority order; the first matching rule
// wins even when later keyword sets also occur in the text.
var classificationRules = []struct {
	docType string
	match   func(string) bool
}{
	{domain.DocPrescription, anyOf("prescription", "rx:")},
	{domain.DocLabReport, anyOf("lab result", "laboratory")},
	{domain.DocDischargeSummary, allOf("discharge", "summary")},
	{domain.DocRadiologyReport, anyOf("radiology", "x-ray", "mri")},
	{domain.DocPathologyReport, anyOf("pathology", "biopsy")},
	{domain.DocConsultationNote, anyOf("consultation", "visit")},
	{domain.DocInsurance, anyOf("insurance", "coverage")},
}

// ClassifyDocument assigns one document-type label from a lower-cased
// keyword containment scan. No match yields general_medical.
func ClassifyDocument(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range classificationRules {
		if rule.match(lower) {
			return rule.docType
		}
	}
	return domain.DocGeneralMedical
}

func anyOf(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	}
}

func allOf(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, k := range keywords {
			if !strings.Contains(text, k) {
				return false
			}
		}
		return true
	}
}
