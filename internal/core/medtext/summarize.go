package medtext

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// Summarize derives the clinician-facing summary from the aggregated
// entities: abnormal-vital flags, key findings (first 10), recommended
// actions and an overall risk assessment.
func Summarize(bag domain.EntityBag) domain.SummaryResult {
	keyFindings := []string{}
	abnormal := []domain.AbnormalValue{}

	for _, vital := range bag.Vitals {
		if vital.Status == domain.StatusNormal {
			continue
		}
		name := strings.ReplaceAll(vital.Name, "_", " ")
		keyFindings = append(keyFindings,
			fmt.Sprintf("%s: %s %s (%s)", titleCase(name), vital.Value, vital.Unit, vital.Status))
		abnormal = append(abnormal, domain.AbnormalValue{
			Parameter:      titleCase(name),
			Value:          fmt.Sprintf("%s %s", vital.Value, vital.Unit),
			Severity:       vital.Status,
			Recommendation: fmt.Sprintf("Monitor %s closely", name),
		})
	}

	// Lab results are reported descriptively; they carry no normal ranges
	// and never contribute to the abnormal list or the risk level.
	for _, lab := range bag.LabResults {
		keyFindings = append(keyFindings,
			fmt.Sprintf("%s: %s %s", titleCase(lab.Test), lab.Value, lab.Unit))
	}

	if len(keyFindings) > 10 {
		keyFindings = keyFindings[:10]
	}

	actions := []string{}
	if len(abnormal) > 0 {
		actions = append(actions, "Follow up on abnormal vital signs")
	}
	if len(bag.Medications) > 0 {
		actions = append(actions, "Review current medications")
	}
	if len(actions) == 0 {
		actions = append(actions, "Continue routine monitoring")
	}

	factors := []string{}
	for _, value := range abnormal {
		if value.Severity == domain.StatusHigh || value.Severity == domain.StatusCritical {
			factors = append(factors, value.Parameter)
		}
	}
	level := domain.RiskLow
	switch {
	case len(factors) >= 2:
		level = domain.RiskHigh
	case len(factors) == 1:
		level = domain.RiskModerate
	}

	return domain.SummaryResult{
		PatientInfo:    domain.PatientInfo{Name: "Not specified"},
		KeyFindings:    keyFindings,
		AbnormalValues: abnormal,
		ClinicianNotes: fmt.Sprintf(
			"Document processed with %d vitals, %d medications, and %d lab results identified.",
			len(bag.Vitals), len(bag.Medications), len(bag.LabResults)),
		RecommendedActions: actions,
		OverallRisk:        domain.RiskAssessment{Level: level, Factors: factors},
	}
}

// ErrorSummary is the neutral summary substituted when synthesis fails.
func ErrorSummary(err error) domain.SummaryResult {
	return domain.SummaryResult{
		PatientInfo:        domain.PatientInfo{Name: "Error processing"},
		KeyFindings:        []string{},
		AbnormalValues:     []domain.AbnormalValue{},
		ClinicianNotes:     fmt.Sprintf("Error generating summary: %v", err),
		RecommendedActions: []string{"Manual review required"},
		OverallRisk:        domain.RiskAssessment{Level: domain.RiskUnknown, Factors: []string{}},
	}
}

// titleCase starts every letter run upper-case and lowers the rest,
// matching the display convention for parameter names.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
