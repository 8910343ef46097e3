package medtext

import (
	"regexp"
	"strings"

	"github.com/mediscan/ai-service/internal/core/domain"
)

const clinicalConfidence = 0.7

// A capitalized phrase greedily includes following lowercase words up to
// the next non-letter boundary.
const capitalizedPhrase = `([A-Z][a-z]+(?:\s+[a-z]+)*)`

var diagnosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:diagnosis|dx|diagnosed with)[\s:]*` + capitalizedPhrase),
	regexp.MustCompile(`(?i)(?:impression|assessment)[\s:]*` + capitalizedPhrase),
}

var procedurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:procedure|surgery|operation)[\s:]*` + capitalizedPhrase),
	regexp.MustCompile(`(?i)(?:performed|completed)[\s:]*` + capitalizedPhrase),
}

// ExtractDiagnoses scans text for diagnosis statements introduced by a
// trigger word.
func ExtractDiagnoses(text string) []domain.DiagnosisFinding {
	diagnoses := []domain.DiagnosisFinding{}

	for _, pattern := range diagnosisPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			diagnoses = append(diagnoses, domain.DiagnosisFinding{
				Primary:    strings.TrimSpace(text[m[2]:m[3]]),
				Confidence: clinicalConfidence,
				Position:   domain.Span{Start: m[0], End: m[1]},
			})
		}
	}

	return diagnoses
}

// ExtractProcedures scans text for procedure statements introduced by a
// trigger word.
func ExtractProcedures(text string) []domain.ProcedureFinding {
	procedures := []domain.ProcedureFinding{}

	for _, pattern := range procedurePatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			procedures = append(procedures, domain.ProcedureFinding{
				Name:       strings.TrimSpace(text[m[2]:m[3]]),
				Confidence: clinicalConfidence,
				Position:   domain.Span{Start: m[0], End: m[1]},
			})
		}
	}

	return procedures
}
