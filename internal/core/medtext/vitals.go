// Package medtext holds the rule-based clinical text engines: the five
// pattern extractors, the entity aggregator, the document classifier,
// the confidence scorer, the summary synthesizer and the quick-analysis
// heuristics. Everything here is pure and deterministic; matching is
// case-insensitive throughout.
package medtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// Fixed per-rule confidences. These tag the rule that produced a finding,
// not the quality of an individual match.
const (
	bloodPressureConfidence = 0.9
	heartRateConfidence     = 0.85
	temperatureConfidence   = 0.8
)

var (
	bloodPressurePattern = regexp.MustCompile(`(?i)(\d{2,3})/(\d{2,3})\s*(?:mmHg|mm\s*Hg)?`)
	heartRatePattern     = regexp.MustCompile(`(?i)(?:HR|heart rate|pulse)[\s:]*(\d{2,3})\s*(?:bpm|beats?/min|/min)?`)
	temperaturePattern   = regexp.MustCompile(`(?i)(?:temp|temperature)[\s:]*(\d{2,3}(?:\.\d)?)\s*(?:°?F|°?C|fahrenheit|celsius)?`)
)

// ExtractVitals scans text for blood pressure, heart rate and temperature
// readings, deriving each status from fixed clinical thresholds.
func ExtractVitals(text string) []domain.VitalFinding {
	vitals := []domain.VitalFinding{}

	for _, m := range bloodPressurePattern.FindAllStringSubmatchIndex(text, -1) {
		systolic, _ := strconv.Atoi(text[m[2]:m[3]])
		diastolic, _ := strconv.Atoi(text[m[4]:m[5]])

		status := domain.StatusNormal
		switch {
		case systolic >= 140 || diastolic >= 90:
			status = domain.StatusHigh
		case systolic < 90 || diastolic < 60:
			status = domain.StatusLow
		}

		vitals = append(vitals, domain.VitalFinding{
			Name:       domain.VitalBloodPressure,
			Value:      fmt.Sprintf("%d/%d", systolic, diastolic),
			Unit:       "mmHg",
			Systolic:   systolic,
			Diastolic:  diastolic,
			Status:     status,
			Confidence: bloodPressureConfidence,
			Position:   domain.Span{Start: m[0], End: m[1]},
		})
	}

	for _, m := range heartRatePattern.FindAllStringSubmatchIndex(text, -1) {
		rate, _ := strconv.Atoi(text[m[2]:m[3]])

		status := domain.StatusNormal
		switch {
		case rate > 100:
			status = domain.StatusHigh
		case rate < 60:
			status = domain.StatusLow
		}

		vitals = append(vitals, domain.VitalFinding{
			Name:       domain.VitalHeartRate,
			Value:      strconv.Itoa(rate),
			Unit:       "bpm",
			Status:     status,
			Confidence: heartRateConfidence,
			Position:   domain.Span{Start: m[0], End: m[1]},
		})
	}

	for _, m := range temperaturePattern.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[2]:m[3]]
		value, _ := strconv.ParseFloat(raw, 64)

		// Readings above 50 are assumed Fahrenheit, everything else Celsius.
		unit := "°C"
		status := domain.StatusNormal
		if value > 50 {
			unit = "°F"
			switch {
			case value > 100.4:
				status = domain.StatusHigh
			case value < 96:
				status = domain.StatusLow
			}
		} else {
			switch {
			case value > 38:
				status = domain.StatusHigh
			case value < 35.5:
				status = domain.StatusLow
			}
		}

		// The value is reported as a float string with at least one decimal.
		display := raw
		if !strings.Contains(display, ".") {
			display += ".0"
		}

		vitals = append(vitals, domain.VitalFinding{
			Name:       domain.VitalTemperature,
			Value:      display,
			Unit:       unit,
			Status:     status,
			Confidence: temperatureConfidence,
			Position:   domain.Span{Start: m[0], End: m[1]},
		})
	}

	return vitals
}
