package medtext

// ScorerErrorConfidence is the sentinel substituted when the scoring
// stage itself fails; distinct from the zero-findings bucket.
const ScorerErrorConfidence = 0.40

// ScoreConfidence maps the total clinical finding count to a discrete
// document-level confidence bucket.
func ScoreConfidence(totalFindings int) float64 {
	switch {
	case totalFindings >= 10:
		return 0.95
	case totalFindings >= 5:
		return 0.80
	case totalFindings >= 2:
		return 0.65
	case totalFindings >= 1:
		return 0.50
	default:
		return 0.30
	}
}
