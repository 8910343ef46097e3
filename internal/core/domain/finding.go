package domain

// Span locates a finding in the scanned text by byte offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Vital sign names.
const (
	VitalBloodPressure = "blood_pressure"
	VitalHeartRate     = "heart_rate"
	VitalTemperature   = "temperature"
)

// Vital statuses derived from fixed clinical thresholds.
const (
	StatusHigh     = "high"
	StatusLow      = "low"
	StatusNormal   = "normal"
	StatusCritical = "critical"
)

// VitalFinding is one matched vital sign. Systolic/Diastolic are set for
// blood pressure only. Confidence is fixed per extraction rule.
type VitalFinding struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Unit       string  `json:"unit"`
	Systolic   int     `json:"systolic,omitempty"`
	Diastolic  int     `json:"diastolic,omitempty"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
	Position   Span    `json:"position"`
}

type MedicationFinding struct {
	Name       string  `json:"name"`
	Dosage     string  `json:"dosage"`
	Unit       string  `json:"unit"`
	Confidence float64 `json:"confidence"`
	Position   Span    `json:"position"`
}

type LabFinding struct {
	Test       string  `json:"test"`
	Value      string  `json:"value"`
	Unit       string  `json:"unit"`
	Confidence float64 `json:"confidence"`
	Position   Span    `json:"position"`
}

type DiagnosisFinding struct {
	Primary    string  `json:"primary"`
	Confidence float64 `json:"confidence"`
	Position   Span    `json:"position"`
}

type ProcedureFinding struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Position   Span    `json:"position"`
}

// GenericEntity is a (text, label, span) triple from the optional
// entity recognizer. Kept separate from the clinical categories.
type GenericEntity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// EntityBag aggregates every finding extracted from one document.
// Slice order within a category is discovery order in the text scan.
// Errors holds per-category failure markers; a failed category still
// contributes an empty slice so the bag shape stays complete.
type EntityBag struct {
	Vitals          []VitalFinding      `json:"vitals"`
	Medications     []MedicationFinding `json:"medications"`
	LabResults      []LabFinding        `json:"labResults"`
	Diagnoses       []DiagnosisFinding  `json:"diagnoses"`
	Procedures      []ProcedureFinding  `json:"procedures"`
	GeneralEntities []GenericEntity     `json:"generalEntities"`
	Errors          []string            `json:"errors,omitempty"`
}

// NewEntityBag returns a bag with every category allocated empty, so
// serialized output always carries all category keys.
func NewEntityBag() EntityBag {
	return EntityBag{
		Vitals:          []VitalFinding{},
		Medications:     []MedicationFinding{},
		LabResults:      []LabFinding{},
		Diagnoses:       []DiagnosisFinding{},
		Procedures:      []ProcedureFinding{},
		GeneralEntities: []GenericEntity{},
	}
}

// TotalFindings counts findings across the five clinical categories.
// General entities are excluded; they do not drive confidence scoring.
func (b EntityBag) TotalFindings() int {
	return len(b.Vitals) + len(b.Medications) + len(b.LabResults) +
		len(b.Diagnoses) + len(b.Procedures)
}

// CategoryCounts reports per-category finding counts keyed by category name.
func (b EntityBag) CategoryCounts() map[string]int {
	return map[string]int{
		"vitals":      len(b.Vitals),
		"medications": len(b.Medications),
		"labResults":  len(b.LabResults),
		"diagnoses":   len(b.Diagnoses),
		"procedures":  len(b.Procedures),
	}
}
