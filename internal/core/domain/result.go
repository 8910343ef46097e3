package domain

import "time"

// ServiceVersion is reported in health responses and callback metadata.
const ServiceVersion = "1.0.0"

// Capabilities reports which optional engines a deployment is running.
// The health endpoint exposes it under the "models" key.
type Capabilities struct {
	OCR bool `json:"ocr"`
	NER bool `json:"ner"`
	PDF bool `json:"pdf"`
}

// Document type labels, in classifier priority order.
const (
	DocPrescription     = "prescription"
	DocLabReport        = "lab_report"
	DocDischargeSummary = "discharge_summary"
	DocRadiologyReport  = "radiology_report"
	DocPathologyReport  = "pathology_report"
	DocConsultationNote = "consultation_note"
	DocInsurance        = "insurance_document"
	DocGeneralMedical   = "general_medical"
)

// Risk levels.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
	RiskUnknown  = "unknown"
)

// Terminal job states.
const (
	JobCompleted = "completed"
	JobFailed    = "failed"
)

type PatientInfo struct {
	Name   string  `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
	MRN    *string `json:"mrn"`
}

type AbnormalValue struct {
	Parameter      string `json:"parameter"`
	Value          string `json:"value"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

type RiskAssessment struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// SummaryResult is the clinician-facing synthesis of one document.
type SummaryResult struct {
	PatientInfo        PatientInfo     `json:"patientInfo"`
	KeyFindings        []string        `json:"keyFindings"`
	AbnormalValues     []AbnormalValue `json:"abnormalValues"`
	ClinicianNotes     string          `json:"clinicianNotes"`
	RecommendedActions []string        `json:"recommendedActions"`
	OverallRisk        RiskAssessment  `json:"overallRisk"`
}

type Statistics struct {
	TotalEntities    int `json:"totalEntities"`
	TotalVitals      int `json:"totalVitals"`
	TotalMedications int `json:"totalMedications"`
	TotalLabResults  int `json:"totalLabResults"`
	TotalDiagnoses   int `json:"totalDiagnoses"`
	TotalProcedures  int `json:"totalProcedures"`
}

// StatisticsFor tallies the bag. TotalEntities counts every category,
// general entities included.
func StatisticsFor(bag EntityBag) Statistics {
	return Statistics{
		TotalEntities:    bag.TotalFindings() + len(bag.GeneralEntities),
		TotalVitals:      len(bag.Vitals),
		TotalMedications: len(bag.Medications),
		TotalLabResults:  len(bag.LabResults),
		TotalDiagnoses:   len(bag.Diagnoses),
		TotalProcedures:  len(bag.Procedures),
	}
}

type ProcessingInfo struct {
	TextLength       int       `json:"textLength"`
	WordCount        int       `json:"wordCount"`
	ProcessingMethod string    `json:"processingMethod"`
	Timestamp        time.Time `json:"timestamp"`
}

type QualityMetrics struct {
	OCRConfidence        float64 `json:"ocrConfidence"`
	ExtractionConfidence float64 `json:"extractionConfidence"`
	DocumentQuality      string  `json:"documentQuality"`
	ProcessingTimeMS     int64   `json:"processingTime"`
	WordCount            int     `json:"wordCount"`
	PageCount            int     `json:"pageCount"`
}

// ProcessingResult is the terminal artifact of one completed job. It is
// owned by a single invocation and never shared across jobs.
type ProcessingResult struct {
	DocumentType   string         `json:"documentType"`
	Confidence     float64        `json:"confidence"`
	OCRText        string         `json:"ocrText"`
	Entities       EntityBag      `json:"extractedEntities"`
	Summary        SummaryResult  `json:"summary"`
	Statistics     Statistics     `json:"statistics"`
	QualityMetrics QualityMetrics `json:"qualityMetrics"`
	Flags          []QualityFlag  `json:"flags"`
	ProcessingInfo ProcessingInfo `json:"processingInfo"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CallbackMetadata struct {
	ProcessingTimeMS int64     `json:"processingTime"`
	ServiceVersion   string    `json:"serviceVersion"`
	ModelVersion     string    `json:"modelVersion,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// CallbackPayload is delivered to the caller-supplied URL exactly once
// per terminal state. Results is set on completion, Error on failure.
type CallbackPayload struct {
	JobID    string            `json:"jobId"`
	FileID   string            `json:"fileId"`
	Status   string            `json:"status"`
	Results  *ProcessingResult `json:"results,omitempty"`
	Error    *ErrorDetail      `json:"error,omitempty"`
	Metadata CallbackMetadata  `json:"metadata"`
}

type TextStatistics struct {
	WordCount            int `json:"word_count"`
	SentenceCount        int `json:"sentence_count"`
	CharacterCount       int `json:"character_count"`
	MedicalKeywordsFound int `json:"medical_keywords_found"`
}

// QuickAnalysis is the unsigned text-analysis response body.
type QuickAnalysis struct {
	Summary          string          `json:"summary"`
	Insights         []string        `json:"insights"`
	Statistics       TextStatistics  `json:"statistics"`
	MedicalKeywords  []string        `json:"medical_keywords"`
	Entities         []GenericEntity `json:"entities"`
	Timestamp        time.Time       `json:"analysis_timestamp"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
}

// Excerpt returns the first max runes of s, with a trailing ellipsis
// when truncated.
func Excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
