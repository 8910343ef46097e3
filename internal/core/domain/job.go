package domain

import (
	"strings"
	"time"
)

// IntakeKind tells how a job supplies its document.
type IntakeKind string

const (
	IntakeFile IntakeKind = "file"
	IntakeText IntakeKind = "text"
)

// ProcessingJob is one inbound processing request. Exactly one of FileURL
// and ExtractedText drives the job. EnqueuedAt is set only on queue
// envelopes so consumers can observe queue lag.
type ProcessingJob struct {
	JobID         string     `json:"jobId"`
	FileID        string     `json:"fileId"`
	FileURL       string     `json:"fileUrl,omitempty"`
	ExtractedText string     `json:"extractedText,omitempty"`
	FileName      string     `json:"fileName,omitempty"`
	MimeType      string     `json:"mimeType,omitempty"`
	CallbackURL   string     `json:"callbackUrl"`
	EnqueuedAt    *time.Time `json:"enqueuedAt,omitempty"`
}

// Required intake fields per mode, in contract order.
var (
	FileJobFields = []string{"jobId", "fileId", "fileUrl", "callbackUrl"}
	TextJobFields = []string{"jobId", "fileId", "extractedText", "callbackUrl"}
)

// Kind reports how the job supplies its document.
func (j ProcessingJob) Kind() IntakeKind {
	if strings.TrimSpace(j.ExtractedText) != "" {
		return IntakeText
	}
	return IntakeFile
}

// RequiredFields returns the intake contract for the job's kind.
func (j ProcessingJob) RequiredFields() []string {
	if j.Kind() == IntakeText {
		return TextJobFields
	}
	return FileJobFields
}

// Missing reports which of the named required fields are empty, preserving
// the order of fields.
func (j ProcessingJob) Missing(fields []string) []string {
	values := map[string]string{
		"jobId":         j.JobID,
		"fileId":        j.FileID,
		"fileUrl":       j.FileURL,
		"extractedText": j.ExtractedText,
		"fileName":      j.FileName,
		"callbackUrl":   j.CallbackURL,
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// WithDefaults fills the optional intake fields with their documented
// fallback values.
func (j ProcessingJob) WithDefaults() ProcessingJob {
	if strings.TrimSpace(j.FileName) == "" {
		j.FileName = "unknown"
	}
	if strings.TrimSpace(j.MimeType) == "" {
		j.MimeType = "application/octet-stream"
	}
	return j
}

// Acknowledgment is returned synchronously to the invoking caller,
// independent of callback delivery. The trailing fields feed metrics
// at the transport edge and are not part of the wire contract.
type Acknowledgment struct {
	JobID            string
	ProcessingTimeMS int64
	Completed        bool
	TextLength       int

	DocumentType  string
	OCRConfidence float64
	Findings      map[string]int
}
