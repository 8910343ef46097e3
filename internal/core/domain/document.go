package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument holds a fetched source file for the lifetime of one job.
// It is created at intake and discarded once text has been obtained.
type RawDocument struct {
	FileID   string
	FileName string
	MimeType string
	Data     []byte
}

// Extension returns the lower-cased file extension without the leading dot.
func (d RawDocument) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(d.FileName), "."))
}

func (d RawDocument) IsPDF() bool {
	return d.Extension() == "pdf"
}

var supportedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tiff": {},
	"bmp":  {},
}

// SupportedExtension reports whether the filename carries an accepted
// document extension. Anything else is rejected at intake.
func SupportedExtension(fileName string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	_, ok := supportedExtensions[ext]
	return ok
}

// WordPosition is one recognized word with its bounding box in page
// coordinates. Confidence is the recognizer's 0-100 integer score.
type WordPosition struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PageText is the text-extraction result for a single page. A failed or
// unavailable extraction yields Confidence 0 and a non-empty Error marker,
// never a missing page.
type PageText struct {
	PageNumber int            `json:"pageNumber,omitempty"`
	Text       string         `json:"text"`
	Confidence float64        `json:"confidence"`
	WordCount  int            `json:"wordCount"`
	Words      []WordPosition `json:"words,omitempty"`
	Dimensions *ImageSize     `json:"imageDimensions,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// QualityFlag is an informational, non-fatal warning attached to a result.
type QualityFlag struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Severity string         `json:"severity"`
	Details  map[string]any `json:"details"`
}

// QualityLabel buckets document-level OCR confidence for reporting.
func QualityLabel(ocrConfidence float64) string {
	switch {
	case ocrConfidence > 0.9:
		return "excellent"
	case ocrConfidence > 0.7:
		return "good"
	case ocrConfidence > 0.5:
		return "fair"
	default:
		return "poor"
	}
}

// QualityFlags derives the informational warnings for a processed document.
func QualityFlags(ocrConfidence float64, wordCount int) []QualityFlag {
	flags := []QualityFlag{}
	if ocrConfidence < 0.6 {
		flags = append(flags, QualityFlag{
			Type:     "quality_issue",
			Message:  "Low OCR confidence detected",
			Severity: "warning",
			Details:  map[string]any{"confidence": ocrConfidence},
		})
	}
	if wordCount < 10 {
		flags = append(flags, QualityFlag{
			Type:     "missing_data",
			Message:  "Very little text extracted",
			Severity: "warning",
			Details:  map[string]any{"wordCount": wordCount},
		})
	}
	return flags
}
