package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mediscan/ai-service/internal/core/domain"
)

func (rt *Router) processFile(w http.ResponseWriter, r *http.Request, body []byte) {
	job, ok := decodeJob(w, body, domain.FileJobFields)
	if !ok {
		return
	}

	pipeline := rt.metrics.Pipeline()
	pipeline.StartDocument()
	ack, err := rt.processor.ProcessFile(r.Context(), job)
	rt.observeProcess(ack, err)

	if err != nil {
		writeProcessError(w, err, domain.FileJobFields, "Processing failed")
		return
	}

	message := "Processing completed successfully"
	if !ack.Completed {
		message = "Processing enqueued successfully"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        message,
		"jobId":          ack.JobID,
		"processingTime": ack.ProcessingTimeMS,
	})
}

func (rt *Router) processText(w http.ResponseWriter, r *http.Request, body []byte) {
	job, ok := decodeJob(w, body, domain.TextJobFields)
	if !ok {
		return
	}

	pipeline := rt.metrics.Pipeline()
	pipeline.StartDocument()
	ack, err := rt.processor.ProcessText(r.Context(), job)
	rt.observeProcess(ack, err)

	if err != nil {
		writeProcessError(w, err, domain.TextJobFields, "Text processing failed")
		return
	}

	message := "Text processed successfully"
	if !ack.Completed {
		message = "Text enqueued successfully"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data": map[string]any{
			"jobId":            ack.JobID,
			"processingTime":   ack.ProcessingTimeMS,
			"textLength":       ack.TextLength,
			"analysisComplete": ack.Completed,
		},
	})
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, domain.CodeMethodNotAllowed, "Method not allowed")
		return
	}

	if rt.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.maxBody)
	}
	var req struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.writeFileTooLarge(w)
			return
		}
		writeError(w, http.StatusBadRequest, domain.CodeMissingText, "Text field is required")
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, domain.CodeMissingText, "Text field is required")
		return
	}
	text := *req.Text
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, domain.CodeEmptyText, "Text cannot be empty")
		return
	}

	analysis, err := rt.analyzer.Analyze(r.Context(), text)
	if err != nil {
		writeErrorDetail(w, http.StatusInternalServerError, domain.CodeAnalysisError, "Text analysis failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Text analysis completed successfully",
		"data":    analysis,
	})
}

// decodeJob rejects bodies the backend never sends: non-JSON, empty
// objects, and objects missing required fields.
func decodeJob(w http.ResponseWriter, body []byte, required []string) (domain.ProcessingJob, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &fields); err != nil || len(fields) == 0 {
		writeError(w, http.StatusBadRequest, domain.CodeNoData, "No JSON data provided")
		return domain.ProcessingJob{}, false
	}

	var job domain.ProcessingJob
	if err := json.Unmarshal(body, &job); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeNoData, "No JSON data provided")
		return domain.ProcessingJob{}, false
	}

	if missing := job.Missing(required); len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success":  false,
			"message":  "Missing required fields",
			"code":     domain.CodeMissingFields,
			"required": required,
		})
		return domain.ProcessingJob{}, false
	}
	return job, true
}

// observeProcess records the terminal pipeline outcome. Enqueued jobs are
// counted as queued here; the worker owns their terminal observation.
func (rt *Router) observeProcess(ack domain.Acknowledgment, err error) {
	pipeline := rt.metrics.Pipeline()
	elapsed := time.Duration(ack.ProcessingTimeMS) * time.Millisecond
	switch {
	case err != nil:
		pipeline.FinishDocument(rt.service, domain.JobFailed, ack.DocumentType, elapsed)
	case ack.Completed:
		pipeline.FinishDocument(rt.service, domain.JobCompleted, ack.DocumentType, elapsed)
		pipeline.ObserveFindings(rt.service, ack.Findings)
		pipeline.ObserveOCRConfidence(rt.service, ack.OCRConfidence)
	default:
		pipeline.FinishDocument(rt.service, "queued", ack.DocumentType, elapsed)
	}
}
