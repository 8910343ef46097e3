package httpadapter

import (
	"net/http"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// writeProcessError maps pipeline errors onto the synchronous rejection
// envelope. Acquisition failures stay 4xx: the document never existed as
// far as this service is concerned, and the failure callback has already
// gone out by the time the error reaches here.
func writeProcessError(w http.ResponseWriter, err error, required []string, failureMessage string) {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success":  false,
			"message":  "Missing required fields",
			"code":     domain.CodeMissingFields,
			"required": required,
		})
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		writeErrorDetail(w, http.StatusBadRequest, domain.CodeUnsupportedFormat, "Unsupported file format", err)
	case domain.IsKind(err, domain.ErrAcquisition):
		writeErrorDetail(w, http.StatusBadRequest, domain.CodeDownloadError, "Failed to download file", err)
	case domain.IsKind(err, domain.ErrTemporary):
		writeErrorDetail(w, http.StatusServiceUnavailable, domain.CodeServiceBusy, "Service temporarily unavailable", err)
	default:
		writeErrorDetail(w, http.StatusInternalServerError, domain.CodeProcessingError, failureMessage, err)
	}
}
