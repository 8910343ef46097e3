package httpadapter

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/infrastructure/signature"
)

// signed wraps a processing handler with HMAC verification. The signature
// covers the exact request bytes, so the body is read once here and handed
// to the handler.
func (rt *Router) signed(next func(http.ResponseWriter, *http.Request, []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, domain.CodeMethodNotAllowed, "Method not allowed")
			return
		}
		body, ok := rt.verifySignedBody(w, r)
		if !ok {
			return
		}
		next(w, r, body)
	}
}

func (rt *Router) verifySignedBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	provided := strings.TrimSpace(r.Header.Get("X-Signature"))
	if provided == "" {
		writeError(w, http.StatusForbidden, domain.CodeMissingSignature, "Missing signature")
		return nil, false
	}

	if rt.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.maxBody)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.writeFileTooLarge(w)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, domain.CodeNoData, "No JSON data provided")
		return nil, false
	}

	if !signature.Verify(rt.secret, body, provided) {
		writeError(w, http.StatusForbidden, domain.CodeInvalidSignature, "Invalid signature")
		return nil, false
	}
	return body, true
}

func (rt *Router) writeFileTooLarge(w http.ResponseWriter) {
	writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
		"success": false,
		"message": "File too large",
		"code":    domain.CodeFileTooLarge,
		"maxSize": fmt.Sprintf("%dMB", rt.maxBody/(1024*1024)),
	})
}
