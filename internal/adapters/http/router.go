package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mediscan/ai-service/internal/config"
	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/core/ports"
	"github.com/mediscan/ai-service/internal/observability/metrics"
)

// Router serves the signed processing endpoints, the unsigned analysis
// and health endpoints, and the Prometheus exposition.
type Router struct {
	service      string
	secret       string
	maxBody      int64
	rateRPS      float64
	rateBurst    int
	maxInFlight  int
	queueWait    time.Duration
	processor    ports.DocumentProcessor
	analyzer     ports.TextAnalyzer
	capabilities domain.Capabilities
	metrics      *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	service string,
	processor ports.DocumentProcessor,
	analyzer ports.TextAnalyzer,
	capabilities domain.Capabilities,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		service:      service,
		secret:       cfg.ServiceSecret,
		maxBody:      cfg.MaxContentLength,
		rateRPS:      cfg.APIRateLimitRPS,
		rateBurst:    cfg.APIRateLimitBurst,
		maxInFlight:  cfg.APIMaxConcurrent,
		queueWait:    cfg.APIQueueWait,
		processor:    processor,
		analyzer:     analyzer,
		capabilities: capabilities,
		metrics:      m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.health)
	mux.HandleFunc("/internal/ai/process", rt.signed(rt.processFile))
	mux.HandleFunc("/internal/ai/process-text", rt.signed(rt.processText))
	mux.HandleFunc("/api/analyze-text", rt.analyzeText)
	mux.Handle("/metrics", rt.metrics.Handler())

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.queueWait)
	handler = rateLimitMiddleware(handler, rt.rateRPS, rt.rateBurst)
	handler = rt.metrics.Middleware(rt.service, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, domain.CodeMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "MediScan AI Service is healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   domain.ServiceVersion,
		"models":    rt.capabilities,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
		"code":    code,
	})
}

// writeErrorDetail carries the underlying error text alongside the fixed
// message, mirroring the failure callbacks.
func writeErrorDetail(w http.ResponseWriter, status int, code, message string, err error) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
		"code":    code,
		"error":   err.Error(),
	})
}
