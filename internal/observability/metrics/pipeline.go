package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics observes document processing regardless of intake path.
// Both binaries register one instance on their own registry.
type PipelineMetrics struct {
	documentsTotal *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inFlight       prometheus.Gauge
	findingsTotal  *prometheus.CounterVec
	ocrConfidence  *prometheus.HistogramVec
	callbacksTotal *prometheus.CounterVec
}

func newPipelineMetrics(registry *prometheus.Registry, service string) *PipelineMetrics {
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediscan",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total processed documents by terminal status and document type.",
		},
		[]string{"service", "status", "doc_type"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediscan",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Document processing duration in seconds by terminal status.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mediscan",
			Subsystem: "pipeline",
			Name:      "in_flight_documents",
			Help:      "Number of documents currently being processed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	findingsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediscan",
			Subsystem: "pipeline",
			Name:      "findings_total",
			Help:      "Total extracted findings by clinical category.",
		},
		[]string{"service", "category"},
	)
	ocrConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediscan",
			Subsystem: "pipeline",
			Name:      "ocr_confidence",
			Help:      "Distribution of document-level OCR confidence.",
			Buckets:   []float64{0.1, 0.25, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
		},
		[]string{"service"},
	)
	callbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediscan",
			Subsystem: "pipeline",
			Name:      "callback_deliveries_total",
			Help:      "Total callback delivery attempts by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		documentsTotal,
		duration,
		inFlight,
		findingsTotal,
		ocrConfidence,
		callbacksTotal,
	)

	return &PipelineMetrics{
		documentsTotal: documentsTotal,
		duration:       duration,
		inFlight:       inFlight,
		findingsTotal:  findingsTotal,
		ocrConfidence:  ocrConfidence,
		callbacksTotal: callbacksTotal,
	}
}

func (m *PipelineMetrics) StartDocument() {
	m.inFlight.Inc()
}

func (m *PipelineMetrics) FinishDocument(service, status, docType string, duration time.Duration) {
	m.inFlight.Dec()

	if docType == "" {
		docType = "unknown"
	}
	m.documentsTotal.WithLabelValues(service, status, docType).Inc()
	m.duration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveFindings(service string, counts map[string]int) {
	for category, count := range counts {
		if count <= 0 {
			continue
		}
		m.findingsTotal.WithLabelValues(service, category).Add(float64(count))
	}
}

func (m *PipelineMetrics) ObserveOCRConfidence(service string, confidence float64) {
	m.ocrConfidence.WithLabelValues(service).Observe(confidence)
}

func (m *PipelineMetrics) ObserveCallback(service, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.callbacksTotal.WithLabelValues(service, outcome).Inc()
}
