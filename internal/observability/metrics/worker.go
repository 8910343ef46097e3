package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics owns the worker binary's registry: the shared pipeline
// metrics plus queue lag, which only the consumer can observe.
type WorkerMetrics struct {
	registry *prometheus.Registry

	pipeline *PipelineMetrics
	queueLag *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediscan",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between job enqueue and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(queueLag)

	return &WorkerMetrics{
		registry: registry,
		pipeline: newPipelineMetrics(registry, service),
		queueLag: queueLag,
	}
}

func (m *WorkerMetrics) Pipeline() *PipelineMetrics {
	return m.pipeline
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
