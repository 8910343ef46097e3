package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediscan/ai-service/internal/bootstrap"
	"github.com/mediscan/ai-service/internal/config"
	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/observability/logging"
	"github.com/mediscan/ai-service/internal/observability/metrics"
)

const serviceName = "mediscan-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(cfg, func(outcome string) {
		m.Pipeline().ObserveCallback(serviceName, outcome)
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if app.Queue == nil {
		log.Fatalf("worker requires NATS_URL")
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsServer := &http.Server{
		Addr:        ":" + cfg.WorkerMetricsPort,
		Handler:     metricsMux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("worker metrics server error: %v", err)
		}
	}()

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.Subscribe(ctx, func(jobCtx context.Context, job domain.ProcessingJob) {
		processJob(jobCtx, cfg, app, m, job)
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("worker metrics shutdown error: %v", err)
	}
}

func processJob(ctx context.Context, cfg config.Config, app *bootstrap.App, m *metrics.WorkerMetrics, job domain.ProcessingJob) {
	if job.EnqueuedAt != nil {
		m.ObserveQueueLag(serviceName, time.Since(*job.EnqueuedAt))
	}

	pipeline := m.Pipeline()
	pipeline.StartDocument()

	// The soft budget only logs overruns; the hard stop at twice the
	// budget keeps a stuck job from pinning its worker slot forever.
	runCtx := ctx
	if cfg.MaxProcessingTime > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, 2*cfg.MaxProcessingTime)
		defer cancel()
	}

	var ack domain.Acknowledgment
	var err error
	if job.Kind() == domain.IntakeText {
		ack, err = app.ProcessUC.ProcessText(runCtx, job)
	} else {
		ack, err = app.ProcessUC.ProcessFile(runCtx, job)
	}

	elapsed := time.Duration(ack.ProcessingTimeMS) * time.Millisecond
	if err != nil {
		pipeline.FinishDocument(serviceName, domain.JobFailed, ack.DocumentType, elapsed)
		log.Printf("job %s failed: %v", job.JobID, err)
		return
	}
	pipeline.FinishDocument(serviceName, domain.JobCompleted, ack.DocumentType, elapsed)
	pipeline.ObserveFindings(serviceName, ack.Findings)
	pipeline.ObserveOCRConfidence(serviceName, ack.OCRConfidence)
}
