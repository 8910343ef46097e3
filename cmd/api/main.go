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

	httpadapter "github.com/mediscan/ai-service/internal/adapters/http"
	"github.com/mediscan/ai-service/internal/bootstrap"
	"github.com/mediscan/ai-service/internal/config"
	"github.com/mediscan/ai-service/internal/observability/logging"
	"github.com/mediscan/ai-service/internal/observability/metrics"
)

const serviceName = "mediscan-api"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewHTTPServerMetrics(serviceName)
	app, err := bootstrap.New(cfg, func(outcome string) {
		m.Pipeline().ObserveCallback(serviceName, outcome)
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		cfg,
		serviceName,
		app.IntakeUC,
		app.AnalyzeUC,
		app.Capabilities,
		m,
	).Handler()

	// Inline processing holds the response open for the whole pipeline,
	// so the write timeout must outlast the soft processing budget.
	writeTimeout := 60 * time.Second
	if cfg.MaxProcessingTime > 0 {
		writeTimeout = cfg.MaxProcessingTime + 30*time.Second
	}
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s (intake mode %s)", cfg.APIPort, cfg.IntakeMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
