package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/mediscan/ai-service/internal/config"
	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/core/ports"
	"github.com/mediscan/ai-service/internal/core/usecase"
	"github.com/mediscan/ai-service/internal/infrastructure/callback"
	"github.com/mediscan/ai-service/internal/infrastructure/fetch"
	"github.com/mediscan/ai-service/internal/infrastructure/ner"
	"github.com/mediscan/ai-service/internal/infrastructure/ocr"
	"github.com/mediscan/ai-service/internal/infrastructure/pdftext"
	"github.com/mediscan/ai-service/internal/infrastructure/queue/nats"
	"github.com/mediscan/ai-service/internal/infrastructure/resilience"
	"github.com/mediscan/ai-service/internal/infrastructure/storage/tempfs"
)

// App wires the processing pipeline for both binaries. IntakeUC is what
// the HTTP router runs (the pipeline itself, or the queue dispatcher in
// queue intake mode); ProcessUC is always the real pipeline and is what
// the worker runs.
type App struct {
	Config       config.Config
	Capabilities domain.Capabilities

	Queue     ports.JobQueue
	IntakeUC  ports.DocumentProcessor
	ProcessUC ports.DocumentProcessor
	AnalyzeUC ports.TextAnalyzer

	closeFn func()
}

// New builds the dependency graph. The callback observer is supplied by
// the binary so deliveries land in its own metrics registry.
func New(cfg config.Config, observe callback.Observer) (*App, error) {
	executor := resilience.NewExecutor(resilience.DefaultConfig())

	scratch, err := tempfs.New(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("init scratch store: %w", err)
	}

	fetcher := fetch.NewDownloader(cfg.DownloadTimeout, cfg.MaxContentLength, executor)
	sender := callback.NewSender(cfg.ServiceSecret, cfg.CallbackTimeout, executor, observe)

	var ocrEngine ports.OCREngine = ocr.NoopEngine{}
	if cfg.OCREnabled {
		ocrEngine = ocr.NewTesseractEngine(cfg.OCRLanguage)
	}
	var recognizer ports.EntityRecognizer = ner.NoopRecognizer{}
	if cfg.NEREnabled {
		recognizer = ner.NewLexiconRecognizer()
	}
	pdfExtractor := pdftext.NewExtractor(cfg.PDFMaxPages)

	processUC := usecase.NewProcessUseCase(
		fetcher,
		ocrEngine,
		pdfExtractor,
		recognizer,
		sender,
		scratch,
		cfg.MaxProcessingTime,
	)

	var queue *nats.Queue
	if cfg.NATSURL != "" {
		queue, err = nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, fmt.Errorf("init job queue: %w", err)
		}
	}

	var intakeUC ports.DocumentProcessor
	switch cfg.IntakeMode {
	case config.IntakeInline:
		intakeUC = processUC
	case config.IntakeQueue:
		if queue == nil {
			return nil, fmt.Errorf("intake mode %q requires NATS_URL", cfg.IntakeMode)
		}
		intakeUC = usecase.NewDispatchUseCase(queue)
	default:
		return nil, fmt.Errorf("unknown intake mode %q", cfg.IntakeMode)
	}

	app := &App{
		Config: cfg,
		Capabilities: domain.Capabilities{
			OCR: ocrEngine.Available(),
			NER: recognizer.Available(),
			PDF: true,
		},

		IntakeUC:  intakeUC,
		ProcessUC: processUC,
		AnalyzeUC: usecase.NewAnalyzeTextUseCase(recognizer),

		closeFn: func() {
			if queue == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = queue.Close(ctx)
		},
	}
	if queue != nil {
		app.Queue = queue
	}
	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
