package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob for both binaries. Values come from the
// environment, with a .env file loaded first outside of tests.
type Config struct {
	APIPort  string
	LogLevel string

	ServiceSecret string

	TempDir     string
	OCREnabled  bool
	OCRLanguage string
	NEREnabled  bool
	PDFMaxPages int

	MaxContentLength  int64
	DownloadTimeout   time.Duration
	CallbackTimeout   time.Duration
	MaxProcessingTime time.Duration

	IntakeMode  string
	NATSURL     string
	NATSSubject string

	APIRateLimitRPS   float64
	APIRateLimitBurst int
	APIMaxConcurrent  int
	APIQueueWait      time.Duration

	WorkerMetricsPort string
}

// Intake modes for the process endpoints.
const (
	IntakeInline = "inline"
	IntakeQueue  = "queue"
)

func init() {
	if os.Getenv("GO_ENVIRONMENT") == "test" {
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("dotenv_not_loaded", "error", err)
	}
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "5001"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		ServiceSecret: mustEnv("AI_SERVICE_SECRET", "default-secret-change-in-production"),

		TempDir:     mustEnv("TEMP_DIR", os.TempDir()),
		OCREnabled:  mustEnvBool("OCR_ENABLED", true),
		OCRLanguage: mustEnv("OCR_LANGUAGE", "eng"),
		NEREnabled:  mustEnvBool("NER_ENABLED", true),
		PDFMaxPages: mustEnvInt("PDF_MAX_PAGES", 10),

		MaxContentLength:  int64(mustEnvInt("MAX_CONTENT_LENGTH", 16*1024*1024)),
		DownloadTimeout:   time.Duration(mustEnvInt("DOWNLOAD_TIMEOUT_SECONDS", 30)) * time.Second,
		CallbackTimeout:   time.Duration(mustEnvInt("CALLBACK_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxProcessingTime: time.Duration(mustEnvInt("MAX_PROCESSING_TIME", 300)) * time.Second,

		IntakeMode:  mustEnv("INTAKE_MODE", IntakeInline),
		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents.process"),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 0),
		APIMaxConcurrent:  mustEnvInt("API_MAX_CONCURRENT", 0),
		APIQueueWait:      time.Duration(mustEnvInt("API_QUEUE_WAIT_MS", 100)) * time.Millisecond,

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
