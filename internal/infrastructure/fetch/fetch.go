// Package fetch downloads source documents from the URLs carried by
// processing jobs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/infrastructure/resilience"
)

const userAgent = "MediScan-AI-Service/1.0"

// Downloader implements ports.FileFetcher over plain HTTP GET. Every
// download is a single attempt guarded by a per-host circuit breaker;
// a failed acquisition fails the job, it is never silently repeated.
type Downloader struct {
	httpClient *http.Client
	executor   *resilience.Executor
	maxBytes   int64
}

func NewDownloader(timeout time.Duration, maxBytes int64, executor *resilience.Executor) *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
		maxBytes:   maxBytes,
	}
}

func (d *Downloader) Fetch(ctx context.Context, fileURL string) ([]byte, error) {
	var data []byte
	err := d.executor.ExecuteOnce(ctx, operationFor(fileURL), func(ctx context.Context) error {
		body, err := d.get(ctx, fileURL)
		if err != nil {
			return err
		}
		data = body
		return nil
	}, classifyDownloadError)
	if err != nil {
		return nil, domain.WrapError(domain.ErrAcquisition, "fetch.download", err)
	}
	return data, nil
}

func (d *Downloader) get(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return nil, &HTTPStatusError{URL: fileURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var reader io.Reader = resp.Body
	if d.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, d.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	if d.maxBytes > 0 && int64(len(body)) > d.maxBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", d.maxBytes)
	}
	return body, nil
}

// operationFor scopes the circuit breaker to the file host, so one
// unhealthy storage backend cannot block downloads from another.
func operationFor(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil || u.Host == "" {
		return "download"
	}
	return "download." + u.Host
}
