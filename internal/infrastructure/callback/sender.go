// Package callback delivers signed processing results back to the
// requesting service.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/infrastructure/resilience"
	"github.com/mediscan/ai-service/internal/infrastructure/signature"
)

const userAgent = "MediScan-AI-Service/1.0"

// Delivery outcomes reported to the observer.
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Observer sees the outcome of every delivery attempt; metrics hang off
// it without the sender knowing about them.
type Observer func(outcome string)

// Sender posts one signed callback per job. The signature covers the
// exact serialized bytes on the wire, and there is exactly one attempt:
// the backend must never receive the same terminal status twice.
type Sender struct {
	secret     string
	httpClient *http.Client
	executor   *resilience.Executor
	observe    Observer
}

func NewSender(secret string, timeout time.Duration, executor *resilience.Executor, observe Observer) *Sender {
	return &Sender{
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
		observe:    observe,
	}
}

func (s *Sender) Send(ctx context.Context, callbackURL string, payload domain.CallbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		s.report(OutcomeFailed)
		return fmt.Errorf("marshal callback: %w", err)
	}
	sig := signature.Sign(s.secret, body)

	err = s.executor.ExecuteOnce(ctx, operationFor(callbackURL), func(ctx context.Context) error {
		return s.post(ctx, callbackURL, body, sig)
	}, classifyCallbackError)

	switch {
	case err == nil:
		s.report(OutcomeDelivered)
		return nil
	case isStatusError(err):
		s.report(OutcomeRejected)
		return err
	default:
		s.report(OutcomeFailed)
		return err
	}
}

func (s *Sender) post(ctx context.Context, callbackURL string, body []byte, sig string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sig)
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("callback request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPStatusError{URL: callbackURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func (s *Sender) report(outcome string) {
	if s.observe != nil {
		s.observe(outcome)
	}
}

func isStatusError(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr)
}

// operationFor scopes the circuit breaker to the callback host.
func operationFor(callbackURL string) string {
	u, err := url.Parse(callbackURL)
	if err != nil || u.Host == "" {
		return "callback"
	}
	return "callback." + u.Host
}
