package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/mediscan/ai-service/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "callback status error"
	}
	return fmt.Sprintf("callback %s status: %s", e.URL, e.Status)
}

// classifyCallbackError decides what the callback breaker records. A
// backend that answers 4xx is healthy and rejecting this payload; only
// server errors and transport failures count against it.
func classifyCallbackError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= http.StatusInternalServerError {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
