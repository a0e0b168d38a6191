package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cad-agent/internal/application/port/output"
)

// APIError is a non-2xx response from the model service, kept with enough
// of the body to diagnose it.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model api error: status %d: %s", e.Status, e.Body)
}

const errBodyLimit = 4 * 1024

// transport issues one logical request with classified retries. Transient
// failures (429, 5xx, network errors) are retried with exponential
// backoff; anything else fails immediately.
type transport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     output.LoggerPort

	maxRetries int
	baseDelay  time.Duration
}

func (t *transport) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			delay := t.baseDelay * time.Duration(1<<(attempt-1))
			t.logger.Info("Retrying model request",
				"attempt", attempt,
				"delay", delay.String(),
				"error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("request canceled during backoff: %w", ctx.Err())
			}
		}

		// The body reader is consumed per attempt, so each retry builds
		// a fresh request.
		req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+t.apiKey)

		resp, err := t.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request canceled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("send request: %w", err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		resp.Body.Close()
		apiErr := &APIError{Status: resp.StatusCode, Body: string(body)}

		if !retryable(resp.StatusCode) {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", t.maxRetries+1, lastErr)
}

// retryable classifies a status code. Rate limiting and server-side
// failures are worth another attempt; every other status is treated as
// terminal, client errors included.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
