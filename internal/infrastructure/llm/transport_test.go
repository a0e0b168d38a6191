package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cad-agent/internal/infrastructure/logger"
)

func newTestTransport(url string, maxRetries int) *transport {
	return &transport{
		baseURL:    url,
		apiKey:     "test-key",
		httpClient: &http.Client{},
		logger:     logger.NewNop(),
		maxRetries: maxRetries,
		baseDelay:  time.Millisecond,
	}
}

func TestDoRetriesServerErrorsUntilSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	tr := newTestTransport(server.URL, 3)
	resp, err := tr.do(context.Background(), http.MethodPost, "/chat/completions", []byte(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(4), attempts.Load())
}

func TestDoExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	tr := newTestTransport(server.URL, 2)
	_, err := tr.do(context.Background(), http.MethodPost, "/chat/completions", nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}

func TestDoBackoffDelaysDouble(t *testing.T) {
	var (
		mu       sync.Mutex
		arrivals []time.Time
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		count := len(arrivals)
		mu.Unlock()
		if count <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	base := 50 * time.Millisecond
	tr := newTestTransport(server.URL, 3)
	tr.baseDelay = base

	resp, err := tr.do(context.Background(), http.MethodPost, "/chat/completions", nil)
	require.NoError(t, err)
	resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrivals, 4)

	// Gaps between attempts follow base, 2*base, 4*base. Upper bounds are
	// loose to tolerate scheduling jitter; what matters is the doubling.
	for i, want := range []time.Duration{base, 2 * base, 4 * base} {
		gap := arrivals[i+1].Sub(arrivals[i])
		assert.GreaterOrEqual(t, gap, want, "gap %d too short", i+1)
		assert.Less(t, gap, want+base, "gap %d too long", i+1)
	}
}

func TestDoDoesNotRetryTerminalStatuses(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404} {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(status)
			w.Write([]byte("denied"))
		}))

		tr := newTestTransport(server.URL, 3)
		_, err := tr.do(context.Background(), http.MethodPost, "/chat/completions", nil)
		require.Error(t, err, "status %d", status)
		assert.Equal(t, int32(1), attempts.Load(), "status %d should not retry", status)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, status, apiErr.Status)
		assert.Equal(t, "denied", apiErr.Body)

		server.Close()
	}
}

func TestDoSendsFreshBodyPerAttempt(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"model":"m"}`, string(body))
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	tr := newTestTransport(server.URL, 1)
	resp, err := tr.do(context.Background(), http.MethodPost, "/chat/completions", []byte(`{"model":"m"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(2), attempts.Load())
}

func TestDoCancelsDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tr := newTestTransport(server.URL, 3)
	tr.baseDelay = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := tr.do(ctx, http.MethodPost, "/chat/completions", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoSetsAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	tr := newTestTransport(server.URL, 0)
	resp, err := tr.do(context.Background(), http.MethodPost, "/chat/completions", nil)
	require.NoError(t, err)
	resp.Body.Close()
}
