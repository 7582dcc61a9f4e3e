package external

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/types"
)

func newTestClient(t *testing.T) (*BaseClient, *[]time.Duration) {
	t.Helper()
	sleeps := &[]time.Duration{}
	bc := NewBaseClient(
		&http.Client{Timeout: 2 * time.Second},
		"test-breaker-"+t.Name(),
		RetryPolicy{MaxRetries: 2, MinWait: time.Millisecond, MaxWait: 10 * time.Millisecond},
		"Chronos-Test/1.0",
		WithSleepFunc(func(d time.Duration) { *sleeps = append(*sleeps, d) }),
	)
	return bc, sleeps
}

func TestDoSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bc, _ := newTestClient(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := bc.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Chronos-Test/1.0", gotUA)
}

func TestDoRetriesOn5xxThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bc, sleeps := newTestClient(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := bc.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 3, attempts)
	assert.Len(t, *sleeps, 2)
}

func TestDoExhaustedRetriesMapsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	bc, _ := newTestClient(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := bc.Do(req)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamUnavailable, appErr.Code)
}

func TestDoDoesNotRetry4xx(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	bc, _ := newTestClient(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := bc.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestDoRespectsRetryAfterSeconds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bc, sleeps := newTestClient(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := bc.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Len(t, *sleeps, 1)
	// Retry-After of 1s exceeds MaxWait (10ms), so it clamps to MaxWait.
	assert.Equal(t, 10*time.Millisecond, (*sleeps)[0])
}
