package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeaders(JSONHeaders()))
	resp, err := c.Get(context.Background(), "/query", url.Values{"function": {"NEWS_SENTIMENT"}})
	require.NoError(t, err)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, resp.ParseJSON(&out))
	assert.True(t, out.OK)
}

func TestGetReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.True(t, IsTooManyRequests(err))
	assert.True(t, Retryable(err))
}

func TestDoWithRetryRecovers(t *testing.T) {
	var calls int32
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond}

	v, err := DoWithRetry(context.Background(), cfg, func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return 0, errors.New("connection reset")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.EqualValues(t, 3, calls)
}

func TestDoWithRetryStopsOnClientError(t *testing.T) {
	var calls int32
	cfg := &RetryConfig{MaxAttempts: 5, InitialWait: time.Millisecond, MaxWait: time.Millisecond}

	_, err := DoWithRetry(context.Background(), cfg, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", &StatusError{StatusCode: http.StatusNotFound}
	})
	require.Error(t, err)
	assert.EqualValues(t, 1, calls)

	var se *StatusError
	assert.True(t, errors.As(err, &se))
}

func TestDoWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour}

	done := make(chan error, 1)
	go func() {
		_, err := DoWithRetry(ctx, cfg, func(ctx context.Context) (int, error) {
			return 0, errors.New("timeout")
		})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not stop on cancellation")
	}
}
