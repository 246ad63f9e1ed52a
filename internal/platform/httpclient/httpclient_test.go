package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	perrors "sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
	"sleuth/internal/testutil"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      2,
		RetryBackoff:    time.Millisecond,
		MaxRetryBackoff: 5 * time.Millisecond,
	}
}

func TestNew(t *testing.T) {
	logger := logx.NewSilent()

	t.Run("applies defaults for zero values", func(t *testing.T) {
		client := New(Config{}, logger)

		testutil.AssertEqual(t, client.config.Timeout, 60*time.Second, "default timeout")
		testutil.AssertEqual(t, client.config.MaxRetries, 2, "default retries")
		testutil.AssertEqual(t, client.config.UserAgent, "sleuth/1.0", "default user agent")
		testutil.AssertTrue(t, client.rateLimiter == nil, "no limiter by default")
	})

	t.Run("negative retries disable retrying", func(t *testing.T) {
		client := New(Config{MaxRetries: -1}, logger)
		testutil.AssertEqual(t, client.config.MaxRetries, 0, "retries")
	})

	t.Run("creates rate limiter when configured", func(t *testing.T) {
		client := New(Config{RateLimit: 10, RateLimitBurst: 5}, logger)
		testutil.AssertNotNil(t, client.rateLimiter, "limiter")
	})
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Header.Get("User-Agent"), "sleuth/1.0", "user agent")
		testutil.AssertEqual(t, r.Header.Get("X-Test"), "1", "custom header")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(fastConfig(), logx.NewSilent())
	resp, err := client.Get(context.Background(), server.URL, map[string]string{"X-Test": "1"})
	testutil.AssertNoError(t, err, "get")

	body, err := ReadBody(resp)
	testutil.AssertNoError(t, err, "read body")
	testutil.AssertEqual(t, string(body), `{"status":"ok"}`, "body")
}

func TestClient_Retry(t *testing.T) {
	t.Run("retries gateway statuses then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := New(fastConfig(), logx.NewSilent())
		_, err := client.GetJSON(context.Background(), server.URL)
		testutil.AssertNoError(t, err, "third attempt succeeds")
		testutil.AssertEqual(t, calls.Load(), int32(3), "attempts")
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		mock := &testutil.MockTransport{Responses: []testutil.MockResponse{{Status: http.StatusTooManyRequests}}}
		cfg := fastConfig()
		cfg.Transport = mock

		client := New(cfg, logx.NewSilent())
		_, err := client.Get(context.Background(), "https://api.example.com/search", nil)
		testutil.AssertTrue(t, perrors.IsRateLimit(err), "rate limit error")
		testutil.AssertEqual(t, mock.Calls(), 3, "attempts")
	})

	t.Run("retries transport errors", func(t *testing.T) {
		mock := &testutil.MockTransport{Responses: []testutil.MockResponse{
			{Err: errors.New("connection reset")},
			{Status: http.StatusOK, Body: `{"ok":true}`},
		}}
		cfg := fastConfig()
		cfg.Transport = mock

		client := New(cfg, logx.NewSilent())
		doc, err := client.GetJSON(context.Background(), "https://api.example.com/search")
		testutil.AssertNoError(t, err, "second attempt succeeds")
		testutil.AssertEqual(t, string(doc), `{"ok":true}`, "doc")
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		mock := &testutil.MockTransport{Responses: []testutil.MockResponse{{Status: http.StatusUnauthorized, Body: `{"error":"bad key"}`}}}
		cfg := fastConfig()
		cfg.Transport = mock

		client := New(cfg, logx.NewSilent())
		_, err := client.GetJSON(context.Background(), "https://api.example.com/search")
		testutil.AssertTrue(t, perrors.IsUnauthorized(err), "unauthorized")
		testutil.AssertEqual(t, mock.Calls(), 1, "single attempt")
	})
}

func TestClient_GetJSON_Invalid(t *testing.T) {
	mock := &testutil.MockTransport{Responses: []testutil.MockResponse{{Status: http.StatusOK, Body: `<html>`}}}
	cfg := fastConfig()
	cfg.Transport = mock

	client := New(cfg, logx.NewSilent())
	_, err := client.GetJSON(context.Background(), "https://api.example.com/search")
	testutil.AssertTrue(t, perrors.IsInvalidResponse(err), "invalid response")
}

func TestClient_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(fastConfig(), logx.NewSilent())
	_, err := client.Get(ctx, "http://127.0.0.1:1/", nil)
	testutil.AssertTrue(t, errors.Is(err, context.Canceled), "cancelled")
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, perrors.IsRateLimit},
		{http.StatusNotFound, perrors.IsNotFound},
		{http.StatusForbidden, perrors.IsUnauthorized},
		{http.StatusBadRequest, perrors.IsInvalidInput},
		{http.StatusInternalServerError, perrors.IsServiceUnavailable},
		{http.StatusTeapot, perrors.IsInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Body: io.NopCloser(strings.NewReader(""))}
			testutil.AssertTrue(t, tt.check(CheckStatus(resp)), "sentinel")
		})
	}

	testutil.AssertNoError(t, CheckStatus(&http.Response{StatusCode: http.StatusCreated}), "2xx")
	testutil.AssertError(t, CheckStatus(nil), "nil response")
}

func TestClient_String(t *testing.T) {
	client := New(Config{RateLimit: 2}, logx.NewSilent())
	testutil.AssertContains(t, client.String(), "rate_limit=2.0/s", "string")
}
