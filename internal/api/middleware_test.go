package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	handler := RateLimitMiddleware(5)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set("X-Client-ID", "client-a")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	handler := RateLimitMiddleware(3)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set("X-Client-ID", "client-a")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	// 4th request should be rate-limited
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("X-Client-ID", "client-a")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "rate limit exceeded") {
		t.Errorf("expected JSON error body, got %s", w.Body.String())
	}
}

func TestRateLimitMiddleware_IgnoresClientIDHeader(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	accepted := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Client-ID", fmt.Sprintf("client-%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			accepted++
		}
	}
	if accepted != 2 {
		t.Errorf("expected 2 accepted requests with rotating client ids, got %d", accepted)
	}
}

func TestRateLimitMiddleware_KeysOnRemoteHost(t *testing.T) {
	handler := RateLimitMiddleware(1)(okHandler())

	first := httptest.NewRequest("POST", "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	other := httptest.NewRequest("POST", "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Errorf("different address should not be limited, got %d", w.Code)
	}

	// A new source port is the same client.
	again := httptest.NewRequest("POST", "/", nil)
	again.RemoteAddr = "10.0.0.1:5678"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, again)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_BehindRealIP(t *testing.T) {
	handler := chiMiddleware.RealIP(RateLimitMiddleware(1)(okHandler()))

	for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", ip, w.Code)
		}
	}
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	clock := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 50; i++ {
		rl.allow(fmt.Sprintf("10.0.0.%d", i))
	}
	if len(rl.requests) != 50 {
		t.Fatalf("expected 50 tracked clients, got %d", len(rl.requests))
	}

	clock = clock.Add(2 * time.Minute)
	if !rl.allow("10.0.1.1") {
		t.Fatal("expected request after the window to pass")
	}
	if len(rl.requests) != 1 {
		t.Errorf("expected idle clients to be dropped, %d remain", len(rl.requests))
	}
}

func TestRateLimitMiddleware_ZeroDisables(t *testing.T) {
	handler := RateLimitMiddleware(0)(okHandler())
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	called := false
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Client-ID", "test-client")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Error("inner handler was not called")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", w.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "client=192.0.2.1") || !strings.Contains(out, "client_id=test-client") || !strings.Contains(out, "status=418") {
		t.Errorf("unexpected log line: %s", out)
	}
}
