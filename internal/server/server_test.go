package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/olgasafonova/wordpress-mcp-server/internal/infra"
)

type fakeHealth struct {
	stats infra.CircuitBreakerStats
}

func (f fakeHealth) CircuitBreakerStats() infra.CircuitBreakerStats { return f.stats }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, health HealthSource, cfg Config) *Server {
	t.Helper()
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	s := New(mcpServer, health, cfg, quietLogger())
	t.Cleanup(s.limiter.Close)
	return s
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		state      string
		wantCode   int
		wantStatus string
	}{
		{"closed", "closed", http.StatusOK, "ok"},
		{"half-open", "half-open", http.StatusOK, "ok"},
		{"open", "open", http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, fakeHealth{infra.CircuitBreakerStats{State: tt.state, ConsecutiveFails: 2}},
				Config{RateLimit: 10, Version: "1.2.3"})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var body HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", body.Status, tt.wantStatus)
			}
			if body.Version != "1.2.3" {
				t.Errorf("Version = %q", body.Version)
			}
			if body.Circuit.State != tt.state || body.Circuit.ConsecutiveFails != 2 {
				t.Errorf("Circuit = %+v", body.Circuit)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, fakeHealth{}, Config{RateLimit: 10})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected default Go collector output")
	}
}

func TestMCPEndpointRateLimited(t *testing.T) {
	s := newTestServer(t, fakeHealth{}, Config{RateLimit: 0.001, Burst: 1})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	if w := send(); w.Code == http.StatusTooManyRequests {
		t.Fatal("first request should not be rate limited")
	}
	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestMCPEndpointRateLimitIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t, fakeHealth{}, Config{RateLimit: 0.001, Burst: 1})

	send := func(forwardedFor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.Header.Set("X-Real-IP", forwardedFor)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	if w := send("10.0.0.1"); w.Code == http.StatusTooManyRequests {
		t.Fatal("first request should not be rate limited")
	}
	if w := send("10.0.0.2"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 for a spoofed X-Forwarded-For", w.Code)
	}
}

func TestHealthNotRateLimited(t *testing.T) {
	s := newTestServer(t, fakeHealth{}, Config{RateLimit: 0.001, Burst: 1})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, fakeHealth{}, Config{Addr: "127.0.0.1:0", RateLimit: 10})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunListenError(t *testing.T) {
	s := newTestServer(t, fakeHealth{}, Config{Addr: "invalid-address", RateLimit: 10})

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
