// Package server exposes the MCP server over streamable HTTP together with
// health and Prometheus endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olgasafonova/wordpress-mcp-server/internal/infra"
)

const shutdownTimeout = 10 * time.Second

// HealthSource reports the state of the upstream circuit breaker.
type HealthSource interface {
	CircuitBreakerStats() infra.CircuitBreakerStats
}

// Config configures the HTTP server.
type Config struct {
	Addr      string
	RateLimit float64 // requests per second per client IP on /mcp
	Burst     int
	Version   string
}

// HealthResponse is the body served on /health.
type HealthResponse struct {
	Status  string                    `json:"status"`
	Version string                    `json:"version,omitempty"`
	Circuit infra.CircuitBreakerStats `json:"circuit"`
}

// Server serves /mcp, /health and /metrics.
type Server struct {
	echo    *echo.Echo
	limiter *RateLimiter
	health  HealthSource
	cfg     Config
	logger  *slog.Logger
}

// New builds the HTTP server. Every MCP session is served by mcpServer.
func New(mcpServer *mcp.Server, health HealthSource, cfg Config, logger *slog.Logger) *Server {
	if cfg.Burst < 1 {
		cfg.Burst = max(int(cfg.RateLimit), 1)
	}

	s := &Server{
		echo:    echo.New(),
		limiter: NewRateLimiter(cfg.RateLimit, cfg.Burst),
		health:  health,
		cfg:     cfg,
		logger:  logger,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	// Rate limits key on the peer address; forwarding headers are client-controlled.
	e.IPExtractor = echo.ExtractIPDirect()

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				logger.DebugContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.WarnContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	e.Any("/mcp", echo.WrapHandler(mcpHandler), s.limiter.Middleware())
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	stats := s.health.CircuitBreakerStats()
	resp := HealthResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Circuit: stats,
	}
	status := http.StatusOK
	if stats.State == "open" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
