// WordPress MCP Server - A Model Context Protocol server for WordPress content
// Provides read-only tools for pages, posts, categories and tags of one site
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/olgasafonova/wordpress-mcp-server/internal/config"
	"github.com/olgasafonova/wordpress-mcp-server/internal/logging"
	"github.com/olgasafonova/wordpress-mcp-server/internal/server"
	"github.com/olgasafonova/wordpress-mcp-server/internal/wordpress"
	"github.com/olgasafonova/wordpress-mcp-server/tools"
	"github.com/olgasafonova/wordpress-mcp-server/tracing"
)

const (
	ServerName    = "wordpress-mcp-server"
	ServerVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (default: CONFIG_PATH, then environment)")
	httpMode := flag.Bool("http", false, "Serve streamable HTTP on HTTP_ADDR instead of stdio")
	flag.Parse()

	if err := run(*configPath, *httpMode); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(configPath string, httpMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logs go to stderr; stdout carries the MCP protocol in stdio mode
	logger := logging.New(cfg.Log.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracingCfg := tracing.DefaultConfig()
	tracingCfg.ServiceVersion = ServerVersion
	shutdownTracing, err := tracing.Setup(ctx, tracingCfg)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Warn("Tracing shutdown failed", "error", err)
			}
		}()
	}

	client := wordpress.NewClientFromConfig(cfg.WordPress, logger)
	defer client.Close()

	mcpServer := newMCPServer(client, logger)

	logger.Info("Starting WordPress MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"api_root", client.APIRoot(),
		"http", httpMode,
	)

	if httpMode {
		srv := server.New(mcpServer, client, server.Config{
			Addr:      cfg.HTTP.Addr,
			RateLimit: cfg.HTTP.RateLimit,
			Version:   ServerVersion,
		}, logger)
		return srv.Run(ctx)
	}

	return mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// newMCPServer creates the MCP server with every tool registered.
func newMCPServer(client *wordpress.Client, logger *slog.Logger) *mcp.Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: instructions(),
	})

	tools.NewHandlerRegistry(client, logger).RegisterAll(mcpServer)
	return mcpServer
}

func instructions() string {
	var b strings.Builder
	b.WriteString("WordPress MCP Server provides read-only access to the pages, posts, categories and tags of one WordPress site.\n\nAvailable tools:\n")
	for _, spec := range tools.AllTools {
		fmt.Fprintf(&b, "- %s: %s\n", spec.Name, spec.Title)
	}
	b.WriteString(`
Configure via environment variables:
- WP_DOMAIN: Site URL (e.g., https://blog.example.com)
- WP_PRODUCTION: true when WP_DOMAIN already is the REST API root
- WP_CACHE_TTL: Enable response caching (e.g., 5m)`)
	return b.String()
}
