package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/olgasafonova/wordpress-mcp-server/internal/wordpress"
	"github.com/olgasafonova/wordpress-mcp-server/metrics"
	"github.com/olgasafonova/wordpress-mcp-server/tracing"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	client *wordpress.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *wordpress.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		client: client,
		logger: logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	registered := 0
	for _, spec := range AllTools {
		if h.registerByName(server, spec) {
			registered++
		}
	}
	h.logger.Info("Registered all tools", "count", registered)
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) bool {
	tool := h.buildTool(spec)
	c := h.client

	switch spec.Method {
	case "GetPage":
		register(h, server, tool, spec, c.GetPageMCP)
	case "GetPost":
		register(h, server, tool, spec, c.GetPostMCP)
	case "LatestPosts":
		register(h, server, tool, spec, c.LatestPostsMCP)
	case "ListPosts":
		register(h, server, tool, spec, c.ListPostsMCP)
	case "ListPostSlugs":
		register(h, server, tool, spec, c.ListPostSlugsMCP)
	case "ListCategories":
		register(h, server, tool, spec, c.ListCategoriesMCP)
	case "ListTags":
		register(h, server, tool, spec, c.ListTagsMCP)
	case "PostsByCategory":
		register(h, server, tool, spec, c.PostsByCategoryMCP)
	case "PostsByTags":
		register(h, server, tool, spec, c.PostsByTagsMCP)
	case "SiteIndex":
		register(h, server, tool, spec, c.SiteIndexMCP)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
		return false
	}
	return true
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (_ *mcp.CallToolResult, result Result, err error) {
		defer h.recoverPanic(spec.Name, &err)

		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		tracing.AddToolAttributes(span, spec.Name, spec.Category)
		span.SetAttributes(
			attribute.String("mcp.tool.resource", spec.Resource),
			attribute.Bool("mcp.tool.readonly", spec.ReadOnly),
		)

		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err = method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			tracing.RecordError(span, err)
			metrics.RecordRequest(spec.Name, duration, false)
			var zero Result
			return nil, zero, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(ctx, spec, args, result, duration)
		return nil, result, nil
	})
}

// recoverPanic recovers from panics in tool handlers and turns them into
// a tool error.
func (h *HandlerRegistry) recoverPanic(toolName string, err *error) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
		if err != nil {
			*err = fmt.Errorf("%s failed: internal error", toolName)
		}
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(ctx context.Context, spec ToolSpec, args, result any, duration float64) {
	attrs := []any{"tool", spec.Name, "duration_ms", int64(duration * 1000)}

	switch a := args.(type) {
	case wordpress.GetPageArgs:
		attrs = append(attrs, "slug", a.Slug)
	case wordpress.GetPostArgs:
		attrs = append(attrs, "slug", a.Slug)
	case wordpress.LatestPostsArgs:
		attrs = append(attrs, "per_page", a.PerPage)
	case wordpress.ListPostsArgs:
		attrs = append(attrs, "page", a.Page, "per_page", a.PerPage)
	case wordpress.PostsByCategoryArgs:
		attrs = append(attrs, "category_ids", a.CategoryIDs)
	case wordpress.PostsByTagsArgs:
		attrs = append(attrs, "tag_ids", a.TagIDs)
	}

	switch r := result.(type) {
	case wordpress.GetPageResult:
		attrs = append(attrs, "found", r.Found)
	case wordpress.GetPostResult:
		attrs = append(attrs, "found", r.Found)
	case wordpress.PostListResult:
		attrs = append(attrs, "results_count", r.Count)
	case wordpress.ListPostsResult:
		attrs = append(attrs, "results_count", len(r.Posts), "total_pages", r.TotalPages)
	case wordpress.ListPostSlugsResult:
		attrs = append(attrs, "results_count", r.Count)
	case wordpress.ListTermsResult:
		attrs = append(attrs, "results_count", r.Count)
	case wordpress.SiteIndexResult:
		attrs = append(attrs, "posts", r.PostCount, "categories", r.CategoryCount, "tags", r.TagCount)
	}

	h.logger.InfoContext(ctx, "Tool executed", attrs...)
}
