// Package tools implements the MCP tool surface: nine operations that
// translate typed requests into KoboToolbox API calls and reshape the
// responses for the calling agent.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kobohub/kobohub/internal/core"
	"github.com/kobohub/kobohub/internal/kobo"
	"github.com/kobohub/kobohub/internal/telemetry"
)

// Service holds the shared dependencies of every tool handler. No state
// survives a call; each invocation's job identifiers and polling counters
// are local to it.
type Service struct {
	client       *kobo.Client
	logger       *slog.Logger
	pollInterval time.Duration
}

func NewService(client *kobo.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:       client,
		logger:       logger,
		pollInterval: kobo.DefaultPollInterval,
	}
}

// Register adds every tool to the MCP server.
func (s *Service) Register(srv *server.MCPServer) {
	srv.AddTool(listFormsTool(), s.handle("list_forms", s.listForms))
	srv.AddTool(getFormTool(), s.handle("get_form", s.getForm))
	srv.AddTool(resolveFormTool(), s.handle("resolve_form", s.resolveForm))
	srv.AddTool(exportFormTool(), s.handle("export_form", s.exportForm))
	srv.AddTool(getSubmissionsTool(), s.handle("get_submissions", s.getSubmissions))
	srv.AddTool(deployFormTool(), s.handle("deploy_form", s.deployForm))
	srv.AddTool(replaceFormTool(), s.handle("replace_form", s.replaceForm))
	srv.AddTool(exportDataTool(), s.handle("export_data", s.exportData))
	srv.AddTool(infoTool(), s.handle("info", s.info))
}

type handlerFunc func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// handle wraps a tool handler with per-call trace-ID logging and
// telemetry.
func (s *Service) handle(name string, fn handlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		traceID := uuid.New().String()
		start := time.Now()

		res, err := fn(ctx, req)

		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		elapsed := time.Since(start)
		telemetry.IncToolCall(name, status)
		telemetry.ObserveToolDuration(name, elapsed)
		s.logger.Info("tool call completed",
			"trace_id", traceID,
			"tool_name", name,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		)
		return res, err
	}
}

// jsonResult renders v as the pretty-printed JSON text every JSON tool
// returns.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	text, err := core.RenderJSON(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}
