package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/logging"
)

// maxAuditArgLength caps how much of a tool call's arguments gets logged.
const maxAuditArgLength = 500

// AuditLogger records the lifecycle of every tool call as structured log
// events. This service holds no persistent state, so the audit trail lives
// in the log stream rather than a database.
type AuditLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewAuditLogger creates an AuditLogger that records MCP tool events.
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{logger: logger.Named("mcp-audit")}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *AuditLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *AuditLogger) afterCallTool(_ context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	duration := a.elapsed(id)

	isError := result != nil && result.IsError
	a.logger.Info("Tool call completed",
		zap.String("event_id", uuid.NewString()),
		zap.String("tool", req.Params.Name),
		zap.String("arguments", summarizeArguments(req)),
		zap.Bool("tool_error", isError),
		zap.Duration("duration", duration),
	)
}

func (a *AuditLogger) onError(_ context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}
	duration := a.elapsed(id)

	toolName := ""
	if req, ok := message.(*mcplib.CallToolRequest); ok {
		toolName = req.Params.Name
	}
	a.logger.Warn("Tool call failed",
		zap.String("event_id", uuid.NewString()),
		zap.String("tool", toolName),
		zap.String("error", logging.SanitizeError(err)),
		zap.Duration("duration", duration),
	)
}

func (a *AuditLogger) elapsed(id any) time.Duration {
	value, ok := a.startTimes.LoadAndDelete(id)
	if !ok {
		return 0
	}
	return time.Since(value.(time.Time))
}

// summarizeArguments renders a tool call's arguments for the audit trail,
// scrubbed and truncated.
func summarizeArguments(req *mcplib.CallToolRequest) string {
	if req == nil || req.Params.Arguments == nil {
		return ""
	}
	raw, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return ""
	}
	return logging.TruncateString(logging.SanitizeString(string(raw)), maxAuditArgLength)
}
