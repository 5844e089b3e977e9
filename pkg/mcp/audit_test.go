package mcp

import (
	"context"
	"errors"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedAudit() (*AuditLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewAuditLogger(zap.New(core)), logs
}

func callToolRequest(tool string, args map[string]any) *mcplib.CallToolRequest {
	req := &mcplib.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	return req
}

func TestAuditLogger_RecordsCompletedCall(t *testing.T) {
	audit, logs := newObservedAudit()
	ctx := context.Background()
	req := callToolRequest("profile_column", map[string]any{"column": "AMOUNT"})

	audit.beforeCallTool(ctx, int64(1), req)
	audit.afterCallTool(ctx, int64(1), req, &mcplib.CallToolResult{})

	entries := logs.FilterMessage("Tool call completed").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "profile_column", fields["tool"])
	assert.Equal(t, false, fields["tool_error"])
	assert.NotEmpty(t, fields["event_id"])
	assert.Contains(t, fields["arguments"], "AMOUNT")
}

func TestAuditLogger_MarksToolErrors(t *testing.T) {
	audit, logs := newObservedAudit()
	ctx := context.Background()
	req := callToolRequest("list_assets", nil)

	audit.beforeCallTool(ctx, int64(2), req)
	audit.afterCallTool(ctx, int64(2), req, &mcplib.CallToolResult{IsError: true})

	entries := logs.FilterMessage("Tool call completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["tool_error"])
}

func TestAuditLogger_SanitizesArguments(t *testing.T) {
	audit, logs := newObservedAudit()
	ctx := context.Background()
	req := callToolRequest("diagnostics", map[string]any{
		"note": "client_secret=oops",
	})

	audit.beforeCallTool(ctx, int64(3), req)
	audit.afterCallTool(ctx, int64(3), req, &mcplib.CallToolResult{})

	entries := logs.FilterMessage("Tool call completed").All()
	require.Len(t, entries, 1)
	args := entries[0].ContextMap()["arguments"].(string)
	assert.NotContains(t, args, "oops")
	assert.Contains(t, args, "[REDACTED]")
}

func TestAuditLogger_OnErrorLogsToolFailures(t *testing.T) {
	audit, logs := newObservedAudit()
	ctx := context.Background()
	req := callToolRequest("preview_asset", nil)

	audit.beforeCallTool(ctx, int64(4), req)
	audit.onError(ctx, int64(4), mcplib.MethodToolsCall, req, errors.New("tenant down"))

	entries := logs.FilterMessage("Tool call failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "preview_asset", entries[0].ContextMap()["tool"])
}

func TestAuditLogger_OnErrorIgnoresNonToolMethods(t *testing.T) {
	audit, logs := newObservedAudit()

	audit.onError(context.Background(), int64(5), mcplib.MethodPing, nil, errors.New("x"))

	assert.Empty(t, logs.All())
}

func TestAuditLogger_ElapsedWithoutStartIsZero(t *testing.T) {
	audit, _ := newObservedAudit()

	assert.Equal(t, int64(0), int64(audit.elapsed("never-started")))
}
