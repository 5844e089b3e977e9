package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// optionalInt reads an optional integer argument, returning def when absent.
// mcp-go delivers JSON numbers as float64.
func optionalInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// optionalString reads an optional string argument, returning "" when absent.
func optionalString(req mcp.CallToolRequest, name string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := args[name].(string)
	return s
}

// optionalStringSlice reads an optional array-of-strings argument.
func optionalStringSlice(req mcp.CallToolRequest, name string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// clampTop applies a row cap to a requested top and reports the clamp in a
// meta map. def is used when the agent did not ask for a specific top.
func clampTop(requested, def, cap int) (int, map[string]any) {
	effective := requested
	if effective <= 0 {
		effective = def
	}
	applied := false
	if cap > 0 && effective > cap {
		effective = cap
		applied = true
	}
	meta := map[string]any{
		"requested_top": requested,
		"effective_top": effective,
		"top":           effective,
		"cap_top":       cap,
		"cap_applied":   applied,
	}
	return effective, meta
}
