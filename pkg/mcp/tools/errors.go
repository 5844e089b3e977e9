package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results. Recoverable,
// actionable errors are returned this way so the calling agent sees the
// details instead of a swallowed protocol error.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for errors the agent can act on (unknown space, bad filter,
// missing column). System failures (tenant unreachable) should still be
// returned as Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context,
// e.g. the list of available columns next to a column_not_found.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// classifyError maps an engine error to a stable error code, or "" when the
// error is a system failure that should propagate as a protocol error.
func classifyError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrColumnNotFound):
		return "column_not_found"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidQuery):
		return "invalid_query"
	default:
		return ""
	}
}

// errorResultOrPassthrough converts actionable engine errors into structured
// error results and passes system failures through unchanged. Every handler
// funnels its Data Source errors here so the taxonomy is applied uniformly.
func errorResultOrPassthrough(err error) (*mcp.CallToolResult, error) {
	code := classifyError(err)
	if code == "" {
		return nil, err
	}

	var colErr *apperrors.ColumnNotFoundError
	if errors.As(err, &colErr) {
		return NewErrorResultWithDetails(code, err.Error(), map[string]any{
			"requested_column":  colErr.Column,
			"available_columns": colErr.Available,
		}), nil
	}
	return NewErrorResult(code, err.Error()), nil
}
