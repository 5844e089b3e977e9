package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
)

func decodeErrorResult(t *testing.T, result *mcp.CallToolResult) ErrorResponse {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	return resp
}

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult("not_found", "space gone")

	assert.True(t, result.IsError)
	resp := decodeErrorResult(t, result)
	assert.True(t, resp.Error)
	assert.Equal(t, "not_found", resp.Code)
	assert.Equal(t, "space gone", resp.Message)
	assert.Nil(t, resp.Details)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"column not found", &apperrors.ColumnNotFoundError{Column: "X"}, "column_not_found"},
		{"not found", &apperrors.NotFoundError{SpaceID: "S"}, "not_found"},
		{"invalid query", &apperrors.InvalidQueryError{Detail: "bad"}, "invalid_query"},
		{"connectivity is not actionable", &apperrors.ConnectivityError{Op: "ping", Cause: errors.New("down")}, ""},
		{"plain error is not actionable", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyError(tt.err))
		})
	}
}

func TestErrorResultOrPassthrough_ActionableError(t *testing.T) {
	result, err := errorResultOrPassthrough(&apperrors.NotFoundError{SpaceID: "S", AssetID: "A"})
	require.NoError(t, err)
	require.NotNil(t, result)

	resp := decodeErrorResult(t, result)
	assert.Equal(t, "not_found", resp.Code)
}

func TestErrorResultOrPassthrough_ColumnNotFoundCarriesDetails(t *testing.T) {
	result, err := errorResultOrPassthrough(&apperrors.ColumnNotFoundError{
		Column:    "AMT",
		Available: []string{"AMOUNT", "STATUS"},
	})
	require.NoError(t, err)

	resp := decodeErrorResult(t, result)
	assert.Equal(t, "column_not_found", resp.Code)

	details, ok := resp.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AMT", details["requested_column"])
	assert.Equal(t, []any{"AMOUNT", "STATUS"}, details["available_columns"])
}

func TestErrorResultOrPassthrough_SystemFailurePropagates(t *testing.T) {
	cause := &apperrors.ConnectivityError{Op: "list spaces", Cause: errors.New("down")}

	result, err := errorResultOrPassthrough(cause)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrConnectivity)
}
