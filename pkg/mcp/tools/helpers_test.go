package tools

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithArgs(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestOptionalInt(t *testing.T) {
	req := requestWithArgs(map[string]any{
		"top":  float64(42), // JSON numbers arrive as float64
		"name": "x",
	})

	assert.Equal(t, 42, optionalInt(req, "top", 7))
	assert.Equal(t, 7, optionalInt(req, "missing", 7))
	assert.Equal(t, 7, optionalInt(req, "name", 7))
	assert.Equal(t, 7, optionalInt(mcp.CallToolRequest{}, "top", 7))
}

func TestOptionalString(t *testing.T) {
	req := requestWithArgs(map[string]any{"space_id": "S1", "top": float64(3)})

	assert.Equal(t, "S1", optionalString(req, "space_id"))
	assert.Equal(t, "", optionalString(req, "missing"))
	assert.Equal(t, "", optionalString(req, "top"))
}

func TestOptionalStringSlice(t *testing.T) {
	req := requestWithArgs(map[string]any{
		"select": []any{"A", "B", "", 3},
	})

	assert.Equal(t, []string{"A", "B"}, optionalStringSlice(req, "select"))
	assert.Nil(t, optionalStringSlice(req, "missing"))
}

func TestClampTop(t *testing.T) {
	t.Run("request under cap passes through", func(t *testing.T) {
		effective, meta := clampTop(50, 20, 100)
		assert.Equal(t, 50, effective)
		assert.Equal(t, 50, meta["effective_top"])
		assert.Equal(t, 100, meta["cap_top"])
		assert.Equal(t, false, meta["cap_applied"])
	})

	t.Run("request over cap is clamped", func(t *testing.T) {
		effective, meta := clampTop(5000, 20, 100)
		assert.Equal(t, 100, effective)
		assert.Equal(t, 5000, meta["requested_top"])
		assert.Equal(t, 100, meta["effective_top"])
		assert.Equal(t, true, meta["cap_applied"])
	})

	t.Run("zero request uses default", func(t *testing.T) {
		effective, meta := clampTop(0, 20, 100)
		assert.Equal(t, 20, effective)
		assert.Equal(t, 0, meta["requested_top"])
		assert.Equal(t, false, meta["cap_applied"])
	})

	t.Run("default above cap is clamped too", func(t *testing.T) {
		effective, _ := clampTop(0, 200, 100)
		assert.Equal(t, 100, effective)
	})
}

func TestJSONResult(t *testing.T) {
	result, err := jsonResult(map[string]any{"ok": true})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, text.Text)
	assert.False(t, result.IsError)
}
