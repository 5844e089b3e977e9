package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/search"
)

// SearchToolDeps contains dependencies for column discovery tools.
type SearchToolDeps struct {
	Source datasphere.DataSource
	// Budget is the default scan budget; tool arguments may lower the limit
	// but the caps themselves are server-side.
	Budget search.Options
	Logger *zap.Logger
}

// RegisterSearchTools registers cross-asset column discovery tools.
func RegisterSearchTools(s *server.MCPServer, deps *SearchToolDeps) {
	registerFindColumnInSpaceTool(s, deps)
	registerFindAssetsByColumnTool(s, deps)
}

type columnSearchResult struct {
	Column string         `json:"column"`
	Result *search.Result `json:"result"`
}

func registerFindColumnInSpaceTool(s *server.MCPServer, deps *SearchToolDeps) {
	tool := mcp.NewTool(
		"find_column_in_space",
		mcp.WithDescription(
			"Find which assets in one space expose a column with the given name "+
				"(case-insensitive, exact match). Scanning is capped; stats report "+
				"coverage and truncated_by_cap says whether a cap cut the scan short.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space to scan"),
		),
		mcp.WithString(
			"column",
			mcp.Required(),
			mcp.Description("Column name to look for"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum matches to collect before stopping"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		spaceID, err := req.RequireString("space_id")
		if err != nil {
			return nil, err
		}
		column, err := req.RequireString("column")
		if err != nil {
			return nil, err
		}

		opts := deps.Budget
		if limit := optionalInt(req, "limit", 0); limit > 0 {
			opts.Limit = limit
		}

		result, err := search.FindColumnInSpace(ctx, deps.Source, spaceID, column, opts)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(columnSearchResult{Column: column, Result: result})
	})
}

func registerFindAssetsByColumnTool(s *server.MCPServer, deps *SearchToolDeps) {
	tool := mcp.NewTool(
		"find_assets_by_column",
		mcp.WithDescription(
			"Find assets across all spaces that expose a column with the given name "+
				"(case-insensitive, exact match). Scans up to the configured space and "+
				"per-space asset caps, stopping early once enough matches are found. "+
				"Assets that fail to resolve are reported as skips, not errors.",
		),
		mcp.WithString(
			"column",
			mcp.Required(),
			mcp.Description("Column name to look for"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum matches to collect before stopping"),
		),
		mcp.WithNumber(
			"max_spaces",
			mcp.Description("Maximum spaces to scan (clamped to the server cap)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		column, err := req.RequireString("column")
		if err != nil {
			return nil, err
		}

		opts := deps.Budget
		if limit := optionalInt(req, "limit", 0); limit > 0 {
			opts.Limit = limit
		}
		if maxSpaces := optionalInt(req, "max_spaces", 0); maxSpaces > 0 && maxSpaces < opts.MaxSpaces {
			opts.MaxSpaces = maxSpaces
		}

		result, err := search.FindColumnAcrossSpaces(ctx, deps.Source, column, opts)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(columnSearchResult{Column: column, Result: result})
	})
}
