package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/config"
	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/profile"
)

// ProfileToolDeps contains dependencies for the column profiling tool.
type ProfileToolDeps struct {
	Source  datasphere.DataSource
	Limits  config.LimitsConfig
	Profile profile.Options
	// SampleTop is the default sample size fetched for profiling.
	SampleTop int
	Logger    *zap.Logger
}

type profileColumnResult struct {
	Profile *profile.ColumnProfile `json:"profile"`
	Meta    map[string]any         `json:"meta"`
}

// RegisterProfileTools registers the statistical profiling tool.
func RegisterProfileTools(s *server.MCPServer, deps *ProfileToolDeps) {
	tool := mcp.NewTool(
		"profile_column",
		mcp.WithDescription(
			"Profile one column from a bounded sample: inferred types, null counts, "+
				"distinct count, numeric summary (quartiles, Tukey fences, outliers), "+
				"categorical frequency table and an id/measure/dimension role hint. "+
				"All numbers describe the sample, not the whole dataset.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space containing the asset"),
		),
		mcp.WithString(
			"asset_id",
			mcp.Required(),
			mcp.Description("Technical name of the asset"),
		),
		mcp.WithString(
			"column",
			mcp.Required(),
			mcp.Description("Exact column name to profile (case-sensitive)"),
		),
		mcp.WithNumber(
			"sample_top",
			mcp.Description("Sample size to profile from (clamped to the query cap)"),
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
		assetID, err := req.RequireString("asset_id")
		if err != nil {
			return nil, err
		}
		column, err := req.RequireString("column")
		if err != nil {
			return nil, err
		}

		top, meta := clampTop(optionalInt(req, "sample_top", 0), deps.SampleTop, deps.Limits.MaxRowsQuery)

		// The full row is fetched rather than a $select projection so an
		// unknown column fails as column_not_found with the available names,
		// not as a rejected query.
		sample, err := deps.Source.GetSample(ctx, spaceID, assetID, datasphere.SampleQuery{Top: top})
		if err != nil {
			return errorResultOrPassthrough(err)
		}

		prof, err := profile.ProfileColumn(sample, column, deps.Profile)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		prof.SpaceID = spaceID
		prof.AssetID = assetID

		meta["sample_size"] = sample.RowCount()
		meta["sample_truncated"] = sample.Truncated
		return jsonResult(profileColumnResult{Profile: prof, Meta: meta})
	})
}
