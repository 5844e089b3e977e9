package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/config"
	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/models"
	"github.com/spheresight/datasphere-mcp/pkg/profile"
	"github.com/spheresight/datasphere-mcp/pkg/search"
)

// DataToolDeps contains dependencies for data access and schema tools.
type DataToolDeps struct {
	Source  datasphere.DataSource
	Limits  config.LimitsConfig
	Profile profile.Options
	// SampleTop is the sample size fetched for schema inference.
	SampleTop int
	Logger    *zap.Logger
}

// RegisterDataTools registers row-level data and schema tools.
func RegisterDataTools(s *server.MCPServer, deps *DataToolDeps) {
	registerPreviewAssetTool(s, deps)
	registerQueryRelationalTool(s, deps)
	registerDescribeAssetSchemaTool(s, deps)
	registerListColumnsTool(s, deps)
}

type rowsResult struct {
	SpaceID string         `json:"space_id"`
	AssetID string         `json:"asset_id"`
	Columns []string       `json:"columns"`
	Rows    [][]any        `json:"rows"`
	Meta    map[string]any `json:"meta"`
}

func newRowsResult(spaceID, assetID string, sample *models.Sample, meta map[string]any) rowsResult {
	meta["row_count"] = sample.RowCount()
	meta["truncated"] = sample.Truncated
	return rowsResult{
		SpaceID: spaceID,
		AssetID: assetID,
		Columns: sample.Columns,
		Rows:    sample.Rows,
		Meta:    meta,
	}
}

func registerPreviewAssetTool(s *server.MCPServer, deps *DataToolDeps) {
	tool := mcp.NewTool(
		"preview_asset",
		mcp.WithDescription(
			"Fetch the first rows of an asset through its relational interface. "+
				"The row count is clamped to a server-side cap; the clamp is reported in meta.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space containing the asset"),
		),
		mcp.WithString(
			"asset_id",
			mcp.Required(),
			mcp.Description("Technical name of the asset to preview"),
		),
		mcp.WithNumber(
			"top",
			mcp.Description("Rows to return (clamped to the preview cap)"),
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

		top, meta := clampTop(optionalInt(req, "top", 0), deps.Limits.DefaultPreviewTop, deps.Limits.MaxRowsPreview)
		sample, err := deps.Source.GetSample(ctx, spaceID, assetID, datasphere.SampleQuery{Top: top})
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(newRowsResult(spaceID, assetID, sample, meta))
	})
}

func registerQueryRelationalTool(s *server.MCPServer, deps *DataToolDeps) {
	tool := mcp.NewTool(
		"query_relational",
		mcp.WithDescription(
			"Run a bounded relational query against an asset: column projection, "+
				"OData $filter and $orderby expressions, top/skip paging. "+
				"Read-only; the row count is clamped to a server-side cap.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space containing the asset"),
		),
		mcp.WithString(
			"asset_id",
			mcp.Required(),
			mcp.Description("Technical name of the asset to query"),
		),
		mcp.WithArray(
			"select",
			mcp.Description("Optional: columns to project, in order"),
		),
		mcp.WithString(
			"filter",
			mcp.Description("Optional: OData $filter expression, e.g. \"STATUS eq 'OPEN'\""),
		),
		mcp.WithString(
			"order_by",
			mcp.Description("Optional: OData $orderby expression, e.g. \"AMOUNT desc\""),
		),
		mcp.WithNumber(
			"top",
			mcp.Description("Rows to return (clamped to the query cap)"),
		),
		mcp.WithNumber(
			"skip",
			mcp.Description("Rows to skip before returning (paging)"),
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

		top, meta := clampTop(optionalInt(req, "top", 0), deps.Limits.DefaultPreviewTop, deps.Limits.MaxRowsQuery)
		query := datasphere.SampleQuery{
			Top:     top,
			Skip:    optionalInt(req, "skip", 0),
			Select:  optionalStringSlice(req, "select"),
			Filter:  optionalString(req, "filter"),
			OrderBy: optionalString(req, "order_by"),
		}

		sample, err := deps.Source.GetSample(ctx, spaceID, assetID, query)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(newRowsResult(spaceID, assetID, sample, meta))
	})
}

type describeSchemaResult struct {
	SpaceID string                `json:"space_id"`
	AssetID string                `json:"asset_id"`
	Schema  profile.SchemaSummary `json:"schema"`
	Meta    map[string]any        `json:"meta"`
}

func registerDescribeAssetSchemaTool(s *server.MCPServer, deps *DataToolDeps) {
	tool := mcp.NewTool(
		"describe_asset_schema",
		mcp.WithDescription(
			"Infer per-column types, null counts and example values from a bounded "+
				"sample of an asset. Sample-based: the reported types reflect the sample, "+
				"not declared metadata.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space containing the asset"),
		),
		mcp.WithString(
			"asset_id",
			mcp.Required(),
			mcp.Description("Technical name of the asset to describe"),
		),
		mcp.WithNumber(
			"sample_top",
			mcp.Description("Sample size to infer from (clamped to the query cap)"),
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

		top, meta := clampTop(optionalInt(req, "sample_top", 0), deps.SampleTop, deps.Limits.MaxRowsQuery)
		sample, err := deps.Source.GetSample(ctx, spaceID, assetID, datasphere.SampleQuery{Top: top})
		if err != nil {
			return errorResultOrPassthrough(err)
		}

		meta["sample_size"] = sample.RowCount()
		meta["sample_truncated"] = sample.Truncated
		return jsonResult(describeSchemaResult{
			SpaceID: spaceID,
			AssetID: assetID,
			Schema:  profile.DescribeSchema(sample, deps.Profile),
			Meta:    meta,
		})
	})
}

type listColumnsResult struct {
	SpaceID string          `json:"space_id"`
	AssetID string          `json:"asset_id"`
	Columns []models.Column `json:"columns"`
	Meta    map[string]any  `json:"meta"`
}

// registerListColumnsTool adds column listing with two resolution paths:
// the relational $metadata document when the asset exposes one (typed,
// carries keys and nullability), else a one-row sample (names only). The
// path taken is reported as meta.source.
func registerListColumnsTool(s *server.MCPServer, deps *DataToolDeps) {
	tool := mcp.NewTool(
		"list_columns",
		mcp.WithDescription(
			"List the columns of an asset. Prefers relational $metadata (types, keys, "+
				"nullability); falls back to a one-row sample when the asset has no "+
				"relational metadata (names only). meta.source reports which path was used.",
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

		if doc, err := deps.Source.GetRelationalMetadata(ctx, spaceID, assetID); err == nil {
			if columns, perr := datasphere.ParseRelationalMetadata(doc); perr == nil {
				return jsonResult(listColumnsResult{
					SpaceID: spaceID,
					AssetID: assetID,
					Columns: columns,
					Meta:    map[string]any{"source": search.SourceRelationalMetadata},
				})
			}
		}

		sample, err := deps.Source.GetSample(ctx, spaceID, assetID, datasphere.SampleQuery{Top: 1})
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		columns := make([]models.Column, 0, len(sample.Columns))
		for _, name := range sample.Columns {
			columns = append(columns, models.Column{Name: name})
		}
		return jsonResult(listColumnsResult{
			SpaceID: spaceID,
			AssetID: assetID,
			Columns: columns,
			Meta:    map[string]any{"source": search.SourceSampleInference},
		})
	})
}
