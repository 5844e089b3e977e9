// Package tools provides the MCP tool implementations for the Datasphere
// connector.
package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// CatalogToolDeps contains dependencies for catalog browsing tools.
type CatalogToolDeps struct {
	Source datasphere.DataSource
	Logger *zap.Logger
}

// RegisterCatalogTools registers space/asset browsing tools.
func RegisterCatalogTools(s *server.MCPServer, deps *CatalogToolDeps) {
	registerListSpacesTool(s, deps)
	registerListAssetsTool(s, deps)
	registerGetAssetDetailsTool(s, deps)
	registerSearchAssetsTool(s, deps)
	registerSpaceSummaryTool(s, deps)
}

type listSpacesResult struct {
	Spaces []models.Space `json:"spaces"`
}

func registerListSpacesTool(s *server.MCPServer, deps *CatalogToolDeps) {
	tool := mcp.NewTool(
		"list_spaces",
		mcp.WithDescription(
			"List all Datasphere spaces accessible to the configured technical user. "+
				"A space is a logical grouping of assets (views and tables).",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		spaces, err := deps.Source.ListSpaces(ctx)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(listSpacesResult{Spaces: spaces})
	})
}

type listAssetsResult struct {
	SpaceID string         `json:"space_id"`
	Assets  []models.Asset `json:"assets"`
}

func registerListAssetsTool(s *server.MCPServer, deps *CatalogToolDeps) {
	tool := mcp.NewTool(
		"list_assets",
		mcp.WithDescription(
			"List the assets (queryable views and tables) inside one Datasphere space.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space to list"),
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

		assets, err := deps.Source.ListAssets(ctx, spaceID)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(listAssetsResult{SpaceID: spaceID, Assets: assets})
	})
}

func registerGetAssetDetailsTool(s *server.MCPServer, deps *CatalogToolDeps) {
	tool := mcp.NewTool(
		"get_asset_details",
		mcp.WithDescription(
			"Fetch the full catalog record for one asset, including whether it "+
				"supports relational and analytical consumption.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space containing the asset"),
		),
		mcp.WithString(
			"asset_id",
			mcp.Required(),
			mcp.Description("ID of the asset to describe"),
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

		meta, err := deps.Source.GetAssetMetadata(ctx, spaceID, assetID)
		if err != nil {
			return errorResultOrPassthrough(err)
		}
		return jsonResult(meta)
	})
}

type searchAssetsResult struct {
	Results []models.Asset   `json:"results"`
	Stats   searchAssetsScan `json:"stats"`
}

type searchAssetsScan struct {
	SpacesScanned int  `json:"spaces_scanned"`
	AssetsScanned int  `json:"assets_scanned"`
	Truncated     bool `json:"truncated"`
}

// registerSearchAssetsTool adds substring search over asset names and
// descriptions. This is deliberately separate from column search, which is
// exact-match only.
func registerSearchAssetsTool(s *server.MCPServer, deps *CatalogToolDeps) {
	tool := mcp.NewTool(
		"search_assets",
		mcp.WithDescription(
			"Search assets by case-insensitive substring match on name and description. "+
				"Optionally restricted to one space. Returns matches in catalog order up to limit.",
		),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("Substring to look for in asset names and descriptions"),
		),
		mcp.WithString(
			"space_id",
			mcp.Description("Optional: restrict the search to this space"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum matches to return (default 20)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return nil, err
		}
		spaceFilter := optionalString(req, "space_id")
		limit := optionalInt(req, "limit", 20)
		if limit <= 0 {
			limit = 20
		}

		var spaces []models.Space
		if spaceFilter != "" {
			spaces = []models.Space{{ID: spaceFilter}}
		} else {
			spaces, err = deps.Source.ListSpaces(ctx)
			if err != nil {
				return errorResultOrPassthrough(err)
			}
		}

		needle := strings.ToLower(query)
		out := searchAssetsResult{Results: []models.Asset{}}
		for _, space := range spaces {
			if len(out.Results) >= limit {
				out.Stats.Truncated = true
				break
			}
			assets, err := deps.Source.ListAssets(ctx, space.ID)
			if err != nil {
				return errorResultOrPassthrough(err)
			}
			out.Stats.SpacesScanned++
			for _, asset := range assets {
				out.Stats.AssetsScanned++
				if !matchesAsset(asset, needle) {
					continue
				}
				out.Results = append(out.Results, asset)
				if len(out.Results) >= limit {
					out.Stats.Truncated = true
					break
				}
			}
		}
		return jsonResult(out)
	})
}

func matchesAsset(asset models.Asset, needle string) bool {
	return strings.Contains(strings.ToLower(asset.Name), needle) ||
		strings.Contains(strings.ToLower(asset.ID), needle) ||
		strings.Contains(strings.ToLower(asset.Description), needle)
}

type spaceSummaryResult struct {
	SpaceID      string         `json:"space_id"`
	TotalAssets  int            `json:"total_assets"`
	AssetTypes   map[string]int `json:"asset_types"`
	SampleAssets []models.Asset `json:"sample_assets"`
}

func registerSpaceSummaryTool(s *server.MCPServer, deps *CatalogToolDeps) {
	tool := mcp.NewTool(
		"space_summary",
		mcp.WithDescription(
			"Summarize one space: total asset count, a histogram of asset types, "+
				"and a small sample of assets. Cheaper than listing everything.",
		),
		mcp.WithString(
			"space_id",
			mcp.Required(),
			mcp.Description("ID of the space to summarize"),
		),
		mcp.WithNumber(
			"max_assets",
			mcp.Description("Maximum sample assets to include (default 10)"),
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
		maxAssets := optionalInt(req, "max_assets", 10)
		if maxAssets <= 0 {
			maxAssets = 10
		}

		assets, err := deps.Source.ListAssets(ctx, spaceID)
		if err != nil {
			return errorResultOrPassthrough(err)
		}

		out := spaceSummaryResult{
			SpaceID:      spaceID,
			TotalAssets:  len(assets),
			AssetTypes:   map[string]int{},
			SampleAssets: []models.Asset{},
		}
		for _, asset := range assets {
			assetType := asset.Type
			if assetType == "" {
				assetType = "unknown"
			}
			out.AssetTypes[assetType]++
			if len(out.SampleAssets) < maxAssets {
				out.SampleAssets = append(out.SampleAssets, asset)
			}
		}
		return jsonResult(out)
	})
}
