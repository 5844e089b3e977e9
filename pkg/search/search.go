// Package search implements bounded column discovery across Datasphere
// spaces. Every scan carries hard caps on spaces scanned, assets scanned per
// space and matches returned; hitting a cap is a normal, reported condition
// (truncated_by_cap), not an error.
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
	"github.com/spheresight/datasphere-mcp/pkg/datasphere"
	"github.com/spheresight/datasphere-mcp/pkg/logging"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// Column-name resolution sources.
const (
	SourceRelationalMetadata = "relational_metadata"
	SourceSampleInference    = "sample_inference"
)

// Options carries the scan budget. Zero fields fall back to defaults.
type Options struct {
	// MaxAssets caps assets scanned in a single-space search.
	MaxAssets int
	// MaxSpaces caps spaces scanned in a cross-space search.
	MaxSpaces int
	// MaxAssetsPerSpace caps assets per space in a cross-space search.
	MaxAssetsPerSpace int
	// Limit caps total matches collected. Hitting it stops the scan early;
	// later spaces may never be touched.
	Limit int
}

// DefaultOptions returns the standard scan budget.
func DefaultOptions() Options {
	return Options{
		MaxAssets:         100,
		MaxSpaces:         10,
		MaxAssetsPerSpace: 25,
		Limit:             20,
	}
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.MaxAssets <= 0 {
		o.MaxAssets = def.MaxAssets
	}
	if o.MaxSpaces <= 0 {
		o.MaxSpaces = def.MaxSpaces
	}
	if o.MaxAssetsPerSpace <= 0 {
		o.MaxAssetsPerSpace = def.MaxAssetsPerSpace
	}
	if o.Limit <= 0 {
		o.Limit = def.Limit
	}
	return o
}

// Match records one asset that exposes the searched column.
type Match struct {
	SpaceID string `json:"space_id"`
	AssetID string `json:"asset_id"`
	// Column is the column's actual name as found (the search itself is
	// case-insensitive).
	Column string `json:"column"`
	// Source says whether the column was resolved from relational metadata
	// or inferred from a one-row sample.
	Source string `json:"source"`
}

// Skip records one asset that could not be inspected. Skips never abort a
// scan; a connectivity-level failure does.
type Skip struct {
	SpaceID string `json:"space_id"`
	AssetID string `json:"asset_id"`
	Reason  string `json:"reason"`
}

// Stats is the scan bookkeeping returned with every result.
type Stats struct {
	SpacesScanned  int  `json:"spaces_scanned"`
	AssetsScanned  int  `json:"assets_scanned"`
	TruncatedByCap bool `json:"truncated_by_cap"`
}

// Result aggregates matches, per-asset skips and scan bookkeeping. All state
// is call-local; discarding a partially built Result has no side effects.
type Result struct {
	Matches []Match `json:"matches"`
	Skipped []Skip  `json:"skipped,omitempty"`
	Stats   Stats   `json:"stats"`
}

// FindColumnInSpace scans one space's assets for a column named column
// (case-insensitive, exact match, no substring matching; that belongs
// to the unrelated asset search). Assets are visited in the order the
// catalog lists them. Scanning stops at MaxAssets, at Limit matches, or when
// the space is exhausted, whichever comes first.
//
// A failure inspecting one asset becomes a Skip; a connectivity-level error
// aborts the whole scan with that error.
func FindColumnInSpace(ctx context.Context, ds datasphere.DataSource, spaceID, column string, opts Options) (*Result, error) {
	opts = opts.normalize()

	assets, err := ds.ListAssets(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	result := &Result{Matches: []Match{}, Stats: Stats{SpacesScanned: 1}}
	if err := scanAssetList(ctx, ds, spaceID, column, assets, opts.MaxAssets, opts.Limit, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FindColumnAcrossSpaces scans up to MaxSpaces spaces for a column, applying
// MaxAssetsPerSpace within each. The global Limit is an early exit: once
// enough matches are collected, remaining spaces are never touched. Spaces
// are visited in catalog order, so results are deterministic for a stable
// catalog.
func FindColumnAcrossSpaces(ctx context.Context, ds datasphere.DataSource, column string, opts Options) (*Result, error) {
	opts = opts.normalize()

	spaces, err := ds.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Matches: []Match{}}
	for i, space := range spaces {
		if i >= opts.MaxSpaces {
			result.Stats.TruncatedByCap = true
			break
		}
		if len(result.Matches) >= opts.Limit {
			result.Stats.TruncatedByCap = true
			break
		}

		assets, err := ds.ListAssets(ctx, space.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrConnectivity) {
				return nil, err
			}
			result.Skipped = append(result.Skipped, Skip{
				SpaceID: space.ID,
				Reason:  logging.SanitizeError(err),
			})
			result.Stats.SpacesScanned++
			continue
		}

		result.Stats.SpacesScanned++
		if err := scanAssetList(ctx, ds, space.ID, column, assets, opts.MaxAssetsPerSpace, opts.Limit, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// scanAssetList walks one space's asset list, resolving each asset's columns
// and recording matches into result. maxAssets bounds assets visited; limit
// bounds total matches across the whole result.
func scanAssetList(ctx context.Context, ds datasphere.DataSource, spaceID, column string, assets []models.Asset, maxAssets, limit int, result *Result) error {
	for i, asset := range assets {
		if i >= maxAssets {
			result.Stats.TruncatedByCap = true
			return nil
		}
		if len(result.Matches) >= limit {
			result.Stats.TruncatedByCap = true
			return nil
		}

		result.Stats.AssetsScanned++
		found, source, err := resolveColumn(ctx, ds, spaceID, asset.ID, column)
		if err != nil {
			if errors.Is(err, apperrors.ErrConnectivity) {
				return err
			}
			result.Skipped = append(result.Skipped, Skip{
				SpaceID: spaceID,
				AssetID: asset.ID,
				Reason:  logging.SanitizeError(err),
			})
			continue
		}
		if found != "" {
			result.Matches = append(result.Matches, Match{
				SpaceID: spaceID,
				AssetID: asset.ID,
				Column:  found,
				Source:  source,
			})
		}
	}
	return nil
}

// resolveColumn finds the searched column on one asset. Relational metadata
// is preferred (cheap, typed); a one-row sample is the fallback for assets
// without a relational interface. Returns the column's actual name and the
// resolution source, or "" when the asset does not expose the column.
func resolveColumn(ctx context.Context, ds datasphere.DataSource, spaceID, assetID, column string) (string, string, error) {
	if doc, err := ds.GetRelationalMetadata(ctx, spaceID, assetID); err == nil {
		if columns, perr := datasphere.ParseRelationalMetadata(doc); perr == nil {
			for _, col := range columns {
				if strings.EqualFold(col.Name, column) {
					return col.Name, SourceRelationalMetadata, nil
				}
			}
			return "", SourceRelationalMetadata, nil
		}
	} else if errors.Is(err, apperrors.ErrConnectivity) {
		return "", "", err
	}

	sample, err := ds.GetSample(ctx, spaceID, assetID, datasphere.SampleQuery{Top: 1})
	if err != nil {
		return "", "", err
	}
	for _, name := range sample.Columns {
		if strings.EqualFold(name, column) {
			return name, SourceSampleInference, nil
		}
	}
	return "", SourceSampleInference, nil
}
