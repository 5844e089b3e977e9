// Package datasphere provides access to the Datasphere catalog and
// relational consumption APIs. The DataSource interface is the narrow
// contract the profiling and search engines depend on; the HTTP client and
// the in-memory fixture are the two implementations, chosen by the caller at
// construction time.
package datasphere

import (
	"context"

	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// SampleQuery bounds and shapes a relational data request. Top bounds the
// rows returned; Filter and OrderBy use the consumption API's OData syntax
// and are passed through unvalidated (the API rejects bad expressions).
type SampleQuery struct {
	Top     int
	Skip    int
	Select  []string
	Filter  string
	OrderBy string
}

// DataSource is the collaborator contract consumed by the engine. Every
// method may block on network I/O and must honor ctx cancellation.
// Implementations must be safe for concurrent use; all returned values are
// fresh per call.
//
// Error kinds (see pkg/apperrors): unknown spaces/assets yield ErrNotFound,
// rejected query expressions yield ErrInvalidQuery, transport and auth
// failures yield ErrConnectivity.
type DataSource interface {
	// Ping performs a lightweight reachability check.
	Ping(ctx context.Context) error

	// ListSpaces lists all accessible spaces.
	ListSpaces(ctx context.Context) ([]models.Space, error)

	// ListAssets lists the assets of one space.
	ListAssets(ctx context.Context, spaceID string) ([]models.Asset, error)

	// GetAssetMetadata fetches the catalog record for one asset.
	GetAssetMetadata(ctx context.Context, spaceID, assetID string) (*models.AssetMetadata, error)

	// GetRelationalMetadata fetches the raw EDMX $metadata document of an
	// asset's relational interface.
	GetRelationalMetadata(ctx context.Context, spaceID, assetName string) (string, error)

	// GetSample runs a bounded relational query. Sample.Truncated is true
	// when exactly Top rows came back and more may exist.
	GetSample(ctx context.Context, spaceID, assetName string, q SampleQuery) (*models.Sample, error)
}
