package datasphere

import (
	"context"

	"github.com/spheresight/datasphere-mcp/pkg/cache"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// CachingDataSource decorates a DataSource with a TTL cache over the
// metadata-heavy calls. Data samples are deliberately never cached: profiles
// are request-scoped and must reflect live data.
type CachingDataSource struct {
	inner DataSource
	cache *cache.TTL
}

// NewCachingDataSource wraps inner with cache. A disabled cache (zero TTL or
// zero entries) passes everything through.
func NewCachingDataSource(inner DataSource, ttlCache *cache.TTL) *CachingDataSource {
	return &CachingDataSource{inner: inner, cache: ttlCache}
}

// Stats exposes the underlying cache counters for diagnostics.
func (c *CachingDataSource) Stats() cache.Stats {
	return c.cache.Stats()
}

func (c *CachingDataSource) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

func (c *CachingDataSource) ListSpaces(ctx context.Context) ([]models.Space, error) {
	if cached, ok := c.cache.Get("spaces"); ok {
		return cached.([]models.Space), nil
	}
	spaces, err := c.inner.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set("spaces", spaces)
	return spaces, nil
}

func (c *CachingDataSource) ListAssets(ctx context.Context, spaceID string) ([]models.Asset, error) {
	key := "assets/" + spaceID
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Asset), nil
	}
	assets, err := c.inner.ListAssets(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, assets)
	return assets, nil
}

func (c *CachingDataSource) GetAssetMetadata(ctx context.Context, spaceID, assetID string) (*models.AssetMetadata, error) {
	key := "asset/" + spaceID + "/" + assetID
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.AssetMetadata), nil
	}
	meta, err := c.inner.GetAssetMetadata(ctx, spaceID, assetID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, meta)
	return meta, nil
}

func (c *CachingDataSource) GetRelationalMetadata(ctx context.Context, spaceID, assetName string) (string, error) {
	key := "edmx/" + spaceID + "/" + assetName
	if cached, ok := c.cache.Get(key); ok {
		return cached.(string), nil
	}
	doc, err := c.inner.GetRelationalMetadata(ctx, spaceID, assetName)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, doc)
	return doc, nil
}

// GetSample always hits the inner source.
func (c *CachingDataSource) GetSample(ctx context.Context, spaceID, assetName string, q SampleQuery) (*models.Sample, error) {
	return c.inner.GetSample(ctx, spaceID, assetName, q)
}
