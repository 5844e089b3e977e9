package datasphere

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheresight/datasphere-mcp/pkg/cache"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// countingSource wraps the fixture and counts calls that reach it.
type countingSource struct {
	*Fixture
	listSpaces  int
	listAssets  int
	getMetadata int
	getSamples  int
}

func (c *countingSource) ListSpaces(ctx context.Context) ([]models.Space, error) {
	c.listSpaces++
	return c.Fixture.ListSpaces(ctx)
}

func (c *countingSource) ListAssets(ctx context.Context, spaceID string) ([]models.Asset, error) {
	c.listAssets++
	return c.Fixture.ListAssets(ctx, spaceID)
}

func (c *countingSource) GetRelationalMetadata(ctx context.Context, spaceID, assetName string) (string, error) {
	c.getMetadata++
	return c.Fixture.GetRelationalMetadata(ctx, spaceID, assetName)
}

func (c *countingSource) GetSample(ctx context.Context, spaceID, assetName string, q SampleQuery) (*models.Sample, error) {
	c.getSamples++
	return c.Fixture.GetSample(ctx, spaceID, assetName, q)
}

func TestCachingDataSource_CachesMetadataCalls(t *testing.T) {
	inner := &countingSource{Fixture: DefaultFixture()}
	cached := NewCachingDataSource(inner, cache.NewTTL(time.Minute, 16))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cached.ListSpaces(ctx)
		require.NoError(t, err)
		_, err = cached.ListAssets(ctx, "MOCK_SALES")
		require.NoError(t, err)
		_, err = cached.GetRelationalMetadata(ctx, "MOCK_SALES", "SALES_ORDERS")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, inner.listSpaces)
	assert.Equal(t, 1, inner.listAssets)
	assert.Equal(t, 1, inner.getMetadata)

	stats := cached.Stats()
	assert.Equal(t, 6, stats.Hits)
	assert.Equal(t, 3, stats.Misses)
}

func TestCachingDataSource_DistinctSpacesCachedSeparately(t *testing.T) {
	inner := &countingSource{Fixture: DefaultFixture()}
	cached := NewCachingDataSource(inner, cache.NewTTL(time.Minute, 16))
	ctx := context.Background()

	salesAssets, err := cached.ListAssets(ctx, "MOCK_SALES")
	require.NoError(t, err)
	hrAssets, err := cached.ListAssets(ctx, "MOCK_HR")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.listAssets)
	assert.NotEqual(t, len(salesAssets), 0)
	assert.NotEqual(t, salesAssets[0].ID, hrAssets[0].ID)
}

func TestCachingDataSource_NeverCachesSamples(t *testing.T) {
	inner := &countingSource{Fixture: DefaultFixture()}
	cached := NewCachingDataSource(inner, cache.NewTTL(time.Minute, 16))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cached.GetSample(ctx, "MOCK_SALES", "SALES_ORDERS", SampleQuery{Top: 2})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, inner.getSamples)
}

func TestCachingDataSource_ErrorsAreNotCached(t *testing.T) {
	inner := &countingSource{Fixture: DefaultFixture()}
	cached := NewCachingDataSource(inner, cache.NewTTL(time.Minute, 16))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cached.ListAssets(ctx, "NOPE")
		assert.Error(t, err)
	}
	assert.Equal(t, 2, inner.listAssets)
}

func TestCachingDataSource_DisabledCachePassesThrough(t *testing.T) {
	inner := &countingSource{Fixture: DefaultFixture()}
	cached := NewCachingDataSource(inner, cache.NewTTL(0, 0))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cached.ListSpaces(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, inner.listSpaces)
	assert.False(t, cached.Stats().Enabled)
}
