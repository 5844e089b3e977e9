package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNumeric_QuartilesAndFences(t *testing.T) {
	values := []any{10, 10, 20, 20, 30, 30, 40, 40, 50, 100}

	s := SummarizeNumeric(values)

	require.NotNil(t, s)
	assert.Equal(t, 10, s.Count)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.InDelta(t, 35.0, s.Mean, 1e-9)
	assert.InDelta(t, 20.0, s.P25, 1e-9)
	assert.InDelta(t, 30.0, s.P50, 1e-9)
	assert.InDelta(t, 40.0, s.P75, 1e-9)
	assert.InDelta(t, 20.0, s.IQR, 1e-9)
	assert.InDelta(t, -10.0, s.LowerFence, 1e-9)
	assert.InDelta(t, 70.0, s.UpperFence, 1e-9)
	assert.Equal(t, 1, s.OutlierCount)
}

func TestSummarizeNumeric_SingleOutlier(t *testing.T) {
	values := []any{1, 2, 3, 4, 5, 6, 7, 8, 9, 1000}

	s := SummarizeNumeric(values)

	require.NotNil(t, s)
	assert.InDelta(t, 3.25, s.P25, 1e-9)
	assert.InDelta(t, 7.75, s.P75, 1e-9)
	assert.InDelta(t, 4.5, s.IQR, 1e-9)
	assert.Equal(t, 1, s.OutlierCount)
}

func TestSummarizeNumeric_SingleValue(t *testing.T) {
	s := SummarizeNumeric([]any{42})

	require.NotNil(t, s)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 42.0, s.Min)
	assert.Equal(t, 42.0, s.Max)
	assert.Equal(t, 42.0, s.P25)
	assert.Equal(t, 42.0, s.P50)
	assert.Equal(t, 42.0, s.P75)
	assert.Equal(t, 0.0, s.IQR)
	// Both fences collapse onto the value, so it can never be an outlier.
	assert.Equal(t, 0, s.OutlierCount)
}

func TestSummarizeNumeric_ConstantColumn(t *testing.T) {
	s := SummarizeNumeric([]any{7, 7, 7, 7, 7})

	require.NotNil(t, s)
	assert.Equal(t, 7.0, s.Min)
	assert.Equal(t, 7.0, s.Max)
	assert.Equal(t, 0.0, s.IQR)
	assert.Equal(t, 0, s.OutlierCount)
}

func TestSummarizeNumeric_NoNumericValues(t *testing.T) {
	assert.Nil(t, SummarizeNumeric([]any{"a", "b", nil}))
	assert.Nil(t, SummarizeNumeric([]any{}))
}

func TestSummarizeNumeric_MixedColumnExcludesNonNumeric(t *testing.T) {
	s := SummarizeNumeric([]any{10, "oops", 20, nil, 30})

	require.NotNil(t, s)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 30.0, s.Max)
}

func TestQuantile_Interpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	// rank = 0.5 * 3 = 1.5 -> halfway between 20 and 30.
	assert.InDelta(t, 25.0, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 10.0, quantile(sorted, 0.0), 1e-9)
	assert.InDelta(t, 40.0, quantile(sorted, 1.0), 1e-9)
}
