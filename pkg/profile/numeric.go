package profile

import "sort"

// SummarizeNumeric computes descriptive statistics over the numeric subset
// of a column. Non-numeric values in a mixed column are excluded here but
// still appear in the column's ColumnTypeInfo. Returns nil when the column
// has no numeric values (absent, not zero-filled).
//
// With a single value all percentiles collapse to that value, the IQR is 0
// and both fences equal the value, so outlier_count is always 0 for n=1.
func SummarizeNumeric(values []any) *NumericSummary {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := numericValue(v); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return nil
	}

	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	sum := 0.0
	for _, f := range sorted {
		sum += f
	}

	s := &NumericSummary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  sum / float64(len(sorted)),
		P25:   quantile(sorted, 0.25),
		P50:   quantile(sorted, 0.50),
		P75:   quantile(sorted, 0.75),
	}
	s.IQR = s.P75 - s.P25
	s.LowerFence = s.P25 - 1.5*s.IQR
	s.UpperFence = s.P75 + 1.5*s.IQR

	for _, f := range sorted {
		if f < s.LowerFence || f > s.UpperFence {
			s.OutlierCount++
		}
	}
	return s
}

// quantile computes the p-th quantile of sorted using linear interpolation:
// rank = p * (n-1), interpolated between the floor and ceil neighbours. The
// method is pinned for determinism; nearest-rank would disagree with the
// recorded outputs this engine is validated against.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(rank)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
