package profile

import "sort"

// distinctCount counts exact distinct non-null values over the sample.
// Sample-bounded: the true population cardinality may be far larger, which is
// why every consumer also reports sample_size.
func distinctCount(values []any) int {
	seen := map[string]bool{}
	for _, v := range values {
		if v == nil {
			continue
		}
		seen[valueKey(v)] = true
	}
	return len(seen)
}

// AnalyzeCategorical builds a frequency table for a low-cardinality column.
// Returns nil when the sampled distinct count exceeds
// max(CategoricalMinDistinct, CategoricalMaxRatio * sampleSize): the column
// is judged free-text or identifier-like within this sample.
//
// values must be the full column in row order (nulls included); sampleSize is
// the number of rows examined and is the denominator for fractions.
func AnalyzeCategorical(values []any, sampleSize int, opts Options) *CategoricalSummary {
	opts = opts.normalize()
	if sampleSize == 0 {
		return nil
	}

	type bucket struct {
		value any
		count int
		first int
	}
	counts := map[string]*bucket{}
	order := []*bucket{}

	nonNull := 0
	for i, v := range values {
		if v == nil {
			continue
		}
		nonNull++
		key := valueKey(v)
		b, ok := counts[key]
		if !ok {
			b = &bucket{value: v, first: i}
			counts[key] = b
			order = append(order, b)
		}
		b.count++
	}
	if nonNull == 0 {
		return nil
	}

	threshold := opts.CategoricalMinDistinct
	if ratio := int(opts.CategoricalMaxRatio * float64(sampleSize)); ratio > threshold {
		threshold = ratio
	}
	if len(order) > threshold {
		return nil
	}

	// Count descending, ties by first appearance.
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	summary := &CategoricalSummary{
		TotalSampled: sampleSize,
		UniqueValues: len(order),
	}
	for i, b := range order {
		if i >= opts.TopValueCap {
			break
		}
		summary.TopValues = append(summary.TopValues, TopValue{
			Value:    b.value,
			Count:    b.count,
			Fraction: float64(b.count) / float64(sampleSize),
		})
	}
	if len(summary.TopValues) > 0 {
		summary.Concentration = summary.TopValues[0].Fraction
	}
	return summary
}
