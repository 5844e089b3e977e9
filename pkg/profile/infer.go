package profile

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// classifyValue maps a scalar from a sample to its coarse kind. It never
// fails: anything it cannot recognise counts as a string. JSON decoding
// delivers numbers as float64 (or json.Number when configured), so whole
// floats are reported as integers.
func classifyValue(v any) ValueKind {
	switch val := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32:
		return classifyFloat(float64(val))
	case float64:
		return classifyFloat(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return classifyFloat(f)
		}
		return KindString
	default:
		return KindString
	}
}

func classifyFloat(f float64) ValueKind {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return KindString
	}
	if f == math.Trunc(f) {
		return KindInteger
	}
	return KindFloat
}

// numericValue converts a scalar to float64 for statistics. ok is false for
// nulls and non-numeric kinds.
func numericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		f := float64(val)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// valueKey produces the distinctness key for a scalar. Numeric values that
// compare equal (int 7 vs float64 7.0) share a key so distinct counts do not
// depend on the decoder's number representation.
func valueKey(v any) string {
	if f, ok := numericValue(v); ok {
		return "n:" + fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// InferColumnTypes derives a ColumnTypeInfo for the column at idx. It runs in
// one pass over the sample and never fails on malformed scalars. A zero-row
// sample yields an empty type set, which callers must treat as "unknown".
func InferColumnTypes(sample *models.Sample, idx int, opts Options) ColumnTypeInfo {
	opts = opts.normalize()

	info := ColumnTypeInfo{
		Name:          sample.Columns[idx],
		InferredTypes: []ValueKind{},
		Examples:      []any{},
	}

	seen := map[ValueKind]bool{}
	exampleSeen := map[string]bool{}

	for _, v := range sample.ColumnValues(idx) {
		info.SampleSize++
		kind := classifyValue(v)
		seen[kind] = true
		if kind == KindNull {
			info.NullCount++
			continue
		}
		if len(info.Examples) < opts.MaxExampleValues {
			key := valueKey(v)
			if !exampleSeen[key] {
				exampleSeen[key] = true
				info.Examples = append(info.Examples, v)
			}
		}
	}

	for _, kind := range kindOrder {
		if seen[kind] {
			info.InferredTypes = append(info.InferredTypes, kind)
		}
	}
	return info
}

// DescribeSchema runs type inference over every column of a sample. Column
// order follows the sample. An empty sample is not an error: each column
// reports sample_size 0 and an empty type set.
func DescribeSchema(sample *models.Sample, opts Options) SchemaSummary {
	summary := SchemaSummary{
		Columns:   make([]ColumnTypeInfo, 0, len(sample.Columns)),
		RowCount:  sample.RowCount(),
		Truncated: sample.Truncated,
	}
	for i := range sample.Columns {
		summary.Columns = append(summary.Columns, InferColumnTypes(sample, i, opts))
	}
	return summary
}
