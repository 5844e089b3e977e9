// Package profile implements sampling-based schema inference and statistical
// profiling over bounded tabular samples. Everything here is a pure function
// of the given sample: no I/O, no caching, no shared state between calls.
//
// All statistics are sample-bounded, not population statistics. Callers must
// surface sample_size alongside any derived number so agents do not mistake
// a 100-row sample profile for a whole-dataset profile.
package profile

// ValueKind is the coarse scalar kind observed for a single value.
type ValueKind string

const (
	KindInteger ValueKind = "integer"
	KindFloat   ValueKind = "float"
	KindString  ValueKind = "string"
	KindBoolean ValueKind = "boolean"
	KindNull    ValueKind = "null"
)

// kindOrder fixes the reporting order of inferred type sets so output is
// deterministic regardless of row order.
var kindOrder = []ValueKind{KindInteger, KindFloat, KindString, KindBoolean, KindNull}

// ColumnTypeInfo summarises the scalar kinds observed in one column of a
// sample. A column may legitimately report more than one kind (for example
// {integer, null}); mixed observations are reported, not collapsed.
type ColumnTypeInfo struct {
	Name          string      `json:"name"`
	InferredTypes []ValueKind `json:"inferred_types"`
	NullCount     int         `json:"null_count"`
	SampleSize    int         `json:"sample_size"`
	// Examples holds up to MaxExampleValues distinct non-null values in
	// first-seen order.
	Examples []any `json:"examples"`
}

// NonNullCount returns the number of non-null values examined.
func (c *ColumnTypeInfo) NonNullCount() int {
	return c.SampleSize - c.NullCount
}

// HasKind reports whether kind was observed in the sample.
func (c *ColumnTypeInfo) HasKind(kind ValueKind) bool {
	for _, k := range c.InferredTypes {
		if k == kind {
			return true
		}
	}
	return false
}

// NumericSummary holds descriptive statistics over the non-null numeric
// subset of a column. Absent entirely when the column has no numeric values.
type NumericSummary struct {
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	P25          float64 `json:"p25"`
	P50          float64 `json:"p50"`
	P75          float64 `json:"p75"`
	IQR          float64 `json:"iqr"`
	LowerFence   float64 `json:"lower_fence"`
	UpperFence   float64 `json:"upper_fence"`
	OutlierCount int     `json:"outlier_count"`
}

// TopValue is one entry of a categorical frequency table.
type TopValue struct {
	Value    any     `json:"value"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// CategoricalSummary describes a low-cardinality column as a frequency
// table. Absent when the sampled distinct count exceeds the cardinality
// threshold (the column is judged free-text or identifier-like).
type CategoricalSummary struct {
	TotalSampled int        `json:"total_sampled"`
	UniqueValues int        `json:"unique_values"`
	TopValues    []TopValue `json:"top_values"`
	// Concentration is the fraction of the top value, a quick skew signal.
	Concentration float64 `json:"concentration"`
}

// RoleHint is the best-effort semantic classification of a column.
type RoleHint string

const (
	RoleID        RoleHint = "id"
	RoleMeasure   RoleHint = "measure"
	RoleDimension RoleHint = "dimension"
)

// ColumnProfile aggregates everything the engine can say about one column of
// one sample. SpaceID/AssetID identify the originating dataset and are filled
// in by the caller that fetched the sample.
type ColumnProfile struct {
	SpaceID string `json:"space_id,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
	Column  string `json:"column"`

	TypeInfo        ColumnTypeInfo      `json:"type_info"`
	DistinctSampled int                 `json:"distinct_sampled"`
	Numeric         *NumericSummary     `json:"numeric_summary"`
	Categorical     *CategoricalSummary `json:"categorical_summary"`
	Role            RoleHint            `json:"role_hint"`
}

// SchemaSummary is the per-column type inference for a whole sample, in the
// sample's column order.
type SchemaSummary struct {
	Columns   []ColumnTypeInfo `json:"columns"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated"`
}
