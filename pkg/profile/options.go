package profile

// Options holds the heuristic constants used by the profiler. The thresholds
// are deliberately configurable rather than baked in: they have no principled
// derivation and deployments tune them.
type Options struct {
	// MaxExampleValues caps the distinct example values kept per column.
	MaxExampleValues int
	// CategoricalMinDistinct is the distinct-count floor below which a
	// column is always treated as categorical, regardless of sample size.
	CategoricalMinDistinct int
	// CategoricalMaxRatio is the distinct/sample ratio above which a column
	// stops being categorical.
	CategoricalMaxRatio float64
	// TopValueCap caps the entries in a categorical frequency table.
	TopValueCap int
	// IDUniqueRatio is the distinct/non-null ratio at which a column is
	// considered near-unique for id classification.
	IDUniqueRatio float64
}

// DefaultOptions returns the thresholds used when the caller does not
// override them.
func DefaultOptions() Options {
	return Options{
		MaxExampleValues:       5,
		CategoricalMinDistinct: 10,
		CategoricalMaxRatio:    0.2,
		TopValueCap:            10,
		IDUniqueRatio:          0.98,
	}
}

// normalize backfills zero values with defaults so a partially populated
// Options from config cannot divide by zero or drop all examples.
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.MaxExampleValues <= 0 {
		o.MaxExampleValues = def.MaxExampleValues
	}
	if o.CategoricalMinDistinct <= 0 {
		o.CategoricalMinDistinct = def.CategoricalMinDistinct
	}
	if o.CategoricalMaxRatio <= 0 {
		o.CategoricalMaxRatio = def.CategoricalMaxRatio
	}
	if o.TopValueCap <= 0 {
		o.TopValueCap = def.TopValueCap
	}
	if o.IDUniqueRatio <= 0 {
		o.IDUniqueRatio = def.IDUniqueRatio
	}
	return o
}
