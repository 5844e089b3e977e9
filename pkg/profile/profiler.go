package profile

import (
	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// ProfileColumn composes type inference, distinct analysis, numeric
// statistics and the role heuristic for one named column of a sample.
//
// The column name must match Sample.Columns exactly (case-sensitive);
// case-insensitive resolution is the search layer's job. Fails with a
// ColumnNotFoundError listing the available columns otherwise. Pure
// computation: the sample was fetched by the caller, nothing is fetched here.
func ProfileColumn(sample *models.Sample, column string, opts Options) (*ColumnProfile, error) {
	opts = opts.normalize()

	idx := sample.ColumnIndex(column)
	if idx < 0 {
		return nil, &apperrors.ColumnNotFoundError{
			Column:    column,
			Available: append([]string(nil), sample.Columns...),
		}
	}

	values := sample.ColumnValues(idx)
	info := InferColumnTypes(sample, idx, opts)
	distinct := distinctCount(values)

	var numeric *NumericSummary
	if info.HasKind(KindInteger) || info.HasKind(KindFloat) {
		numeric = SummarizeNumeric(values)
	}

	categorical := AnalyzeCategorical(values, info.SampleSize, opts)

	return &ColumnProfile{
		Column:          column,
		TypeInfo:        info,
		DistinctSampled: distinct,
		Numeric:         numeric,
		Categorical:     categorical,
		Role:            ClassifyRole(info, distinct, numeric, opts),
	}, nil
}
