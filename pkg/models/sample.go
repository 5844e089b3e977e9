package models

// Sample is an immutable tabular snapshot returned by a bounded query.
// Every row has exactly len(Columns) values; row order is the order the
// consumption API returned them, never re-sorted locally. Values are plain
// JSON scalars (string, float64, int64, bool) or nil.
type Sample struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated"`
}

// RowCount returns the number of rows in the sample.
func (s *Sample) RowCount() int {
	return len(s.Rows)
}

// ColumnIndex returns the position of name in Columns, or -1 if absent.
// Matching is case-sensitive; case-insensitive lookup is a search-layer
// concern.
func (s *Sample) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns the values of the column at idx in row order.
// Rows shorter than idx+1 contribute nil, so a ragged row from a misbehaving
// source never panics the caller.
func (s *Sample) ColumnValues(idx int) []any {
	values := make([]any, 0, len(s.Rows))
	for _, row := range s.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, nil)
		}
	}
	return values
}
