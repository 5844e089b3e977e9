package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSample_ColumnIndex(t *testing.T) {
	s := &Sample{Columns: []string{"A", "B"}}

	assert.Equal(t, 0, s.ColumnIndex("A"))
	assert.Equal(t, 1, s.ColumnIndex("B"))
	assert.Equal(t, -1, s.ColumnIndex("C"))
	// Case-sensitive on purpose.
	assert.Equal(t, -1, s.ColumnIndex("a"))
}

func TestSample_ColumnValues(t *testing.T) {
	s := &Sample{
		Columns: []string{"A", "B"},
		Rows: [][]any{
			{1, "x"},
			{2, "y"},
		},
	}

	assert.Equal(t, []any{1, 2}, s.ColumnValues(0))
	assert.Equal(t, []any{"x", "y"}, s.ColumnValues(1))
}

func TestSample_ColumnValues_RaggedRows(t *testing.T) {
	s := &Sample{
		Columns: []string{"A", "B"},
		Rows: [][]any{
			{1, "x"},
			{2},
		},
	}

	assert.Equal(t, []any{"x", nil}, s.ColumnValues(1))
}

func TestSample_RowCount(t *testing.T) {
	assert.Equal(t, 0, (&Sample{}).RowCount())
	assert.Equal(t, 2, (&Sample{Rows: [][]any{{1}, {2}}}).RowCount())
}
