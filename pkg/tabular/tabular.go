// Package tabular defines the row contract shared with the external I/O
// collaborators: an ordered sequence of rows, each a mapping from column
// name to cell value, with empty cells represented canonically as "".
package tabular

// Row maps a column name to a cell value. Absent columns read as the empty
// string, never as a missing/null marker.
type Row map[string]string

// Get returns the cell value for a column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Dataset is an ordered sequence of rows together with the column order
// observed in the source artifact.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether the dataset declares the given column.
func (d *Dataset) HasColumn(column string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}
