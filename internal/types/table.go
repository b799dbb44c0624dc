package types

// Table is a uniform tabular batch: an ordered column list plus rows that each
// hold exactly one string cell per column. Both the normalized per-run batch
// and the persistent master table use this shape.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with its own copy of the column list.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Append adds one row. The caller guarantees len(row) == len(t.Columns).
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
