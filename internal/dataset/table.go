package dataset

import (
	"fmt"
	"sort"

	"admiscli/internal/errors"
)

// Table is an in-memory tabular record set with named, ordered columns and
// nullable cells. Transformations never mutate their receiver: every
// operation that changes shape returns a new table, so each pipeline step
// sees an immutable snapshot of its input.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty table with the given name and column set.
// The name identifies the table in error messages and logs.
func New(name string, columns []string) *Table {
	t := &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		t.index[col] = i
	}
	return t
}

// Name returns the table name
func (t *Table) Name() string {
	return t.name
}

// WithName returns a copy of the table under a different name
func (t *Table) WithName(name string) *Table {
	clone := t.Clone()
	clone.name = name
	return clone
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.columns)
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require verifies that every named column is present, returning a
// MissingColumnError naming the table and the first absent column.
func (t *Table) Require(columns ...string) error {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return errors.NewMissingColumnError(t.name, col)
		}
	}
	return nil
}

// AppendRow adds a row to the table. Rows shorter than the column set are
// padded with nulls, matching how ragged workbook rows arrive; longer rows
// are rejected.
func (t *Table) AppendRow(cells []Value) error {
	if len(cells) > len(t.columns) {
		return errors.NewValidationError(
			fmt.Sprintf("table %q: row has %d cells but only %d columns", t.name, len(cells), len(t.columns)))
	}
	row := make([]Value, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Get returns the cell at the given row and column, or null when the column
// does not exist. Callers validate required columns with Require up front.
func (t *Table) Get(row int, column string) Value {
	i, ok := t.index[column]
	if !ok {
		return Null()
	}
	return t.rows[row][i]
}

// Set overwrites the cell at the given row and column. Unknown columns are
// ignored; presence is established with Require/HasColumn before mutation.
func (t *Table) Set(row int, column string, v Value) {
	if i, ok := t.index[column]; ok {
		t.rows[row][i] = v
	}
}

// Row returns a copy of the cells of a row in column order
func (t *Table) Row(row int) []Value {
	return append([]Value(nil), t.rows[row]...)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	clone := New(t.name, t.columns)
	clone.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		clone.rows[i] = append([]Value(nil), row...)
	}
	return clone
}

// WithColumn returns a copy of the table with the named column set to the
// given values. An existing column is replaced in place; a new column is
// appended after the existing ones. The value count must match the row count.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, errors.NewValidationError(
			fmt.Sprintf("table %q: column %q has %d values for %d rows", t.name, name, len(values), len(t.rows)))
	}
	clone := t.Clone()
	if i, ok := clone.index[name]; ok {
		for r := range clone.rows {
			clone.rows[r][i] = values[r]
		}
		return clone, nil
	}
	clone.columns = append(clone.columns, name)
	clone.index[name] = len(clone.columns) - 1
	for r := range clone.rows {
		clone.rows[r] = append(clone.rows[r], values[r])
	}
	return clone, nil
}

// Select returns a new table holding only the named columns, in the order
// given. A missing column is a MissingColumnError.
func (t *Table) Select(columns ...string) (*Table, error) {
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	out := New(t.name, columns)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		cells := make([]Value, len(columns))
		for c, col := range columns {
			cells[c] = row[t.index[col]]
		}
		out.rows[r] = cells
	}
	return out, nil
}

// Drop returns a new table without the named columns. Unknown names are
// ignored so callers can drop helper columns unconditionally.
func (t *Table) Drop(columns ...string) *Table {
	dropped := make(map[string]bool, len(columns))
	for _, col := range columns {
		dropped[col] = true
	}
	var kept []string
	for _, col := range t.columns {
		if !dropped[col] {
			kept = append(kept, col)
		}
	}
	out, _ := t.Select(kept...)
	return out
}

// Sorted returns a copy of the table with rows ordered by the given
// comparison. The sort is stable so rows that compare equal keep their
// load order.
func (t *Table) Sorted(less func(a, b []Value) bool) *Table {
	clone := t.Clone()
	sort.SliceStable(clone.rows, func(i, j int) bool {
		return less(clone.rows[i], clone.rows[j])
	})
	return clone
}

// ColumnIndex returns the position of the named column, or -1 when absent
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}
