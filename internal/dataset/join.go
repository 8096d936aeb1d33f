package dataset

// LeftJoin merges the columns of right onto t, matching rows where the left
// key equals the right key. Every left row appears in the output: rows with
// no match carry nulls in the right-hand columns, and rows with multiple
// matches fan out into one output row per match. Null keys never match.
//
// Right-hand column names that collide with a left-hand column get the
// suffix appended, mirroring how the source system's exports are merged.
func (t *Table) LeftJoin(right *Table, leftKey, rightKey, suffix string) (*Table, error) {
	if err := t.Require(leftKey); err != nil {
		return nil, err
	}
	if err := right.Require(rightKey); err != nil {
		return nil, err
	}

	// Index right rows by key for the probe phase.
	byKey := make(map[string][]int, right.NumRows())
	rk := right.index[rightKey]
	for i, row := range right.rows {
		key := row[rk]
		if key.IsNull() {
			continue
		}
		byKey[key.String()] = append(byKey[key.String()], i)
	}

	columns := t.Columns()
	rightCols := make([]string, len(right.columns))
	for i, col := range right.columns {
		name := col
		if t.HasColumn(name) {
			name += suffix
		}
		rightCols[i] = name
	}
	columns = append(columns, rightCols...)

	out := New(t.name, columns)
	lk := t.index[leftKey]
	for _, row := range t.rows {
		var matches []int
		if key := row[lk]; !key.IsNull() {
			matches = byKey[key.String()]
		}
		if len(matches) == 0 {
			cells := append(append([]Value(nil), row...), make([]Value, len(right.columns))...)
			out.rows = append(out.rows, cells)
			continue
		}
		for _, m := range matches {
			cells := make([]Value, 0, len(columns))
			cells = append(cells, row...)
			cells = append(cells, right.rows[m]...)
			out.rows = append(out.rows, cells)
		}
	}
	return out, nil
}
