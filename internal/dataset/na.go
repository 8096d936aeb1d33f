package dataset

import "sort"

// NAStat summarizes the null content of one column
type NAStat struct {
	Column  string
	Count   int
	Percent float64
}

// NAStats returns per-column null counts and percentages, sorted by
// percentage descending. Columns with equal percentages keep their table
// order.
func (t *Table) NAStats() []NAStat {
	stats := make([]NAStat, len(t.columns))
	for i, col := range t.columns {
		count := 0
		for _, row := range t.rows {
			if row[i].IsNull() {
				count++
			}
		}
		pct := 0.0
		if len(t.rows) > 0 {
			pct = float64(count) / float64(len(t.rows)) * 100
		}
		stats[i] = NAStat{Column: col, Count: count, Percent: pct}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Percent > stats[j].Percent
	})
	return stats
}

// DropSparseColumns returns a new table without the columns whose null
// fraction exceeds the threshold. A threshold of 0.9 drops columns that are
// more than 90% null. Empty tables are returned unchanged since no fraction
// can be computed.
func (t *Table) DropSparseColumns(threshold float64) *Table {
	if len(t.rows) == 0 {
		return t.Clone()
	}
	var kept []string
	for i, col := range t.columns {
		count := 0
		for _, row := range t.rows {
			if row[i].IsNull() {
				count++
			}
		}
		if float64(count)/float64(len(t.rows)) <= threshold {
			kept = append(kept, col)
		}
	}
	out, _ := t.Select(kept...)
	return out
}
