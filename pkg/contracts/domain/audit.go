package domain

// AuditReport carries the referential-integrity diagnostics produced by the
// audited target labeler. All counts are informational: orphan keys,
// filtered-out history entries and duplicate master keys are reported, never
// repaired or silently merged.
type AuditReport struct {
	MasterIDs     int     `json:"master_ids"`
	HistoryIDs    int     `json:"history_ids"`
	MatchedIDs    int     `json:"matched_ids"`
	OrphanIDs     int     `json:"orphan_ids"`      // in master, absent from history
	OrphanPercent float64 `json:"orphan_percent"`
	FilteredIDs   int     `json:"filtered_ids"`    // in history, absent from master
	DuplicateKeys int     `json:"duplicate_keys"`  // duplicated master IDs

	Formalized     int     `json:"formalized"`
	Unenrolled     int     `json:"unenrolled"`
	Converted      int     `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"` // percent of master rows with target=1
}

// HasAnomalies reports whether any non-fatal data-quality issue was found
func (r AuditReport) HasAnomalies() bool {
	return r.OrphanIDs > 0 || r.FilteredIDs > 0 || r.DuplicateKeys > 0
}
