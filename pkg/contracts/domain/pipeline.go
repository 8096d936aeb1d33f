package domain

import "time"

// PipelineResult summarizes one pipeline run for logging and for callers
// that embed the assembler.
type PipelineResult struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Audit AuditReport `json:"audit"`

	AnalysisRows    int `json:"analysis_rows"`
	AnalysisColumns int `json:"analysis_columns"`
	FinalRows       int `json:"final_rows"`
	FinalColumns    int `json:"final_columns"`
}
