package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"admiscli/internal/config"
	"admiscli/internal/dataset"
	"admiscli/pkg/contracts/domain"
)

// Assembler sequences the dataset construction steps over a loaded
// workbook: prune sparse columns, label the target, merge auxiliary
// attributes, derive features, compute stage durations, aggregate prior
// activities, redact leaked fields and select the final column set. Every
// step consumes the previous step's output and returns a new table.
type Assembler struct {
	logger     *slog.Logger
	cfg        config.PipelineConfig
	labeler    *Labeler
	stages     *StageCalculator
	activities *ActivityAggregator
	guard      *LeakageGuard
}

// NewAssembler creates a dataset assembler wired from the pipeline config
func NewAssembler(logger *slog.Logger, cfg config.PipelineConfig) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		logger:     logger,
		cfg:        cfg,
		labeler:    NewLabeler(logger),
		stages:     NewStageCalculator(logger),
		activities: NewActivityAggregator(logger, cfg.ExcludedKeywords),
		guard:      NewLeakageGuard(logger, cfg.EarlyStages, cfg.PaymentFields),
	}
}

// AssemblyResult carries the two emitted tables and the run diagnostics
type AssemblyResult struct {
	// Analysis is the merged dataset before the history expansion and
	// final column selection, kept for exploratory work.
	Analysis *dataset.Table
	// Final is the modeling dataset: one row per stage-history snapshot,
	// fixed column set and order.
	Final *dataset.Table
	Audit domain.AuditReport
}

// Assemble runs the full pipeline over the workbook
func (a *Assembler) Assemble(ctx context.Context, wb *Workbook) (*AssemblyResult, error) {
	// Sparse-column pruning on the tables that feed the merge. The
	// threshold is a null fraction, e.g. 0.9 drops columns over 90% null.
	opportunity := a.pruneSparse(ctx, wb.Opportunity)
	account := a.pruneSparse(ctx, wb.Account)
	economic := a.pruneSparse(ctx, wb.Economic)

	master, audit, err := a.labeler.LabelAudited(ctx, opportunity, wb.StageHistory)
	if err != nil {
		return nil, fmt.Errorf("target labeling: %w", err)
	}

	merged, err := master.LeftJoin(account, domain.ColAccountRef, domain.ColAccountID, "_cuenta")
	if err != nil {
		return nil, fmt.Errorf("account merge: %w", err)
	}

	merged, err = NormalizeAdmissionDeadline(merged)
	if err != nil {
		return nil, fmt.Errorf("admission deadline normalization: %w", err)
	}

	economicSubset, err := economic.Select(domain.ColEconomicOpportunity,
		domain.ColFamilyIncome, domain.ColOrdinaryPrice, domain.ColAppliedPrice)
	if err != nil {
		return nil, fmt.Errorf("economic attribute selection: %w", err)
	}
	merged, err = merged.LeftJoin(economicSubset, domain.ColOpportunityID, domain.ColEconomicOpportunity, "_ecb")
	if err != nil {
		return nil, fmt.Errorf("economic merge: %w", err)
	}

	merged, err = ComputePaidPercent(merged)
	if err != nil {
		return nil, fmt.Errorf("paid percent derivation: %w", err)
	}

	analysis := merged.WithName("dataset_analisis")

	history, err := a.stages.Compute(ctx, wb.StageHistory)
	if err != nil {
		return nil, fmt.Errorf("stage duration computation: %w", err)
	}

	// Expand to one row per stage snapshot: the history becomes the row
	// grain and the merged master contributes the per-opportunity columns.
	full, err := history.LeftJoin(merged, domain.ColHistoryOpportunity, domain.ColOpportunityID, "_maestro")
	if err != nil {
		return nil, fmt.Errorf("history expansion: %w", err)
	}

	full, err = a.activities.Aggregate(ctx, full, wb.Activity)
	if err != nil {
		return nil, fmt.Errorf("activity aggregation: %w", err)
	}

	if a.cfg.MilestoneRedaction {
		full, err = a.guard.RedactByMilestone(ctx, full, wb.StageHistory)
	} else {
		full, err = a.guard.RedactByStage(ctx, full)
	}
	if err != nil {
		return nil, fmt.Errorf("leakage redaction: %w", err)
	}

	final, err := full.Select(domain.FinalColumns...)
	if err != nil {
		return nil, fmt.Errorf("final column selection: %w", err)
	}
	final = final.WithName("dataset_tratamiento_final")

	a.logger.InfoContext(ctx, "dataset assembly complete",
		slog.Int("analysis_rows", analysis.NumRows()),
		slog.Int("analysis_columns", analysis.NumCols()),
		slog.Int("final_rows", final.NumRows()),
		slog.Int("final_columns", final.NumCols()),
		slog.Bool("milestone_redaction", a.cfg.MilestoneRedaction))

	return &AssemblyResult{Analysis: analysis, Final: final, Audit: audit}, nil
}

// pruneSparse drops columns whose null fraction exceeds the configured
// threshold and logs what went away.
func (a *Assembler) pruneSparse(ctx context.Context, t *dataset.Table) *dataset.Table {
	before := t.NumCols()
	out := t.DropSparseColumns(a.cfg.NAThreshold)
	if dropped := before - out.NumCols(); dropped > 0 {
		a.logger.InfoContext(ctx, "pruned sparse columns",
			slog.String("table", t.Name()),
			slog.Int("columns_dropped", dropped),
			slog.Float64("na_threshold", a.cfg.NAThreshold))
		for _, stat := range t.NAStats() {
			if stat.Percent/100 > a.cfg.NAThreshold {
				a.logger.DebugContext(ctx, "dropped column",
					slog.String("table", t.Name()),
					slog.String("column", stat.Column),
					slog.Float64("na_percent", stat.Percent))
			}
		}
	}
	return out
}
