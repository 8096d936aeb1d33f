package dataprocessing

import (
	"context"
	"log/slog"

	"admiscli/internal/dataset"
	"admiscli/pkg/contracts/domain"
)

// Labeler derives the binary enrollment target from the stage history log.
// An opportunity converts (target = 1) when it reached the formalized
// enrollment sub-stage and never reached the unenrolled sub-stage; both
// conditions are evaluated against the same snapshot of the log.
type Labeler struct {
	logger *slog.Logger
}

// NewLabeler creates a target labeler
func NewLabeler(logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Labeler{logger: logger}
}

// Label returns the master table with the target and desmatriculado columns
// populated. Opportunities with no matching history get target 0.
func (l *Labeler) Label(ctx context.Context, master, history *dataset.Table) (*dataset.Table, error) {
	labeled, _, err := l.label(ctx, master, history)
	return labeled, err
}

// LabelAudited is Label plus referential-integrity diagnostics: orphan keys,
// history entries with no master row, and duplicate master keys. The
// diagnostics are pure set arithmetic over the two inputs; anomalies are
// logged and reported, never repaired.
func (l *Labeler) LabelAudited(ctx context.Context, master, history *dataset.Table) (*dataset.Table, domain.AuditReport, error) {
	labeled, report, err := l.label(ctx, master, history)
	if err != nil {
		return nil, domain.AuditReport{}, err
	}

	if report.HasAnomalies() {
		l.logger.WarnContext(ctx, "referential integrity anomalies in master/history keys",
			slog.Int("orphan_ids", report.OrphanIDs),
			slog.Float64("orphan_percent", report.OrphanPercent),
			slog.Int("filtered_ids", report.FilteredIDs),
			slog.Int("duplicate_keys", report.DuplicateKeys))
	}
	l.logger.InfoContext(ctx, "target labeling summary",
		slog.Int("master_ids", report.MasterIDs),
		slog.Int("history_ids", report.HistoryIDs),
		slog.Int("matched_ids", report.MatchedIDs),
		slog.Int("formalized", report.Formalized),
		slog.Int("unenrolled", report.Unenrolled),
		slog.Int("converted", report.Converted),
		slog.Float64("conversion_rate", report.ConversionRate))

	return labeled, report, nil
}

func (l *Labeler) label(ctx context.Context, master, history *dataset.Table) (*dataset.Table, domain.AuditReport, error) {
	var report domain.AuditReport

	if err := master.Require(domain.ColOpportunityID); err != nil {
		return nil, report, err
	}
	if err := history.Require(domain.ColHistoryOpportunity, domain.ColHistoryStage, domain.ColHistorySubStage); err != nil {
		return nil, report, err
	}

	// One pass over the immutable history snapshot builds both stage sets.
	formalized := make(map[string]bool)
	unenrolled := make(map[string]bool)
	historyIDs := make(map[string]bool)
	for i := 0; i < history.NumRows(); i++ {
		id := history.Get(i, domain.ColHistoryOpportunity).String()
		if id == "" {
			continue
		}
		historyIDs[id] = true
		stage := history.Get(i, domain.ColHistoryStage).String()
		subStage := history.Get(i, domain.ColHistorySubStage).String()
		if stage == domain.StageEnrollment && subStage == domain.SubStageFormalized {
			formalized[id] = true
		}
		if subStage == domain.SubStageUnenrolledEvent {
			unenrolled[id] = true
		}
	}

	masterIDs := make(map[string]bool)
	targets := make([]dataset.Value, master.NumRows())
	unenrolledCol := make([]dataset.Value, master.NumRows())
	converted := 0
	for i := 0; i < master.NumRows(); i++ {
		id := master.Get(i, domain.ColOpportunityID).String()
		if id != "" {
			if masterIDs[id] {
				report.DuplicateKeys++
			}
			masterIDs[id] = true
		}

		target := 0
		if formalized[id] && !unenrolled[id] {
			target = 1
			converted++
		}
		targets[i] = dataset.IntValue(target)

		dropped := 0
		if unenrolled[id] {
			dropped = 1
		}
		unenrolledCol[i] = dataset.IntValue(dropped)
	}

	matched := 0
	for id := range masterIDs {
		if historyIDs[id] {
			matched++
		}
	}

	report.MasterIDs = len(masterIDs)
	report.HistoryIDs = len(historyIDs)
	report.MatchedIDs = matched
	report.OrphanIDs = len(masterIDs) - matched
	if len(masterIDs) > 0 {
		report.OrphanPercent = float64(report.OrphanIDs) / float64(len(masterIDs)) * 100
	}
	report.FilteredIDs = len(historyIDs) - matched
	report.Formalized = len(formalized)
	report.Unenrolled = len(unenrolled)
	report.Converted = converted
	if master.NumRows() > 0 {
		report.ConversionRate = float64(converted) / float64(master.NumRows()) * 100
	}

	labeled, err := master.WithColumn(domain.ColTarget, targets)
	if err != nil {
		return nil, report, err
	}
	labeled, err = labeled.WithColumn(domain.ColUnenrolled, unenrolledCol)
	if err != nil {
		return nil, report, err
	}
	return labeled, report, nil
}
