package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"admiscli/internal/dataset"
	"admiscli/pkg/contracts/domain"
)

// DefaultEarlyStages are the funnel stages at which payment information
// cannot legitimately be known yet.
var DefaultEarlyStages = []string{"Solicitud", "Pruebas", "Admisión académica"}

// DefaultPaymentFields are the fields redacted by the stage-based guard.
var DefaultPaymentFields = []string{
	"PAID_AMOUNT",
	"MINIMUMPAYMENTPAYED",
	domain.ColAppliedPrice,
	domain.ColPaidPercent,
}

// LeakageGuard removes information from rows that could not have known it
// at the point in time the row represents. Two variants are provided:
// RedactByStage nulls payment fields on rows whose stage name is an early
// stage, and RedactByMilestone nulls academic and economic field groups on
// rows whose own timestamp precedes the per-opportunity milestone at which
// that information became known.
type LeakageGuard struct {
	logger        *slog.Logger
	earlyStages   map[string]bool
	paymentFields []string
}

// NewLeakageGuard creates a guard with the given early-stage set and
// payment field list, falling back to the defaults when either is empty.
func NewLeakageGuard(logger *slog.Logger, earlyStages, paymentFields []string) *LeakageGuard {
	if logger == nil {
		logger = slog.Default()
	}
	if len(earlyStages) == 0 {
		earlyStages = DefaultEarlyStages
	}
	if len(paymentFields) == 0 {
		paymentFields = DefaultPaymentFields
	}
	stageSet := make(map[string]bool, len(earlyStages))
	for _, s := range earlyStages {
		stageSet[s] = true
	}
	return &LeakageGuard{logger: logger, earlyStages: stageSet, paymentFields: paymentFields}
}

// RedactByStage nulls every configured payment field on rows whose stage is
// in the early-stage set and that carry at least one non-null payment
// field. It keys on the stage name the snapshot carries, not on when the
// payment became known, so it approximates temporal correctness rather
// than enforcing it; RedactByMilestone is the strict variant. Applying the
// guard twice yields the same table as applying it once.
func (g *LeakageGuard) RedactByStage(ctx context.Context, t *dataset.Table) (*dataset.Table, error) {
	if err := t.Require(domain.ColHistoryStage); err != nil {
		return nil, err
	}

	// Only fields actually present in this table participate.
	var fields []string
	for _, f := range g.paymentFields {
		if t.HasColumn(f) {
			fields = append(fields, f)
		}
	}

	out := t.Clone()
	redacted := 0
	for i := 0; i < out.NumRows(); i++ {
		if !g.earlyStages[out.Get(i, domain.ColHistoryStage).String()] {
			continue
		}
		dirty := false
		for _, f := range fields {
			if !out.Get(i, f).IsNull() {
				dirty = true
				break
			}
		}
		if !dirty {
			continue
		}
		for _, f := range fields {
			out.Set(i, f, dataset.Null())
		}
		redacted++
	}

	g.logger.InfoContext(ctx, "stage-based leakage redaction complete",
		slog.Int("rows_redacted", redacted),
		slog.Int("fields_guarded", len(fields)))

	return out, nil
}

// RedactByMilestone nulls the academic field group on rows whose timestamp
// precedes the opportunity's academic milestone (admission tests graded)
// and the economic group on rows preceding the economic milestone (minimum
// payment made). Rows of opportunities that never reached a milestone lose
// the corresponding group entirely.
func (g *LeakageGuard) RedactByMilestone(ctx context.Context, t, history *dataset.Table) (*dataset.Table, error) {
	if err := t.Require(domain.ColHistoryOpportunity, domain.ColCreatedDate); err != nil {
		return nil, err
	}
	if err := history.Require(domain.ColHistoryOpportunity, domain.ColHistoryStage,
		domain.ColHistorySubStage, domain.ColCreatedDate); err != nil {
		return nil, err
	}

	academicAt := milestoneTimes(history, domain.StageAdmissionTests, domain.SubStageTestsGraded)
	economicAt := milestoneTimes(history, domain.StageEnrollmentStart, domain.SubStageMinimumPayment)

	academicFields := presentColumns(t, domain.AcademicLeakColumns)
	economicFields := presentColumns(t, domain.EconomicLeakColumns)

	out := t.Clone()
	academicRedacted, economicRedacted := 0, 0
	for i := 0; i < out.NumRows(); i++ {
		opp := out.Get(i, domain.ColHistoryOpportunity).String()
		at, atOK := out.Get(i, domain.ColCreatedDate).Time()

		if redactBeforeMilestone(out, i, academicFields, academicAt[opp], at, atOK) {
			academicRedacted++
		}
		if redactBeforeMilestone(out, i, economicFields, economicAt[opp], at, atOK) {
			economicRedacted++
		}
	}

	g.logger.InfoContext(ctx, "milestone-based leakage redaction complete",
		slog.Int("academic_rows_redacted", academicRedacted),
		slog.Int("economic_rows_redacted", economicRedacted),
		slog.Int("opportunities_with_academic_milestone", len(academicAt)),
		slog.Int("opportunities_with_economic_milestone", len(economicAt)))

	return out, nil
}

// milestoneTimes returns the earliest event timestamp per opportunity for
// the given stage and sub-stage.
func milestoneTimes(history *dataset.Table, stage, subStage string) map[string]time.Time {
	earliest := make(map[string]time.Time)
	for i := 0; i < history.NumRows(); i++ {
		if history.Get(i, domain.ColHistoryStage).String() != stage ||
			history.Get(i, domain.ColHistorySubStage).String() != subStage {
			continue
		}
		opp := history.Get(i, domain.ColHistoryOpportunity).String()
		at, ok := history.Get(i, domain.ColCreatedDate).Time()
		if opp == "" || !ok {
			continue
		}
		if current, exists := earliest[opp]; !exists || at.Before(current) {
			earliest[opp] = at
		}
	}
	return earliest
}

// redactBeforeMilestone nulls fields on row i when the milestone never
// occurred or the row precedes it. Reports whether anything was nulled.
func redactBeforeMilestone(t *dataset.Table, i int, fields []string, milestone time.Time, at time.Time, atOK bool) bool {
	// A row without its own timestamp cannot be placed before a milestone
	// that did occur, so it is only redacted when the milestone is missing.
	if !milestone.IsZero() && (!atOK || !at.Before(milestone)) {
		return false
	}
	nulled := false
	for _, f := range fields {
		if !t.Get(i, f).IsNull() {
			nulled = true
		}
		t.Set(i, f, dataset.Null())
	}
	return nulled
}

// presentColumns filters names to those existing in the table
func presentColumns(t *dataset.Table, names []string) []string {
	var present []string
	for _, name := range names {
		if t.HasColumn(name) {
			present = append(present, name)
		}
	}
	return present
}
