package dataprocessing

import (
	"strings"

	"admiscli/internal/dataset"
	"admiscli/pkg/contracts/domain"
)

// Admission deadline buckets. The raw field is free-form; everything that
// is not recognizably December or March lands in the explicit catch-all,
// and a missing value means the rolling-admission track.
const (
	DeadlineRolling  = "Rolling"
	DeadlineDecember = "Diciembre"
	DeadlineMarch    = "Marzo"
	DeadlineOther    = "Otros"
)

// NormalizeAdmissionDeadline appends PLAZO_ADMISION_LIMPIO, bucketing the
// heterogeneous PL_PLAZO_ADMISION values into a small fixed category set.
func NormalizeAdmissionDeadline(t *dataset.Table) (*dataset.Table, error) {
	if err := t.Require(domain.ColDeadline); err != nil {
		return nil, err
	}

	values := make([]dataset.Value, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		raw := t.Get(i, domain.ColDeadline)
		values[i] = dataset.NewValue(bucketDeadline(raw))
	}
	return t.WithColumn(domain.ColDeadlineClean, values)
}

// bucketDeadline maps one raw deadline value to its category
func bucketDeadline(v dataset.Value) string {
	if v.IsNull() {
		return DeadlineRolling
	}
	lowered := strings.ToLower(strings.TrimSpace(v.String()))
	switch {
	case strings.Contains(lowered, "dic"):
		return DeadlineDecember
	case strings.Contains(lowered, "mar"):
		return DeadlineMarch
	default:
		return DeadlineOther
	}
}

// ComputePaidPercent appends PORCENTAJE_PAGADO_FINAL, the applied price as
// a percentage of the ordinary price. A non-positive or missing base yields
// a null ratio, never an infinity: the null is itself a data-quality signal
// for the modeling stage.
func ComputePaidPercent(t *dataset.Table) (*dataset.Table, error) {
	if err := t.Require(domain.ColOrdinaryPrice, domain.ColAppliedPrice); err != nil {
		return nil, err
	}

	values := make([]dataset.Value, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		base, baseOK := t.Get(i, domain.ColOrdinaryPrice).Float()
		applied, appliedOK := t.Get(i, domain.ColAppliedPrice).Float()
		if !baseOK || base <= 0 || !appliedOK {
			values[i] = dataset.Null()
			continue
		}
		values[i] = dataset.FloatValue(applied / base * 100)
	}
	return t.WithColumn(domain.ColPaidPercent, values)
}
