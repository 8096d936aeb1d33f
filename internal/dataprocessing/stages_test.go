package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admiscli/internal/dataset"
	apperrors "admiscli/internal/errors"
	"admiscli/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTable builds a table from raw strings, blank meaning null
func newTable(t *testing.T, name string, columns []string, rows [][]string) *dataset.Table {
	t.Helper()
	tbl := dataset.New(name, columns)
	for _, raw := range rows {
		values := make([]dataset.Value, len(raw))
		for i, cell := range raw {
			values[i] = dataset.NewValue(cell)
		}
		require.NoError(t, tbl.AppendRow(values))
	}
	return tbl
}

func historyColumns() []string {
	return []string{
		domain.ColHistoryOpportunity,
		domain.ColHistoryStage,
		domain.ColHistorySubStage,
		domain.ColCreatedDate,
		domain.ColStageEndDate,
	}
}

func TestStageCalculator_Compute(t *testing.T) {
	history := newTable(t, "historial_etapas", historyColumns(), [][]string{
		{"op-2", "Solicitud", "Iniciada", "2024-01-05 00:00:00", ""},
		{"op-1", domain.StageEnrollment, domain.SubStageFormalized, "2024-02-01 00:00:00", ""},
		{"op-1", "Solicitud", "Iniciada", "2024-01-10 10:00:00", "2024-01-15 10:00:00"},
		{"op-1", domain.StageAdmissionTests, domain.SubStageTestsGraded, "2024-01-15 10:00:00", "2024-02-01 00:00:00"},
	})

	calc := NewStageCalculator(discardLogger())
	out, err := calc.Compute(context.Background(), history)
	require.NoError(t, err)

	// Sorted by (opportunity, start), two derived columns appended.
	require.Equal(t, 4, out.NumRows())
	assert.Equal(t, len(historyColumns())+2, out.NumCols())

	wantOrder := []string{"op-1", "op-1", "op-1", "op-2"}
	wantDuration := []string{"5", "16", "0", "0"}
	wantGap := []string{"5", "16", "0", "0"}
	for i := range wantOrder {
		assert.Equal(t, wantOrder[i], out.Get(i, domain.ColHistoryOpportunity).String(), "row %d opportunity", i)
		assert.Equal(t, wantDuration[i], out.Get(i, domain.ColStageDays).String(), "row %d duration", i)
		assert.Equal(t, wantGap[i], out.Get(i, domain.ColStageGapDays).String(), "row %d gap", i)
	}

	// Input snapshot is untouched.
	assert.False(t, history.HasColumn(domain.ColStageDays))
	assert.Equal(t, "op-2", history.Get(0, domain.ColHistoryOpportunity).String())
}

func TestStageCalculator_Compute_MissingTimestampsYieldZero(t *testing.T) {
	history := newTable(t, "historial_etapas", historyColumns(), [][]string{
		{"op-1", "Solicitud", "Iniciada", "", "2024-01-15 00:00:00"},
		{"op-1", "Solicitud", "Pendiente", "2024-01-20 00:00:00", ""},
	})

	calc := NewStageCalculator(discardLogger())
	out, err := calc.Compute(context.Background(), history)
	require.NoError(t, err)

	for i := 0; i < out.NumRows(); i++ {
		assert.Equal(t, "0", out.Get(i, domain.ColStageDays).String())
		assert.Equal(t, "0", out.Get(i, domain.ColStageGapDays).String())
	}
}

func TestStageCalculator_Compute_MissingColumn(t *testing.T) {
	history := newTable(t, "historial_etapas", []string{
		domain.ColHistoryOpportunity, domain.ColCreatedDate,
	}, nil)

	calc := NewStageCalculator(discardLogger())
	_, err := calc.Compute(context.Background(), history)
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingColumn(err))
}
