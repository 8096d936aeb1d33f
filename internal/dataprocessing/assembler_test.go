package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admiscli/internal/config"
	"admiscli/internal/dataset"
	"admiscli/pkg/contracts/domain"
)

// derivedColumns are the final columns the pipeline produces itself; every
// other final column must already be present on the master table.
var derivedColumns = map[string]bool{
	domain.ColTarget:        true,
	domain.ColUnenrolled:    true,
	domain.ColDeadlineClean: true,
	domain.ColPaidPercent:   true,
	domain.ColStageDays:     true,
	domain.ColStageGapDays:  true,
	domain.ColAttendedAcc:   true,
	domain.ColRequestedAcc:  true,
	domain.ColFamilyIncome:  true,
	domain.ColOrdinaryPrice: true,
	domain.ColAppliedPrice:  true,
}

// masterFixture builds an opportunity table carrying every static final
// column, filling unspecified cells with a placeholder. LEGACY_FAX is an
// all-null column that the sparse pruning pass should drop.
func masterFixture(t *testing.T, rows []map[string]string) *dataset.Table {
	t.Helper()
	var columns []string
	for _, c := range domain.FinalColumns {
		if !derivedColumns[c] {
			columns = append(columns, c)
		}
	}
	columns = append(columns, "LEGACY_FAX")

	tbl := dataset.New("oportunidad", columns)
	for _, row := range rows {
		values := make([]dataset.Value, len(columns))
		for i, c := range columns {
			switch v, ok := row[c]; {
			case ok:
				values[i] = dataset.NewValue(v)
			case c == "LEGACY_FAX":
				values[i] = dataset.Null()
			default:
				values[i] = dataset.NewValue("x")
			}
		}
		require.NoError(t, tbl.AppendRow(values))
	}
	return tbl
}

func fixtureWorkbook(t *testing.T) *Workbook {
	t.Helper()
	opportunity := masterFixture(t, []map[string]string{
		{
			domain.ColOpportunityID: "op-1",
			domain.ColAccountRef:    "acc-1",
			domain.ColContactID:     "c-1",
			domain.ColAcademicYear:  "2024",
			domain.ColDeadline:      "Plazo diciembre",
			"NU_NOTA_MEDIA_ADMISION": "8.5",
		},
		{
			domain.ColOpportunityID: "op-2",
			domain.ColAccountRef:    "acc-2",
			domain.ColContactID:     "c-2",
			domain.ColAcademicYear:  "2024",
			domain.ColDeadline:      "",
		},
	})

	account := newTable(t, "cuenta", []string{domain.ColAccountID, "BILLINGCITY"}, [][]string{
		{"acc-1", "Madrid"},
		{"acc-2", "Bilbao"},
	})

	economic := newTable(t, "ecb", []string{
		domain.ColEconomicOpportunity, domain.ColFamilyIncome,
		domain.ColOrdinaryPrice, domain.ColAppliedPrice,
	}, [][]string{
		{"op-1", "60000", "10000", "7500"},
		{"op-2", "45000", "0", "5000"},
	})

	history := newTable(t, "historial_etapas", historyColumns(), [][]string{
		{"op-1", "Solicitud", "Iniciada", "2024-01-10 00:00:00", "2024-01-15 00:00:00"},
		{"op-1", domain.StageAdmissionTests, domain.SubStageTestsGraded, "2024-01-15 00:00:00", "2024-02-01 00:00:00"},
		{"op-1", domain.StageEnrollment, domain.SubStageFormalized, "2024-02-01 00:00:00", ""},
		{"op-2", "Solicitud", "Iniciada", "2024-01-05 00:00:00", ""},
	})

	activity := newTable(t, "historial_actividad", activityColumns(), [][]string{
		{"c-1", "2024", "2024-01-12 09:00:00", "Asiste", "Visita campus"},
		{"c-1", "2024", "2024-01-01 09:00:00", "Asiste", "Email masivo"},
	})

	return &Workbook{
		Opportunity:  opportunity,
		Account:      account,
		Economic:     economic,
		BankRequest:  dataset.New("solicitud_ban", nil),
		Case:         dataset.New("casos", nil),
		Email:        dataset.New("correos", nil),
		Activity:     activity,
		StageHistory: history,
	}
}

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		NAThreshold:        0.9,
		MilestoneRedaction: true,
	}
}

func TestAssembler_Assemble(t *testing.T) {
	assembler := NewAssembler(discardLogger(), pipelineConfig())

	result, err := assembler.Assemble(context.Background(), fixtureWorkbook(t))
	require.NoError(t, err)

	analysis, final := result.Analysis, result.Final

	// Analysis grain is one row per opportunity, sparse columns pruned and
	// merged attributes present.
	assert.Equal(t, "dataset_analisis", analysis.Name())
	assert.Equal(t, 2, analysis.NumRows())
	assert.False(t, analysis.HasColumn("LEGACY_FAX"))
	assert.True(t, analysis.HasColumn(domain.ColDeadlineClean))
	assert.True(t, analysis.HasColumn(domain.ColPaidPercent))
	assert.False(t, analysis.HasColumn(domain.ColStageDays))

	// Final grain is one row per stage event, exactly the contract columns.
	assert.Equal(t, "dataset_tratamiento_final", final.Name())
	require.Equal(t, 4, final.NumRows())
	assert.Equal(t, domain.FinalColumns, final.Columns())

	// Rows arrive sorted by (opportunity, event start).
	wantOpp := []string{"op-1", "op-1", "op-1", "op-2"}
	wantTarget := []string{"1", "1", "1", "0"}
	wantDuration := []string{"5", "17", "0", "0"}
	wantGap := []string{"5", "17", "0", "0"}
	wantAttended := []string{"0", "1", "1", "0"}
	for i := range wantOpp {
		assert.Equal(t, wantOpp[i], final.Get(i, domain.ColOpportunityID).String(), "row %d opportunity", i)
		assert.Equal(t, wantTarget[i], final.Get(i, domain.ColTarget).String(), "row %d target", i)
		assert.Equal(t, wantDuration[i], final.Get(i, domain.ColStageDays).String(), "row %d duration", i)
		assert.Equal(t, wantGap[i], final.Get(i, domain.ColStageGapDays).String(), "row %d gap", i)
		assert.Equal(t, wantAttended[i], final.Get(i, domain.ColAttendedAcc).String(), "row %d attended", i)
		assert.Equal(t, "0", final.Get(i, domain.ColRequestedAcc).String(), "row %d requested", i)
	}

	// Deadline bucketing and the payment ratio survive into the final set.
	assert.Equal(t, DeadlineDecember, final.Get(0, domain.ColDeadlineClean).String())
	assert.Equal(t, DeadlineRolling, final.Get(3, domain.ColDeadlineClean).String())
	assert.Equal(t, "75", final.Get(0, domain.ColPaidPercent).String())
	assert.True(t, final.Get(3, domain.ColPaidPercent).IsNull(), "zero base price must yield a null ratio")

	// Academic fields are known only from the graded-tests milestone on.
	assert.True(t, final.Get(0, "NU_NOTA_MEDIA_ADMISION").IsNull())
	assert.Equal(t, "8.5", final.Get(1, "NU_NOTA_MEDIA_ADMISION").String())
	assert.Equal(t, "8.5", final.Get(2, "NU_NOTA_MEDIA_ADMISION").String())
	assert.True(t, final.Get(3, "NU_NOTA_MEDIA_ADMISION").IsNull())

	// The economic milestone never happened, so payment fields are gone.
	for i := 0; i < final.NumRows(); i++ {
		assert.True(t, final.Get(i, "PAID_AMOUNT").IsNull(), "row %d PAID_AMOUNT", i)
	}

	assert.Equal(t, 2, result.Audit.MasterIDs)
	assert.Equal(t, 1, result.Audit.Converted)
	assert.False(t, result.Audit.HasAnomalies())
}

func TestAssembler_Assemble_StageRedaction(t *testing.T) {
	cfg := pipelineConfig()
	cfg.MilestoneRedaction = false
	assembler := NewAssembler(discardLogger(), cfg)

	result, err := assembler.Assemble(context.Background(), fixtureWorkbook(t))
	require.NoError(t, err)

	// The blunt variant keys on the snapshot's stage, not on milestones, so
	// academic fields survive everywhere.
	final := result.Final
	require.Equal(t, 4, final.NumRows())
	assert.Equal(t, "8.5", final.Get(0, "NU_NOTA_MEDIA_ADMISION").String())
	// op-1's early-stage rows lose the payment ratio, the enrollment row
	// keeps it.
	assert.True(t, final.Get(0, domain.ColPaidPercent).IsNull())
	assert.Equal(t, "75", final.Get(2, domain.ColPaidPercent).String())
}

func TestAssembler_Assemble_MissingMasterColumn(t *testing.T) {
	wb := fixtureWorkbook(t)
	wb.Opportunity = newTable(t, "oportunidad", []string{"NOMBRE"}, nil)

	assembler := NewAssembler(discardLogger(), pipelineConfig())
	_, err := assembler.Assemble(context.Background(), wb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target labeling")
}
