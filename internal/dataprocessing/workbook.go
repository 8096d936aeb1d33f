package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"admiscli/internal/dataset"
	"admiscli/internal/errors"
)

// Workbook holds the entity tables of one CRM export, one per sheet.
// BankRequest, Case and Email are loaded for completeness; the assembler
// currently only consumes the other five.
type Workbook struct {
	Opportunity  *dataset.Table
	Account      *dataset.Table
	Economic     *dataset.Table
	BankRequest  *dataset.Table
	Case         *dataset.Table
	Email        *dataset.Table
	Activity     *dataset.Table
	StageHistory *dataset.Table
}

// entityNames maps sheet positions to logical entity names. The sheet order
// of the export is the loading contract; sheet titles vary between exports
// and are not relied on.
var entityNames = []string{
	"oportunidad",
	"cuenta",
	"ecb",
	"solicitud_ban",
	"casos",
	"correos",
	"historial_actividad",
	"historial_etapas",
}

// LoadWorkbook reads the multi-sheet export at path into entity tables.
// The first row of each sheet is taken as the header; blank cells load as
// nulls and rows longer than the header are truncated to it.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < len(entityNames) {
		return nil, errors.NewParsingError(
			fmt.Sprintf("workbook has %d sheets, expected at least %d", len(sheets), len(entityNames)), nil).
			WithContext("path", path)
	}

	tables := make([]*dataset.Table, len(entityNames))
	for i, name := range entityNames {
		rows, err := f.GetRows(sheets[i])
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("failed to read sheet %q", sheets[i]), err).WithContext("entity", name)
		}
		table, err := tableFromRows(name, rows)
		if err != nil {
			return nil, err
		}
		tables[i] = table
		slog.Debug("Loaded sheet",
			slog.String("sheet", sheets[i]),
			slog.String("entity", name),
			slog.Int("rows", table.NumRows()),
			slog.Int("columns", table.NumCols()))
	}

	slog.Info("Workbook loaded",
		slog.String("path", path),
		slog.Int("opportunities", tables[0].NumRows()),
		slog.Int("stage_events", tables[7].NumRows()),
		slog.Int("activities", tables[6].NumRows()))

	return &Workbook{
		Opportunity:  tables[0],
		Account:      tables[1],
		Economic:     tables[2],
		BankRequest:  tables[3],
		Case:         tables[4],
		Email:        tables[5],
		Activity:     tables[6],
		StageHistory: tables[7],
	}, nil
}

// tableFromRows builds a table from raw sheet rows
func tableFromRows(name string, rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 {
		return dataset.New(name, nil), nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := dataset.New(name, header)
	for _, row := range rows[1:] {
		if len(row) > len(header) {
			row = row[:len(header)]
		}
		cells := make([]dataset.Value, len(row))
		for i, raw := range row {
			cells[i] = dataset.NewValue(raw)
		}
		if err := table.AppendRow(cells); err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("failed to load row into table %q", name), err)
		}
	}
	return table, nil
}
