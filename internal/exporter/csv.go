package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"admiscli/internal/dataset"
)

// CSVWriter writes pipeline tables as delimited text artifacts. The field
// delimiter and the column order of the written table are part of the
// contract with downstream model-training consumers.
type CSVWriter struct {
	delimiter rune
}

// NewCSVWriter creates a CSV writer with the given field delimiter
func NewCSVWriter(delimiter rune) *CSVWriter {
	if delimiter == 0 {
		delimiter = ';'
	}
	return &CSVWriter{delimiter: delimiter}
}

// WriteOptions configures table writing behavior
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding; the
	// accented column values make this matter here.
	BOMPrefix bool
}

// WriteTable writes the table to filePath, header row first, null cells as
// empty fields.
func (w *CSVWriter) WriteTable(filePath string, t *dataset.Table, options WriteOptions) error {
	slog.Info("Writing CSV artifact",
		slog.String("path", filePath),
		slog.String("table", t.Name()),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	writer.Comma = w.delimiter
	defer writer.Flush()

	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, cell := range t.Row(i) {
			record[j] = cell.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
