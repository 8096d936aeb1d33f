package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admiscli/internal/dataset"
)

func buildTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl := dataset.New("dataset_tratamiento_final", []string{"ID", "target", "PORCENTAJE_PAGADO_FINAL"})
	require.NoError(t, tbl.AppendRow([]dataset.Value{
		dataset.NewValue("op-1"), dataset.IntValue(1), dataset.FloatValue(42.5),
	}))
	require.NoError(t, tbl.AppendRow([]dataset.Value{
		dataset.NewValue("op-2"), dataset.IntValue(0), dataset.Null(),
	}))
	return tbl
}

func TestCSVWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.csv")
	writer := NewCSVWriter(';')

	require.NoError(t, writer.WriteTable(path, buildTable(t), WriteOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID;target;PORCENTAJE_PAGADO_FINAL\nop-1;1;42.5\nop-2;0;\n", string(data))
}

func TestCSVWriter_WriteTable_BOMPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter(';')

	require.NoError(t, writer.WriteTable(path, buildTable(t), WriteOptions{BOMPrefix: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, byte('I'), data[3])
}

func TestNewCSVWriter_DefaultDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter(0)

	require.NoError(t, writer.WriteTable(path, buildTable(t), WriteOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ID;target")
}
