package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadAllCSVPreservesOrder(t *testing.T) {
	path := writeFile(t, "inv.csv", "codigo,cpu_model,ram_gib,discos\n"+
		"PC002,Intel Core i5,8,sda:256G\n"+
		"PC001,AMD Ryzen 5,16,nvme0n1:512G | sda:1T\n")

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	codigo, ok := records[0].Get(FieldCodigo)
	require.True(t, ok)
	assert.Equal(t, "PC002", codigo)

	discos, _ := records[1].Get(FieldDiscos)
	assert.Equal(t, "nvme0n1:512G | sda:1T", discos)
	assert.Equal(t, []string{"codigo", "cpu_model", "ram_gib", "discos"}, fieldNames(records[1]))
}

func TestReadAllNotFound(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReadAllHeaderOnlyIsEmpty(t *testing.T) {
	path := writeFile(t, "inv.csv", "codigo,cpu_model,ram_gib,discos\n")
	_, err := ReadAll(path)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestReadAllZeroByteFileIsEmpty(t *testing.T) {
	path := writeFile(t, "inv.csv", "")
	_, err := ReadAll(path)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestReadAllShortRowOmitsTrailingFields(t *testing.T) {
	path := writeFile(t, "inv.csv", "\ufeffcodigo,cpu_model,ram_gib,discos\nPC010,Intel Atom\n\n")
	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, ok := records[0].Get(FieldRAMGiB)
	assert.False(t, ok)
	codigo, ok := records[0].Get(FieldCodigo)
	assert.True(t, ok, "BOM must not leak into the first header name")
	assert.Equal(t, "PC010", codigo)
}

func TestReadAllXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"codigo", "cpu_model", "ram_gib", "discos"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"PC100", "Intel Xeon @ 3.0GHz", "32", "sda:2T"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"PC101", "ARM Cortex", "4", "mmcblk0:32G"}))

	path := filepath.Join(t.TempDir(), "inv.xlsx")
	require.NoError(t, f.SaveAs(path))

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	cpu, _ := records[0].Get(FieldCPUModel)
	assert.Equal(t, "Intel Xeon @ 3.0GHz", cpu)
	codigo, _ := records[1].Get(FieldCodigo)
	assert.Equal(t, "PC101", codigo)
}

func TestReadCSVQuotedFields(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("codigo,discos\n\"PC,1\",\"sda:1T, sdb:2T\"\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]string{"codigo": "PC,1", "discos": "sda:1T, sdb:2T"}, records[0].Values())
}

func fieldNames(r Record) []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}
