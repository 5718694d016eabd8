package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterCreatesHeaderAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "inventario_hw_min.csv")
	w := NewWriter(path)

	require.NoError(t, w.Append(NewRecord(
		FieldDiscos, "sda:500G | sdb:1T",
		FieldCodigo, "PC001",
		FieldCPUModel, "Intel Core i7",
		FieldRAMGiB, "16",
	)))
	require.NoError(t, w.Append(NewRecord(FieldCodigo, "PC002")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "codigo,cpu_model,ram_gib,discos\n"+
		"PC001,Intel Core i7,16,sda:500G | sdb:1T\n"+
		"PC002,,,\n", string(raw))

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestEnsureHeaderKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inv.csv")
	require.NoError(t, os.WriteFile(path, []byte("codigo\nX\n"), 0o644))

	require.NoError(t, NewWriter(path).EnsureHeader())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "codigo\nX\n", string(raw))
}
