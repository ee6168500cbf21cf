package xlsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestListBatchFiles_OrdenCronologico(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "dtes_type33_2025_03.xlsx")
	touch(t, dir, "dtes_type33_2024_12.xlsx")
	touch(t, dir, "dtes_type33_2025_01.xlsx")
	touch(t, dir, "notas.txt") // se ignora
	touch(t, dir, "consolidado.xlsx")

	files, err := ListBatchFiles([]string{dir}, "", "")
	require.NoError(t, err)
	require.Len(t, files, 4)

	var periods []string
	for _, f := range files {
		periods = append(periods, f.Period)
	}
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-03", ""}, periods,
		"cronológico primero, sin periodo al final")
}

func TestListBatchFiles_FiltroDeRango(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "dtes_type33_2024_11.xlsx")
	touch(t, dir, "dtes_type33_2025_01.xlsx")
	touch(t, dir, "dtes_type33_2025_02.xlsx")
	touch(t, dir, "dtes_type33_2025_06.xlsx")

	files, err := ListBatchFiles([]string{dir}, "2025-01", "2025-02")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "2025-01", files[0].Period)
	assert.Equal(t, "2025-02", files[1].Period)
}

// Los archivos sin periodo en el nombre no se filtran por rango: siempre
// entran al listado.
func TestListBatchFiles_SinPeriodoNoSeFiltra(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "extra.xlsx")
	touch(t, dir, "dtes_type33_2023_05.xlsx")

	files, err := ListBatchFiles([]string{dir}, "2025-01", "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Empty(t, files[0].Period)
}

func TestListBatchFiles_DirectorioInexistenteSeOmite(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "dtes_type61_2025_01.xlsx")

	files, err := ListBatchFiles([]string{"/no/existe", dir}, "", "")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFilePeriod(t *testing.T) {
	assert.Equal(t, "2025-01", filePeriod("dtes_type33_2025_01.xlsx"))
	assert.Equal(t, "2024-12", filePeriod("nc_2024_12.xls"))
	assert.Empty(t, filePeriod("consolidado.xlsx"))
	assert.Empty(t, filePeriod("dtes_2025_1.xlsx"))
}
