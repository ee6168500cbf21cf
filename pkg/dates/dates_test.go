package dates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dte-migrator/pkg/dates"
)

func TestConvert(t *testing.T) {
	got, err := dates.Convert("25-01-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-25", got)

	_, err = dates.Convert("2025-01-25") // ya viene en ISO: formato fuente inválido
	assert.Error(t, err)

	_, err = dates.Convert("31-02-2025")
	assert.Error(t, err)
}

func TestConvertOrEmpty(t *testing.T) {
	got, err := dates.ConvertOrEmpty("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = dates.ConvertOrEmpty("01-12-2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", got)
}

func TestConvertTimestamp(t *testing.T) {
	got, err := dates.ConvertTimestamp("25-01-2025 14:32:07")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-25", got)

	got, err = dates.ConvertTimestamp("25-01-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-25", got)
}
