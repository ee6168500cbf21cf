package territory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dte-migrator/internal/domain/territory"
)

func TestFindRegionByCommune_IgnoraMayusculasYTildes(t *testing.T) {
	r, err := territory.NewResolver()
	require.NoError(t, err)

	// Las tres variantes deben resolver a la misma región.
	for _, name := range []string{"antofagasta", "Antofagasta", "ANTOFAGASTA"} {
		region, ok := r.FindRegionByCommune(name)
		require.True(t, ok, "comuna %q", name)
		assert.Equal(t, "Antofagasta", region)
	}

	region, ok := r.FindRegionByCommune("nunoa") // Ñuñoa sin tilde ni eñe
	require.True(t, ok)
	assert.Equal(t, "Región Metropolitana de Santiago", region)

	region, ok = r.FindRegionByCommune("VALPARAÍSO")
	require.True(t, ok)
	assert.Equal(t, "Valparaíso", region)
}

func TestFindRegionByCommune_NoEncontrada(t *testing.T) {
	r, err := territory.NewResolver()
	require.NoError(t, err)

	region, ok := r.FindRegionByCommune("Comuna Inventada")
	assert.False(t, ok)
	assert.Empty(t, region)
}

// Si el dataset tuviera la misma comuna en dos regiones gana la primera;
// la ambigüedad está documentada, no se corrige.
func TestFindRegionByCommune_DuplicadaGanaLaPrimera(t *testing.T) {
	r := territory.NewResolverFromRegions([]territory.Region{
		{Nombre: "Primera", Provincias: []territory.Province{
			{Nombre: "P1", Comunas: []territory.Commune{{Nombre: "Repetida"}}},
		}},
		{Nombre: "Segunda", Provincias: []territory.Province{
			{Nombre: "P2", Comunas: []territory.Commune{{Nombre: "Repetida"}}},
		}},
	})

	region, ok := r.FindRegionByCommune("repetida")
	require.True(t, ok)
	assert.Equal(t, "Primera", region)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "nunoa", territory.Normalize("Ñuñoa"))
	assert.Equal(t, "valparaiso", territory.Normalize("VALPARAÍSO"))
	assert.Equal(t, "maria elena", territory.Normalize("María Elena"))
}
