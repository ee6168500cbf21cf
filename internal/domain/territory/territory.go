// Package territory resuelve la región administrativa de una comuna chilena
// a partir del dataset estático región → provincia → comuna.
package territory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed territorio_chile.json
var territorioChile []byte

// Region es un nodo de primer nivel de la jerarquía territorial.
type Region struct {
	Nombre     string     `json:"nombre"`
	Provincias []Province `json:"provincias"`
}

// Province agrupa comunas dentro de una región.
type Province struct {
	Nombre  string    `json:"nombre"`
	Comunas []Commune `json:"comunas"`
}

// Commune es la hoja de la jerarquía. No comparte espacio de ids con las
// comunas de los lotes fuente: aquí solo importa el nombre.
type Commune struct {
	Nombre string `json:"nombre"`
}

// Resolver busca regiones por nombre de comuna sobre la jerarquía estática.
// Se construye una vez al inicio del proceso y es de solo lectura.
type Resolver struct {
	regions []Region
}

// NewResolver carga la jerarquía embebida.
func NewResolver() (*Resolver, error) {
	var regions []Region
	if err := json.Unmarshal(territorioChile, &regions); err != nil {
		return nil, fmt.Errorf("cargar jerarquía territorial: %w", err)
	}
	return &Resolver{regions: regions}, nil
}

// NewResolverFromRegions permite inyectar una jerarquía propia (tests).
func NewResolverFromRegions(regions []Region) *Resolver {
	return &Resolver{regions: regions}
}

// FindRegionByCommune devuelve el nombre de la región a la que pertenece la
// comuna. La comparación ignora mayúsculas y tildes. Si el dataset tuviera la
// misma comuna en dos regiones gana la primera; la ambigüedad está documentada
// y no se corrige.
func (r *Resolver) FindRegionByCommune(communeName string) (string, bool) {
	want := Normalize(communeName)
	for _, region := range r.regions {
		for _, province := range region.Provincias {
			for _, comuna := range province.Comunas {
				if Normalize(comuna.Nombre) == want {
					return region.Nombre, true
				}
			}
		}
	}
	return "", false
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize baja a minúsculas y elimina diacríticos ("Ñuñoa" → "nunoa").
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
