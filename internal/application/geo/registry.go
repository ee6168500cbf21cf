// Package geo mantiene el cache en memoria de comunas y ciudades. Se
// construye explícitamente y se inyecta en los pipelines (sin singletons);
// una vez inicializado es de solo lectura y seguro para lecturas concurrentes.
package geo

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/dte-migrator/internal/domain/entity"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// Catalog agrupa las entidades geográficas de una fuente (un libro de lote o
// el archivo consolidado).
type Catalog struct {
	Communes []entity.Commune
	Cities   []entity.City
}

// CatalogSource abstrae de dónde salen los catálogos geográficos.
type CatalogSource interface {
	// Consolidated carga el archivo consolidado completo. ok=false indica que
	// el archivo dedicado no existe y hay que recurrir al escaneo.
	Consolidated(ctx context.Context) (Catalog, bool, error)
	// Scan recorre los libros de lote configurados y devuelve un catálogo por
	// libro, en el orden de los archivos.
	Scan(ctx context.Context) ([]Catalog, error)
}

// CatalogWriter serializa el registro completo a un archivo consolidado.
type CatalogWriter interface {
	WriteCatalog(ctx context.Context, c Catalog) error
}

// Registry es el cache de comunas y ciudades del proceso.
type Registry struct {
	source      CatalogSource
	log         *logger.Logger
	communes    map[int]entity.Commune
	cities      map[int]entity.City
	initialized bool
}

// NewRegistry construye un registro vacío; Initialize lo llena.
func NewRegistry(source CatalogSource, log *logger.Logger) *Registry {
	return &Registry{
		source:   source,
		log:      log,
		communes: make(map[int]entity.Commune),
		cities:   make(map[int]entity.City),
	}
}

// Initialize carga el registro. Idempotente: la segunda llamada tras una
// carga exitosa no hace nada.
//
// Con archivo consolidado gana la última escritura por id (el archivo es la
// fuente canónica). En modo escaneo gana el primer id visto: un duplicado
// posterior puede venir formateado distinto y no debe pisar al original.
func (r *Registry) Initialize(ctx context.Context) error {
	if r.initialized {
		return nil
	}

	catalog, ok, err := r.source.Consolidated(ctx)
	if err != nil {
		return err
	}
	if ok {
		for _, c := range catalog.Communes {
			r.communes[c.ID] = c
		}
		for _, c := range catalog.Cities {
			r.cities[c.ID] = c
		}
	} else {
		catalogs, err := r.source.Scan(ctx)
		if err != nil {
			return err
		}
		for _, cat := range catalogs {
			for _, c := range cat.Communes {
				if _, exists := r.communes[c.ID]; !exists {
					r.communes[c.ID] = c
				}
			}
			for _, c := range cat.Cities {
				if _, exists := r.cities[c.ID]; !exists {
					r.cities[c.ID] = c
				}
			}
		}
	}

	r.initialized = true
	r.log.Info().
		Int("communes", len(r.communes)).
		Int("cities", len(r.cities)).
		Msg("registro geográfico inicializado")
	return nil
}

// CommuneByID busca una comuna por id.
func (r *Registry) CommuneByID(id int) (entity.Commune, bool) {
	c, ok := r.communes[id]
	return c, ok
}

// CityByID busca una ciudad por id.
func (r *Registry) CityByID(id int) (entity.City, bool) {
	c, ok := r.cities[id]
	return c, ok
}

// CommuneByName busca por nombre exacto sin distinguir mayúsculas. Si hubiera
// nombres duplicados gana el de menor id.
func (r *Registry) CommuneByName(name string) (entity.Commune, bool) {
	for _, c := range sortedCommunes(r.communes) {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return entity.Commune{}, false
}

// CityByName busca por nombre exacto sin distinguir mayúsculas.
func (r *Registry) CityByName(name string) (entity.City, bool) {
	for _, c := range sortedCities(r.cities) {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return entity.City{}, false
}

// Export escribe el registro completo al archivo consolidado. Es un artefacto
// lateral de mejor esfuerzo: un fallo se registra y jamás se propaga al
// pipeline.
func (r *Registry) Export(ctx context.Context, w CatalogWriter) {
	catalog := Catalog{
		Communes: sortedCommunes(r.communes),
		Cities:   sortedCities(r.cities),
	}
	if err := w.WriteCatalog(ctx, catalog); err != nil {
		r.log.Warn().Err(err).Msg("exportar catálogo geográfico")
		return
	}
	r.log.Info().
		Int("communes", len(catalog.Communes)).
		Int("cities", len(catalog.Cities)).
		Msg("catálogo geográfico exportado")
}

func sortedCommunes(m map[int]entity.Commune) []entity.Commune {
	out := make([]entity.Commune, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedCities(m map[int]entity.City) []entity.City {
	out := make([]entity.City, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
