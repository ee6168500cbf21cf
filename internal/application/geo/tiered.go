package geo

import "github.com/jhoicas/dte-migrator/internal/domain/entity"

// Lookup es una fuente de entidades geográficas consultable por id.
type Lookup interface {
	CommuneByID(id int) (entity.Commune, bool)
	CityByID(id int) (entity.City, bool)
}

// Tiered consulta una lista ordenada de fuentes y se detiene en el primer
// acierto. El pipeline lo usa para mirar primero la hoja de referencia del
// propio lote y caer después al registro global.
type Tiered struct {
	sources []Lookup
}

// NewTiered construye el resolutor con las fuentes en orden de prioridad.
func NewTiered(sources ...Lookup) *Tiered {
	return &Tiered{sources: sources}
}

// CommuneByID devuelve la comuna de la primera fuente que la tenga.
func (t *Tiered) CommuneByID(id int) (entity.Commune, bool) {
	for _, s := range t.sources {
		if c, ok := s.CommuneByID(id); ok {
			return c, true
		}
	}
	return entity.Commune{}, false
}

// CityByID devuelve la ciudad de la primera fuente que la tenga.
func (t *Tiered) CityByID(id int) (entity.City, bool) {
	for _, s := range t.sources {
		if c, ok := s.CityByID(id); ok {
			return c, true
		}
	}
	return entity.City{}, false
}

// BatchLookup adapta las hojas de referencia de un lote a la interfaz Lookup.
type BatchLookup struct {
	Batch entity.Batch
}

// CommuneByID busca en la hoja Communes del lote.
func (b BatchLookup) CommuneByID(id int) (entity.Commune, bool) {
	for _, c := range b.Batch.Communes {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Commune{}, false
}

// CityByID busca en la hoja Cities del lote.
func (b BatchLookup) CityByID(id int) (entity.City, bool) {
	for _, c := range b.Batch.Cities {
		if c.ID == id {
			return c, true
		}
	}
	return entity.City{}, false
}
