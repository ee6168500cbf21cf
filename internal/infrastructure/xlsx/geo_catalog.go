package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dte-migrator/internal/application/geo"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// CatalogSource implementa geo.CatalogSource sobre libros de cálculo: el
// archivo consolidado si existe, o el escaneo de los directorios de lotes.
type CatalogSource struct {
	consolidatedPath string
	scanDirs         []string
	log              *logger.Logger
}

// NewCatalogSource construye la fuente de catálogos geográficos.
func NewCatalogSource(consolidatedPath string, scanDirs []string, log *logger.Logger) *CatalogSource {
	return &CatalogSource{
		consolidatedPath: consolidatedPath,
		scanDirs:         scanDirs,
		log:              log,
	}
}

// Consolidated carga el archivo dedicado completo; ok=false si no existe.
func (s *CatalogSource) Consolidated(_ context.Context) (geo.Catalog, bool, error) {
	if s.consolidatedPath == "" {
		return geo.Catalog{}, false, nil
	}
	if _, err := os.Stat(s.consolidatedPath); os.IsNotExist(err) {
		return geo.Catalog{}, false, nil
	}
	catalog, err := readCatalog(s.consolidatedPath)
	if err != nil {
		return geo.Catalog{}, false, err
	}
	return catalog, true, nil
}

// Scan recorre los directorios de lotes en orden cronológico y devuelve un
// catálogo por libro. Un libro ilegible se registra y se salta: el escaneo es
// un mejor esfuerzo sobre archivos heterogéneos.
func (s *CatalogSource) Scan(_ context.Context) ([]geo.Catalog, error) {
	files, err := ListBatchFiles(s.scanDirs, "", "")
	if err != nil {
		return nil, err
	}
	var catalogs []geo.Catalog
	for _, bf := range files {
		catalog, err := readCatalog(bf.Path)
		if err != nil {
			s.log.Warn().Err(err).Str("file", bf.Path).Msg("libro omitido del escaneo geográfico")
			continue
		}
		catalogs = append(catalogs, catalog)
	}
	return catalogs, nil
}

func readCatalog(path string) (geo.Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return geo.Catalog{}, fmt.Errorf("abrir libro %s: %w", path, err)
	}
	defer f.Close()

	var catalog geo.Catalog
	if catalog.Communes, err = readCommunes(f); err != nil {
		return geo.Catalog{}, err
	}
	if catalog.Cities, err = readCities(f); err != nil {
		return geo.Catalog{}, err
	}
	return catalog, nil
}

// CatalogWriter implementa geo.CatalogWriter: escribe el registro completo a
// un libro consolidado con hojas Communes y Cities.
type CatalogWriter struct {
	path string
}

// NewCatalogWriter construye el escritor del archivo consolidado.
func NewCatalogWriter(path string) *CatalogWriter {
	return &CatalogWriter{path: path}
}

// WriteCatalog serializa el catálogo. El llamador (geo.Registry) trata
// cualquier error como advertencia, nunca como falla del pipeline.
func (w *CatalogWriter) WriteCatalog(_ context.Context, c geo.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("crear directorio de exportación: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeIDNameSheet(f, sheetCommunes, communeRows(c)); err != nil {
		return err
	}
	if err := writeIDNameSheet(f, sheetCities, cityRows(c)); err != nil {
		return err
	}
	// Excelize crea "Sheet1" por defecto; el consolidado solo lleva catálogos.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("guardar %s: %w", w.path, err)
	}
	return nil
}

func communeRows(c geo.Catalog) [][2]string {
	rows := make([][2]string, 0, len(c.Communes))
	for _, e := range c.Communes {
		rows = append(rows, [2]string{strconv.Itoa(e.ID), e.Name})
	}
	return rows
}

func cityRows(c geo.Catalog) [][2]string {
	rows := make([][2]string, 0, len(c.Cities))
	for _, e := range c.Cities {
		rows = append(rows, [2]string{strconv.Itoa(e.ID), e.Name})
	}
	return rows
}

func writeIDNameSheet(f *excelize.File, sheet string, rows [][2]string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("crear hoja %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"id", "name"}); err != nil {
		return fmt.Errorf("encabezado de %q: %w", sheet, err)
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		id, _ := strconv.Atoi(r[0])
		if err := f.SetSheetRow(sheet, cell, &[]any{id, r[1]}); err != nil {
			return fmt.Errorf("fila %d de %q: %w", i+2, sheet, err)
		}
	}
	return nil
}
