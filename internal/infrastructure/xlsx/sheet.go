// Package xlsx carga los libros de cálculo exportados por el sistema fuente
// (DTEs, órdenes de compra, catálogos geográficos) usando excelize.
package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// row es una fila indexada por el encabezado de su hoja.
type row map[string]string

// readSheet devuelve las filas de la hoja como mapas encabezado → celda.
// headerRow es 0-indexado: los exports de órdenes de compra traen cinco filas
// de título antes del encabezado real.
func readSheet(f *excelize.File, sheet string, headerRow int) ([]row, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	if len(raw) <= headerRow {
		return nil, nil
	}
	header := raw[headerRow]
	var out []row
	for _, cells := range raw[headerRow+1:] {
		if emptyRow(cells) {
			continue
		}
		r := make(row, len(header))
		for i, h := range header {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if i < len(cells) {
				r[h] = strings.TrimSpace(cells[i])
			} else {
				r[h] = ""
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r row) str(key string) string { return r[key] }

func (r row) int(key string) (int, error) {
	s := r[key]
	if s == "" {
		return 0, nil
	}
	// Algunos exports serializan enteros como "123.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("celda %q no es numérica: %q", key, s)
	}
	return n, nil
}

func (r row) dec(key string) (decimal.Decimal, error) {
	s := r[key]
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("celda %q no es decimal: %q", key, s)
	}
	return d, nil
}
