package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Los libros de lote codifican su periodo en el nombre:
// dtes_type33_2025_01.xlsx → 2025-01.
var filePeriodRe = regexp.MustCompile(`_(\d{4})_(\d{2})\.xlsx?$`)

// BatchFile es un libro de lote con su periodo derivado del nombre.
type BatchFile struct {
	Path   string
	Period string // "YYYY-MM"; vacío si el nombre no lo codifica
}

// ListBatchFiles recorre los directorios y devuelve los libros .xlsx/.xls en
// orden cronológico por periodo (los sin periodo van al final, por nombre).
// from y to acotan el rango en formato "YYYY-MM"; vacío = sin cota. El orden
// importa: documentos posteriores pueden referenciar partners creados por
// documentos anteriores de la misma corrida.
func ListBatchFiles(dirs []string, from, to string) ([]BatchFile, error) {
	var files []BatchFile
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("listar directorio %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
				continue
			}
			bf := BatchFile{Path: filepath.Join(dir, name), Period: filePeriod(name)}
			if bf.Period != "" {
				if from != "" && bf.Period < from {
					continue
				}
				if to != "" && bf.Period > to {
					continue
				}
			}
			files = append(files, bf)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		switch {
		case a.Period != "" && b.Period != "" && a.Period != b.Period:
			return a.Period < b.Period
		case a.Period == "" && b.Period != "":
			return false
		case a.Period != "" && b.Period == "":
			return true
		default:
			return a.Path < b.Path
		}
	})
	return files, nil
}

func filePeriod(name string) string {
	m := filePeriodRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2]
}
