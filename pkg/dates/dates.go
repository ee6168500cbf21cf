// Package dates convierte fechas entre el formato de los exports fuente
// (DD-MM-YYYY) y el formato ISO que espera el sistema destino (YYYY-MM-DD).
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	sourceLayout = "02-01-2006"
	targetLayout = "2006-01-02"
)

// Convert transforma DD-MM-YYYY en YYYY-MM-DD.
func Convert(ddmmyyyy string) (string, error) {
	t, err := time.Parse(sourceLayout, ddmmyyyy)
	if err != nil {
		return "", fmt.Errorf("fecha fuente inválida %q: %w", ddmmyyyy, err)
	}
	return t.Format(targetLayout), nil
}

// ConvertOrEmpty convierte y devuelve vacío si la fecha fuente viene vacía.
func ConvertOrEmpty(ddmmyyyy string) (string, error) {
	if ddmmyyyy == "" {
		return "", nil
	}
	return Convert(ddmmyyyy)
}

// ConvertTimestamp convierte un timestamp fuente ("DD-MM-YYYY" con hora
// opcional) quedándose solo con la fecha.
func ConvertTimestamp(ts string) (string, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(ts), " ")
	return Convert(datePart)
}
