package mapping

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load lee las tablas de un despliegue desde un archivo JSON. Las claves
// ausentes en el archivo conservan el valor por defecto, de modo que un
// despliegue puede redefinir solo la tabla que le cambia.
func Load(path string) (Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("leer tablas de mapeo: %w", err)
	}
	var override Tables
	if err := json.Unmarshal(raw, &override); err != nil {
		return Tables{}, fmt.Errorf("parsear tablas de mapeo: %w", err)
	}
	if len(override.PaymentTermsByID) > 0 {
		t.PaymentTermsByID = override.PaymentTermsByID
	}
	if len(override.PaymentTermsByName) > 0 {
		t.PaymentTermsByName = override.PaymentTermsByName
	}
	if len(override.RegionStateIDs) > 0 {
		t.RegionStateIDs = override.RegionStateIDs
	}
	if len(override.MoveTypes) > 0 {
		t.MoveTypes = override.MoveTypes
	}
	return t, nil
}
