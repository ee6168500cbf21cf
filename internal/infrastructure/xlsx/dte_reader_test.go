package xlsx

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dte-migrator/internal/application/geo"
	"github.com/jhoicas/dte-migrator/internal/domain/entity"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// writeWorkbook arma un libro de prueba con las hojas indicadas.
func writeWorkbook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, cells := range rows {
			require.NoError(t, f.SetSheetRow(name, "A"+strconv.Itoa(i+1), &cells))
		}
	}
	f.DeleteSheet("Sheet1")
	require.NoError(t, f.SaveAs(path))
}

func TestReadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtes_type33_2025_01.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		sheetDTEs: {
			{"folio", "type", "customer_id", "start_date", "end_date", "type_payment_id", "seller_name", "contact", "comment", "status", "updated_at", "total"},
			// exports heredados serializan enteros como "33.0"
			{"1001", "33.0", "7", "15-01-2025", "", "2", "María", "", "", "paid", "25-01-2025 10:30:00", "119000,5"},
		},
		sheetProducts: {
			{"dte_folio", "code", "name", "description", "quantity", "price", "unit_cost", "discount"},
			{"1001", "SKU-001", "Cemento", "Cemento 25kg", "4", "25000", "18000", ""},
		},
		sheetCustomers: {
			{"id", "rut", "name", "type_customer", "address", "commune_id", "city_id", "business_activity", "email", "phone", "mobile", "reference", "type_payment_id", "name_payment", "phone_payment", "business_contact", "email_commercial"},
			{"7", "76.111.111-1", "Andes SpA", "company", "Av. X 1", "5", "9", "", "a@b.cl", "", "", "", "2", "", "", "", ""},
		},
	})

	batch, err := ReadBatch(path)
	require.NoError(t, err)

	require.Len(t, batch.DTEs, 1)
	d := batch.DTEs[0]
	assert.Equal(t, 1001, d.Folio)
	assert.Equal(t, 33, d.Type, "los enteros con sufijo .0 se toleran")
	assert.True(t, d.Paid())
	assert.Equal(t, "119000.5", d.Total.String(), "la coma decimal se normaliza")

	require.Len(t, batch.Lines, 1)
	assert.Equal(t, "SKU-001", batch.Lines[0].Code)
	assert.True(t, batch.Lines[0].Discount.IsZero())

	require.Len(t, batch.Customers, 1)
	assert.Equal(t, "76.111.111-1", batch.Customers[0].RUT)

	// Hojas de referencia ausentes no son error: el registro global las cubre.
	assert.Empty(t, batch.Communes)
	assert.Empty(t, batch.Cities)
	assert.Empty(t, batch.Children)
}

func TestReadBatch_FilasVaciasSeIgnoran(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtes_type33_2025_02.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		sheetDTEs: {
			{"folio", "type", "customer_id", "total"},
			{"", "", "", ""},
			{"1002", "34", "7", "5000"},
		},
		sheetProducts:  {{"dte_folio", "code", "name", "quantity", "price"}},
		sheetCustomers: {{"id", "rut", "name"}},
	})

	batch, err := ReadBatch(path)
	require.NoError(t, err)
	require.Len(t, batch.DTEs, 1)
	assert.Equal(t, 1002, batch.DTEs[0].Folio)
}

// El archivo consolidado que escribe el exportador debe poder releerse como
// catálogo completo en la corrida siguiente.
func TestCatalogWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo", "consolidado.xlsx")
	w := NewCatalogWriter(path)

	require.NoError(t, w.WriteCatalog(context.Background(), geo.Catalog{
		Communes: []entity.Commune{{ID: 5, Name: "Ñuñoa"}, {ID: 8, Name: "Antofagasta"}},
		Cities:   []entity.City{{ID: 9, Name: "Santiago"}},
	}))

	source := NewCatalogSource(path, nil, logger.Nop())
	catalog, ok, err := source.Consolidated(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, catalog.Communes, 2)
	assert.Equal(t, "Ñuñoa", catalog.Communes[0].Name)
	assert.Equal(t, 5, catalog.Communes[0].ID)
	require.Len(t, catalog.Cities, 1)
	assert.Equal(t, "Santiago", catalog.Cities[0].Name)
}

func TestCatalogSource_SinConsolidado(t *testing.T) {
	source := NewCatalogSource(filepath.Join(t.TempDir(), "no-existe.xlsx"), nil, logger.Nop())
	_, ok, err := source.Consolidated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "sin consolidado se recurre al escaneo")
}
