package migration_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
	"github.com/jhoicas/dte-migrator/internal/application/geo"
	"github.com/jhoicas/dte-migrator/internal/application/migration"
	"github.com/jhoicas/dte-migrator/internal/application/payment"
	"github.com/jhoicas/dte-migrator/internal/domain"
	"github.com/jhoicas/dte-migrator/internal/domain/entity"
	"github.com/jhoicas/dte-migrator/internal/domain/mapping"
	"github.com/jhoicas/dte-migrator/internal/domain/territory"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// ── fakes de los puertos remotos ──

type fakePartners struct {
	byRUT   map[string]int
	created []dto.PartnerPayload
	nextID  int
}

func (f *fakePartners) FindByRUT(_ context.Context, rut string) (int, bool, error) {
	id, ok := f.byRUT[rut]
	return id, ok, nil
}

func (f *fakePartners) Create(_ context.Context, p dto.PartnerPayload) (int, error) {
	f.created = append(f.created, p)
	f.nextID++
	if p.VAT != "" {
		if f.byRUT == nil {
			f.byRUT = make(map[string]int)
		}
		f.byRUT[p.VAT] = f.nextID
	}
	return f.nextID, nil
}

type fakeProducts struct {
	byCode  map[string]int
	created []dto.ProductPayload
}

func (f *fakeProducts) FindByCode(_ context.Context, code string) (int, bool, error) {
	id, ok := f.byCode[code]
	return id, ok, nil
}

func (f *fakeProducts) Create(_ context.Context, p dto.ProductPayload) (int, error) {
	f.created = append(f.created, p)
	if f.byCode == nil {
		f.byCode = make(map[string]int)
	}
	id := 700 + len(f.created)
	f.byCode[p.DefaultCode] = id
	return id, nil
}

type fakeInvoices struct {
	existing  map[dto.InvoiceKey]int
	created   []dto.InvoicePayload
	posted    []int
	findCalls int
}

func (f *fakeInvoices) FindByKey(_ context.Context, key dto.InvoiceKey) (int, bool, error) {
	f.findCalls++
	id, ok := f.existing[key]
	return id, ok, nil
}

func (f *fakeInvoices) Create(_ context.Context, inv dto.InvoicePayload) (int, error) {
	f.created = append(f.created, inv)
	id := 900 + len(f.created)
	if f.existing == nil {
		f.existing = make(map[dto.InvoiceKey]int)
	}
	f.existing[dto.InvoiceKey{DocumentNumber: inv.DocumentNumber, JournalID: inv.JournalID, MoveType: inv.MoveType}] = id
	return id, nil
}

func (f *fakeInvoices) Post(_ context.Context, id int) error {
	f.posted = append(f.posted, id)
	return nil
}

type fakeSettler struct {
	calls []dto.PaymentPayload
}

func (f *fakeSettler) Settle(_ context.Context, invoiceID int, p dto.PaymentPayload) (payment.Result, error) {
	f.calls = append(f.calls, p)
	return payment.Result{PaymentID: 300, Reconciled: true, Paid: true}, nil
}

// ── armado del pipeline bajo prueba ──

type harness struct {
	partners *fakePartners
	products *fakeProducts
	invoices *fakeInvoices
	settler  *fakeSettler
	pipeline *migration.DTEPipeline
}

func deployCfg() migration.Config {
	return migration.Config{
		JournalID:        1,
		CurrencyID:       44,
		CountryID:        46,
		TaxIDTypeID:      4,
		PaymentJournalID: 7,
	}
}

func regions(t *testing.T) *territory.Resolver {
	t.Helper()
	r, err := territory.NewResolver()
	require.NoError(t, err)
	return r
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		partners: &fakePartners{},
		products: &fakeProducts{},
		invoices: &fakeInvoices{},
		settler:  &fakeSettler{},
	}
	h.pipeline = migration.NewDTEPipeline(
		h.partners,
		h.products,
		h.invoices,
		h.settler,
		geo.NewRegistry(nil, logger.Nop()),
		regions(t),
		mapping.Default(),
		deployCfg(),
		logger.Nop(),
	)
	return h
}

// lote mínimo: una factura afecta pagada, con cliente, línea y hojas de
// referencia geográfica completas.
func baseBatch() entity.Batch {
	return entity.Batch{
		DTEs: []entity.DTE{{
			Folio:         1001,
			Type:          33,
			CustomerID:    7,
			StartDate:     "15-01-2025",
			EndDate:       "14-02-2025",
			PaymentTypeID: 2,
			SellerName:    "María Soto",
			Contact:       "Pedro",
			Comment:       "entrega en bodega",
			Status:        entity.DTEStatusPaid,
			UpdatedAt:     "25-01-2025 10:30:00",
			Total:         decimal.NewFromInt(119000),
		}},
		Lines: []entity.ProductLine{{
			DTEFolio: 1001,
			Code:     "SKU-001",
			Name:     "Cemento 25kg",
			Quantity: decimal.NewFromInt(4),
			Price:    decimal.NewFromInt(25000),
		}},
		Customers: []entity.Customer{{
			ID:            7,
			RUT:           "76.111.111-1",
			Name:          "Constructora Andes SpA",
			CustomerType:  "company",
			Address:       "Av. Irarrázaval 1234",
			CommuneID:     5,
			CityID:        9,
			PaymentTypeID: 2,
			Email:         "pagos@andes.cl",
		}},
		Communes:     []entity.Commune{{ID: 5, Name: "Ñuñoa"}},
		Cities:       []entity.City{{ID: 9, Name: "Santiago"}},
		PaymentTypes: []entity.PaymentType{{ID: 2, Name: "30 días"}},
	}
}

// ── escenarios ──

// Con partner y producto ya existentes la corrida no crea ninguno de los dos:
// solo el documento, su publicación y el pago.
func TestRun_TodoExistenteSoloCreaDocumento(t *testing.T) {
	h := newHarness(t)
	h.partners.byRUT = map[string]int{"76.111.111-1": 41}
	h.products.byCode = map[string]int{"SKU-001": 88}

	sum := h.pipeline.Run(context.Background(), baseBatch())

	assert.Equal(t, migration.Summary{Processed: 1, Created: 1}, sum)
	assert.Empty(t, h.partners.created)
	assert.Empty(t, h.products.created)
	require.Len(t, h.invoices.created, 1)
	assert.Len(t, h.invoices.posted, 1)

	inv := h.invoices.created[0]
	assert.Equal(t, "1001", inv.DocumentNumber)
	assert.Equal(t, 41, inv.PartnerID)
	assert.Equal(t, mapping.MoveTypeInvoice, inv.MoveType)
	assert.Equal(t, "2025-01-15", inv.InvoiceDate)
	assert.Equal(t, "2025-02-14", inv.DueDate)
	assert.Equal(t, "1001 - María Soto", inv.Ref)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, 88, inv.Lines[0].ProductID)
	assert.Equal(t, "Cemento 25kg", inv.Lines[0].Name)

	require.Len(t, h.settler.calls, 1)
	assert.Equal(t, "2025-01-25", h.settler.calls[0].Date)
	assert.True(t, h.settler.calls[0].Amount.Equal(decimal.NewFromInt(119000)))
}

func TestRun_DocumentoExistenteSeOmite(t *testing.T) {
	h := newHarness(t)
	h.invoices.existing = map[dto.InvoiceKey]int{
		{DocumentNumber: "1001", JournalID: 1, MoveType: mapping.MoveTypeInvoice}: 950,
	}

	sum := h.pipeline.Run(context.Background(), baseBatch())

	assert.Equal(t, migration.Summary{Processed: 1, Skipped: 1}, sum)
	assert.Empty(t, h.invoices.created)
	assert.Empty(t, h.partners.created)
	assert.Empty(t, h.settler.calls)
}

// Volver a correr el mismo lote no duplica nada: la segunda pasada encuentra
// todo por clave natural.
func TestRun_SegundaCorridaIdempotente(t *testing.T) {
	h := newHarness(t)
	batch := baseBatch()

	first := h.pipeline.Run(context.Background(), batch)
	require.Equal(t, 1, first.Created)
	invoicesAfterFirst := len(h.invoices.created)
	partnersAfterFirst := len(h.partners.created)

	second := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, migration.Summary{Processed: 1, Skipped: 1}, second)
	assert.Len(t, h.invoices.created, invoicesAfterFirst)
	assert.Len(t, h.partners.created, partnersAfterFirst)
}

// Partner nuevo: primero los contactos como partners hijos, después el
// principal con la geografía resuelta y los hijos enlazados.
func TestRun_PartnerNuevoConContactos(t *testing.T) {
	h := newHarness(t)
	h.products.byCode = map[string]int{"SKU-001": 88}
	batch := baseBatch()
	batch.Customers[0].PaymentName = "Carla Rojas"
	batch.Customers[0].PaymentPhone = "+56911112222"
	batch.Customers[0].BusinessContact = "Luis Parra"
	batch.Customers[0].CommercialEmail = "luis@andes.cl"

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, 1, sum.Created)
	require.Len(t, h.partners.created, 3)

	pago := h.partners.created[0]
	assert.Equal(t, "Carla Rojas", pago.Name)
	assert.Equal(t, "Contacto de pago", pago.Function)

	comercial := h.partners.created[1]
	assert.Equal(t, "Luis Parra", comercial.Name)
	assert.Equal(t, "luis@andes.cl", comercial.Email)

	principal := h.partners.created[2]
	assert.Equal(t, "76.111.111-1", principal.VAT)
	assert.Equal(t, "Ñuñoa", principal.City)
	stateID, ok := mapping.Default().RegionStateID("Región Metropolitana de Santiago")
	require.True(t, ok)
	assert.Equal(t, stateID, principal.StateID)
	assert.Len(t, principal.ChildIDs, 2)
}

// Un código de documento desconocido falla en la clasificación, antes de
// tocar el sistema remoto.
func TestRun_TipoDesconocidoFallaSinLlamadasRemotas(t *testing.T) {
	h := newHarness(t)
	batch := baseBatch()
	batch.DTEs[0].Type = 99

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, migration.Summary{Processed: 1, Failed: 1}, sum)
	assert.Zero(t, h.invoices.findCalls)
	assert.Empty(t, h.partners.created)
	assert.Empty(t, h.invoices.created)
}

// Una nota de crédito sin documento padre localizable falla sin crear nada.
func TestRun_NotaDeCreditoSinPadreFalla(t *testing.T) {
	h := newHarness(t)
	h.partners.byRUT = map[string]int{"76.111.111-1": 41}
	batch := baseBatch()
	batch.DTEs[0].Type = 61
	batch.DTEs[0].Status = ""
	batch.Children = []entity.DTEChild{{Folio: 1001, ParentFolio: 880}}

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, migration.Summary{Processed: 1, Failed: 1}, sum)
	assert.Empty(t, h.invoices.created)
	assert.Empty(t, h.products.created)
}

// Nota de crédito con padre ya migrado: el documento sale con la referencia
// de reversa apuntando al id remoto del padre.
func TestRun_NotaDeCreditoEnlazaAlPadre(t *testing.T) {
	h := newHarness(t)
	h.partners.byRUT = map[string]int{"76.111.111-1": 41}
	h.products.byCode = map[string]int{"SKU-001": 88}
	h.invoices.existing = map[dto.InvoiceKey]int{
		{DocumentNumber: "880", JournalID: 1, MoveType: mapping.MoveTypeInvoice}: 950,
	}
	batch := baseBatch()
	batch.DTEs[0].Type = 61
	batch.DTEs[0].Status = ""
	batch.Children = []entity.DTEChild{{Folio: 1001, ParentFolio: 880}}

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, 1, sum.Created)
	require.Len(t, h.invoices.created, 1)
	assert.Equal(t, mapping.MoveTypeCreditNote, h.invoices.created[0].MoveType)
	assert.Equal(t, 950, h.invoices.created[0].ReversedEntryID)
	assert.Empty(t, h.settler.calls, "documento sin marca de pago no pasa por el secuenciador")
}

// Una comuna irresoluble hace fallar su registro, pero el lote continúa con
// los siguientes.
func TestRun_ComunaFaltanteFallaElRegistroNoElLote(t *testing.T) {
	h := newHarness(t)
	batch := baseBatch()
	// segundo documento con cliente de comuna desconocida
	batch.DTEs = append(batch.DTEs, entity.DTE{
		Folio:      1002,
		Type:       33,
		CustomerID: 8,
		StartDate:  "16-01-2025",
		Total:      decimal.NewFromInt(5000),
	})
	batch.Lines = append(batch.Lines, entity.ProductLine{
		DTEFolio: 1002, Code: "SKU-002", Name: "Arena", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(5000),
	})
	batch.Customers = append(batch.Customers, entity.Customer{
		ID: 8, RUT: "77.222.222-2", Name: "Cliente Sin Comuna", CustomerType: "company", CommuneID: 999, CityID: 9,
	})

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, migration.Summary{Processed: 2, Created: 1, Failed: 1}, sum)
	require.Len(t, h.invoices.created, 1)
	assert.Equal(t, "1001", h.invoices.created[0].DocumentNumber)
}

// El tipo de pago referenciado debe existir en la hoja del lote cuando viene
// uno distinto de cero.
func TestRun_TipoDePagoInexistenteFalla(t *testing.T) {
	h := newHarness(t)
	batch := baseBatch()
	batch.Customers[0].PaymentTypeID = 44 // no está en la hoja Payment_Types

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, migration.Summary{Processed: 1, Failed: 1}, sum)
	assert.Empty(t, h.partners.created)
}

func TestRun_DocumentoSinLineasFalla(t *testing.T) {
	h := newHarness(t)
	h.partners.byRUT = map[string]int{"76.111.111-1": 41}
	batch := baseBatch()
	batch.Lines = nil

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, migration.Summary{Processed: 1, Failed: 1}, sum)
	assert.Empty(t, h.invoices.created)
}

// Producto inexistente: se crea con sus valores por defecto antes de armar la
// línea.
func TestRun_ProductoNuevoSeCreaUnaVez(t *testing.T) {
	h := newHarness(t)
	h.partners.byRUT = map[string]int{"76.111.111-1": 41}
	batch := baseBatch()
	batch.DTEs[0].Status = ""

	sum := h.pipeline.Run(context.Background(), batch)

	assert.Equal(t, 1, sum.Created)
	require.Len(t, h.products.created, 1)
	created := h.products.created[0]
	assert.Equal(t, "SKU-001", created.DefaultCode)
	assert.True(t, created.Storable)
	require.Len(t, h.invoices.created, 1)
	assert.Equal(t, 701, h.invoices.created[0].Lines[0].ProductID)
}

// errPartners corta la búsqueda por RUT para verificar propagación de fallas
// de transporte.
type errPartners struct{ err error }

func (e errPartners) FindByRUT(context.Context, string) (int, bool, error) { return 0, false, e.err }
func (e errPartners) Create(context.Context, dto.PartnerPayload) (int, error) {
	return 0, e.err
}

func TestRun_ErrorDeTransporteCuentaComoFallo(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("conexión rechazada")
	h.pipeline = migration.NewDTEPipeline(
		errPartners{err: boom},
		h.products,
		h.invoices,
		h.settler,
		geo.NewRegistry(nil, logger.Nop()),
		regions(t),
		mapping.Default(),
		deployCfg(),
		logger.Nop(),
	)

	sum := h.pipeline.Run(context.Background(), baseBatch())
	assert.Equal(t, migration.Summary{Processed: 1, Failed: 1}, sum)
}

// Las claves compuestas de documentos distintos jamás colisionan aunque el
// folio se repita entre tipos.
func TestInvoiceKey_FolioRepetidoEntreTipos(t *testing.T) {
	a := dto.InvoiceKey{DocumentNumber: strconv.Itoa(500), JournalID: 1, MoveType: mapping.MoveTypeInvoice}
	b := dto.InvoiceKey{DocumentNumber: strconv.Itoa(500), JournalID: 1, MoveType: mapping.MoveTypeCreditNote}
	assert.NotEqual(t, a, b)

	_, err := mapping.Default().MoveType(99)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedDocumentType))
}
