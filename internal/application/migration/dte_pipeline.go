// Package migration contiene los pipelines de carga: resolución de
// referencias, decisión crear-o-reusar y ensamblado de payloads contra el ERP.
package migration

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
	"github.com/jhoicas/dte-migrator/internal/application/geo"
	"github.com/jhoicas/dte-migrator/internal/domain"
	"github.com/jhoicas/dte-migrator/internal/domain/entity"
	"github.com/jhoicas/dte-migrator/internal/domain/mapping"
	"github.com/jhoicas/dte-migrator/pkg/dates"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// Valores de los campos de identificación tributaria del destino.
const (
	taxpayerTypeVATAffected = "1" // afecto a IVA (partner principal)
	taxpayerTypeEndConsumer = "3" // consumidor final (contactos)

	contactFunctionPayment    = "Contacto de pago"
	contactFunctionCommercial = "Contacto comercial"
)

// Config son las constantes numéricas de un despliegue del destino.
type Config struct {
	JournalID        int // diario de ventas
	CurrencyID       int
	CountryID        int // Chile
	TaxIDTypeID      int // tipo de identificación RUT
	PaymentJournalID int // diario de banco para pagos
}

// Summary acumula el desenlace de una corrida de lote.
type Summary struct {
	Processed int
	Created   int
	Skipped   int // duplicados detectados por la clave compuesta
	Failed    int
}

// DTEPipeline orquesta la carga de un lote de DTEs: por cada registro
// resuelve todas sus referencias, decide crear-o-reusar partner y productos,
// arma el payload completo del documento, lo crea y lo publica. Los registros
// marcados pagados pasan además por el secuenciador de pagos.
//
// El procesamiento es secuencial registro a registro (documentos posteriores
// pueden referenciar partners creados por documentos anteriores de la misma
// corrida); solo las líneas de un mismo documento se resuelven en paralelo.
type DTEPipeline struct {
	partners PartnerStore
	products ProductStore
	invoices InvoiceStore
	settler  PaymentSettler
	registry *geo.Registry
	regions  RegionResolver
	tables   mapping.Tables
	cfg      Config
	log      *logger.Logger
}

// NewDTEPipeline construye el pipeline con todas sus dependencias inyectadas.
func NewDTEPipeline(
	partners PartnerStore,
	products ProductStore,
	invoices InvoiceStore,
	settler PaymentSettler,
	registry *geo.Registry,
	regions RegionResolver,
	tables mapping.Tables,
	cfg Config,
	log *logger.Logger,
) *DTEPipeline {
	return &DTEPipeline{
		partners: partners,
		products: products,
		invoices: invoices,
		settler:  settler,
		registry: registry,
		regions:  regions,
		tables:   tables,
		cfg:      cfg,
		log:      log,
	}
}

// Run procesa el lote en orden fuente. El fallo de un registro se registra y
// se continúa con el siguiente: un registro malo nunca aborta el lote.
func (p *DTEPipeline) Run(ctx context.Context, batch entity.Batch) Summary {
	runLog := p.log.With().Str("run_id", uuid.NewString()).Logger()
	lookup := geo.NewTiered(geo.BatchLookup{Batch: batch}, p.registry)

	var sum Summary
	for _, d := range batch.DTEs {
		sum.Processed++
		created, skipped, err := p.processDTE(ctx, batch, lookup, d)
		switch {
		case err != nil:
			sum.Failed++
			runLog.Error().Err(err).
				Int("folio", d.Folio).
				Int("tipo", d.Type).
				Msg("registro fallido")
		case skipped:
			sum.Skipped++
			runLog.Info().Int("folio", d.Folio).Msg("documento ya existe, omitido")
		case created:
			sum.Created++
		}
	}
	runLog.Info().
		Int("processed", sum.Processed).
		Int("created", sum.Created).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("lote terminado")
	return sum
}

func (p *DTEPipeline) processDTE(ctx context.Context, batch entity.Batch, lookup *geo.Tiered, d entity.DTE) (created, skipped bool, err error) {
	// La clasificación va antes de cualquier llamada remota: un código
	// desconocido jamás se clasifica por defecto.
	moveType, err := p.tables.MoveType(d.Type)
	if err != nil {
		return false, false, err
	}

	key := dto.InvoiceKey{
		DocumentNumber: strconv.Itoa(d.Folio),
		JournalID:      p.cfg.JournalID,
		MoveType:       moveType,
	}
	if _, found, err := p.invoices.FindByKey(ctx, key); err != nil {
		return false, false, err
	} else if found {
		return false, true, nil
	}

	customer, ok := batch.CustomerByID(d.CustomerID)
	if !ok {
		return false, false, fmt.Errorf("%w: cliente %d del folio %d", domain.ErrReferenceNotFound, d.CustomerID, d.Folio)
	}

	partnerID, err := p.resolvePartner(ctx, batch, lookup, customer)
	if err != nil {
		return false, false, err
	}

	// Las notas de crédito referencian a su documento padre; sin padre el
	// registro falla antes de cualquier creación.
	reversedEntryID := 0
	if moveType == mapping.MoveTypeCreditNote {
		reversedEntryID, err = p.resolveParent(ctx, batch, d)
		if err != nil {
			return false, false, err
		}
	}

	lines, err := p.resolveLines(ctx, batch.LinesForFolio(d.Folio), d.Folio)
	if err != nil {
		return false, false, err
	}

	invoiceDate, err := dates.Convert(d.StartDate)
	if err != nil {
		return false, false, err
	}
	dueDate, err := dates.ConvertOrEmpty(d.EndDate)
	if err != nil {
		return false, false, err
	}

	payload := dto.InvoicePayload{
		DocumentNumber:  strconv.Itoa(d.Folio),
		PartnerID:       partnerID,
		MoveType:        moveType,
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		Lines:           lines,
		PaymentTermID:   p.tables.PaymentTermID(d.PaymentTypeID),
		Ref:             fmt.Sprintf("%d - %s", d.Folio, d.SellerName),
		Narration:       fmt.Sprintf("Contacto: %s | Nota: %s", d.Contact, d.Comment),
		JournalID:       p.cfg.JournalID,
		ReversedEntryID: reversedEntryID,
	}

	invoiceID, err := p.invoices.Create(ctx, payload)
	if err != nil {
		return false, false, err
	}
	if err := p.invoices.Post(ctx, invoiceID); err != nil {
		return false, false, err
	}

	if d.Paid() {
		if err := p.settlePayment(ctx, d, invoiceID, partnerID); err != nil {
			return true, false, err
		}
	}
	return true, false, nil
}

// resolvePartner devuelve el id remoto del partner, creándolo si no existe.
// Un partner existente jamás se actualiza: la corrección de divergencias
// entre fuente y destino queda explícitamente fuera de alcance.
func (p *DTEPipeline) resolvePartner(ctx context.Context, batch entity.Batch, lookup *geo.Tiered, customer entity.Customer) (int, error) {
	if id, found, err := p.partners.FindByRUT(ctx, customer.RUT); err != nil {
		return 0, err
	} else if found {
		return id, nil
	}

	// El partner no existe: para crearlo hacen falta todas las referencias
	// geográficas. Ninguna se adivina.
	commune, ok := lookup.CommuneByID(customer.CommuneID)
	if !ok {
		return 0, fmt.Errorf("%w: comuna %d del cliente %s", domain.ErrReferenceNotFound, customer.CommuneID, customer.RUT)
	}
	city, ok := lookup.CityByID(customer.CityID)
	if !ok {
		return 0, fmt.Errorf("%w: ciudad %d del cliente %s", domain.ErrReferenceNotFound, customer.CityID, customer.RUT)
	}
	region, ok := p.regions.FindRegionByCommune(commune.Name)
	if !ok {
		return 0, fmt.Errorf("%w: región de la comuna %q", domain.ErrReferenceNotFound, commune.Name)
	}
	// Sin mapeo de región no hay partner: invariante intencional, no un
	// descuido.
	stateID, ok := p.tables.RegionStateID(region)
	if !ok {
		return 0, fmt.Errorf("%w: state_id de la región %q", domain.ErrReferenceNotFound, region)
	}

	if customer.PaymentTypeID != 0 {
		if _, ok := batch.PaymentTypeByID(customer.PaymentTypeID); !ok {
			return 0, fmt.Errorf("%w: tipo de pago %d del cliente %s", domain.ErrReferenceNotFound, customer.PaymentTypeID, customer.RUT)
		}
	}

	// Los contactos se crean primero como partners independientes y se
	// enlazan por id al padre.
	var childIDs []int
	if customer.PaymentName != "" {
		id, err := p.partners.Create(ctx, dto.PartnerPayload{
			Name:         customer.PaymentName,
			CompanyType:  "person",
			TaxpayerType: taxpayerTypeEndConsumer,
			Function:     contactFunctionPayment,
			Phone:        customer.PaymentPhone,
		})
		if err != nil {
			return 0, err
		}
		childIDs = append(childIDs, id)
	}
	if customer.BusinessContact != "" {
		id, err := p.partners.Create(ctx, dto.PartnerPayload{
			Name:         customer.BusinessContact,
			CompanyType:  "person",
			TaxpayerType: taxpayerTypeEndConsumer,
			Function:     contactFunctionCommercial,
			Email:        customer.CommercialEmail,
		})
		if err != nil {
			return 0, err
		}
		childIDs = append(childIDs, id)
	}

	return p.partners.Create(ctx, dto.PartnerPayload{
		Name:                 customer.Name,
		CompanyType:          customer.CustomerType,
		IdentificationTypeID: p.cfg.TaxIDTypeID,
		TaxpayerType:         taxpayerTypeVATAffected,
		CountryID:            p.cfg.CountryID,
		StateID:              stateID,
		City:                 commune.Name,
		Street:               customer.Address,
		Street2:              city.Name,
		ActivityDescription:  customer.BusinessActivity,
		VAT:                  customer.RUT,
		Email:                customer.Email,
		Phone:                customer.Phone,
		Mobile:               customer.Mobile,
		Comment:              customer.Reference,
		PaymentTermID:        p.tables.PaymentTermID(customer.PaymentTypeID),
		ChildIDs:             childIDs,
	})
}

// resolveParent localiza el documento remoto que reversa una nota de crédito.
func (p *DTEPipeline) resolveParent(ctx context.Context, batch entity.Batch, d entity.DTE) (int, error) {
	parentFolio, ok := batch.ParentFolio(d.Folio)
	if !ok {
		return 0, fmt.Errorf("%w: folio padre de la nota de crédito %d", domain.ErrReferenceNotFound, d.Folio)
	}
	parentID, found, err := p.invoices.FindByKey(ctx, dto.InvoiceKey{
		DocumentNumber: strconv.Itoa(parentFolio),
		JournalID:      p.cfg.JournalID,
		MoveType:       mapping.MoveTypeInvoice,
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%w: documento padre %d de la nota de crédito %d", domain.ErrReferenceNotFound, parentFolio, d.Folio)
	}
	return parentID, nil
}

// resolveLines resuelve las líneas del documento en paralelo (fan-out por
// producto, fan-in antes de ensamblar). Las líneas son independientes entre
// sí y del partner; el orden fuente se preserva por índice.
func (p *DTEPipeline) resolveLines(ctx context.Context, source []entity.ProductLine, folio int) ([]dto.InvoiceLine, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: folio %d sin líneas de detalle", domain.ErrReferenceNotFound, folio)
	}

	lines := make([]dto.InvoiceLine, len(source))
	g, gctx := errgroup.WithContext(ctx)
	for i, sl := range source {
		g.Go(func() error {
			productID, err := p.resolveProduct(gctx, sl)
			if err != nil {
				return err
			}
			name := sl.Description
			if name == "" {
				name = sl.Name
			}
			lines[i] = dto.InvoiceLine{
				ProductID: productID,
				Quantity:  sl.Quantity,
				PriceUnit: sl.Price,
				Name:      name,
				Discount:  sl.Discount,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}

// resolveProduct busca el producto por código y lo crea con campos por
// defecto si no existe. A lo sumo un producto remoto por código: la
// resolución siempre precede a la creación.
func (p *DTEPipeline) resolveProduct(ctx context.Context, l entity.ProductLine) (int, error) {
	if id, found, err := p.products.FindByCode(ctx, l.Code); err != nil {
		return 0, err
	} else if found {
		return id, nil
	}
	return p.products.Create(ctx, dto.ProductPayload{
		Name:            l.Name,
		DefaultCode:     l.Code,
		ListPrice:       l.Price,
		StandardPrice:   l.UnitCost,
		DescriptionSale: l.Description,
		Storable:        true,
	})
}

// settlePayment arma el pago con la fecha de última actualización del
// documento (la fuente no trae fecha de pago dedicada; aproximación
// documentada) y delega en el secuenciador.
func (p *DTEPipeline) settlePayment(ctx context.Context, d entity.DTE, invoiceID, partnerID int) error {
	date, err := dates.ConvertTimestamp(d.UpdatedAt)
	if err != nil {
		return err
	}
	result, err := p.settler.Settle(ctx, invoiceID, dto.PaymentPayload{
		PartnerID:   partnerID,
		Amount:      d.Total,
		PaymentType: "inbound",
		PartnerType: "customer",
		CurrencyID:  p.cfg.CurrencyID,
		JournalID:   p.cfg.PaymentJournalID,
		Date:        date,
	})
	if err != nil {
		return err
	}
	if result.Warning != nil {
		p.log.Warn().Err(result.Warning).Int("folio", d.Folio).Msg("pago publicado sin conciliar")
	}
	if !result.Paid {
		p.log.Warn().Int("folio", d.Folio).Int("payment_id", result.PaymentID).Msg("documento no quedó pagado tras conciliar")
	}
	return nil
}
