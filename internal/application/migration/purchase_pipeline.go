package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
	"github.com/jhoicas/dte-migrator/internal/domain/entity"
	"github.com/jhoicas/dte-migrator/internal/domain/mapping"
	"github.com/jhoicas/dte-migrator/pkg/dates"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// PurchaseConfig son las constantes de despliegue para órdenes de compra.
type PurchaseConfig struct {
	UserID   int           // usuario remoto al que se asignan las órdenes
	Throttle time.Duration // pausa entre órdenes para no saturar el ERP
}

// PurchasePipeline migra órdenes de compra: resuelve el proveedor por RUT,
// mapea la forma de pago por texto y exige que todos los productos de la
// orden existan (todo o nada: una orden con líneas incompletas no se crea).
type PurchasePipeline struct {
	partners PartnerStore
	products ProductStore
	orders   PurchaseOrderStore
	tables   mapping.Tables
	cfg      PurchaseConfig
	log      *logger.Logger
}

// NewPurchasePipeline construye el pipeline de órdenes de compra.
func NewPurchasePipeline(
	partners PartnerStore,
	products ProductStore,
	orders PurchaseOrderStore,
	tables mapping.Tables,
	cfg PurchaseConfig,
	log *logger.Logger,
) *PurchasePipeline {
	return &PurchasePipeline{
		partners: partners,
		products: products,
		orders:   orders,
		tables:   tables,
		cfg:      cfg,
		log:      log,
	}
}

// Run procesa las órdenes en orden fuente; cada fallo se registra y el lote
// continúa. A diferencia del pipeline de DTEs, aquí nunca se crean partners
// ni productos: una referencia ausente omite la orden.
func (p *PurchasePipeline) Run(ctx context.Context, orders []entity.PurchaseOrder) Summary {
	runLog := p.log.With().Str("run_id", uuid.NewString()).Logger()

	var sum Summary
	for _, po := range orders {
		sum.Processed++
		created, err := p.processOrder(ctx, po)
		switch {
		case err != nil:
			sum.Failed++
			runLog.Error().Err(err).Int("oc", po.Number).Msg("orden fallida")
		case !created:
			sum.Skipped++
		default:
			sum.Created++
			if p.cfg.Throttle > 0 {
				time.Sleep(p.cfg.Throttle)
			}
		}
	}
	runLog.Info().
		Int("processed", sum.Processed).
		Int("created", sum.Created).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("órdenes de compra terminadas")
	return sum
}

func (p *PurchasePipeline) processOrder(ctx context.Context, po entity.PurchaseOrder) (bool, error) {
	partnerID, found, err := p.partners.FindByRUT(ctx, po.RUT)
	if err != nil {
		return false, err
	}
	if !found {
		p.log.Warn().Str("rut", po.RUT).Int("oc", po.Number).Msg("proveedor no existe, orden omitida")
		return false, nil
	}

	var lines []dto.PurchaseOrderLine
	for _, det := range po.Details {
		productID, found, err := p.products.FindByCode(ctx, det.Code)
		if err != nil {
			return false, err
		}
		if !found {
			p.log.Warn().Str("codigo", det.Code).Int("oc", po.Number).Msg("producto no existe, orden omitida")
			return false, nil
		}
		lines = append(lines, dto.PurchaseOrderLine{
			ProductID: productID,
			Quantity:  det.Quantity,
			PriceUnit: det.Price,
		})
	}
	if len(lines) != len(po.Details) || len(lines) == 0 {
		return false, nil
	}

	dateOrder, err := dates.Convert(po.IssueDate)
	if err != nil {
		return false, err
	}
	datePlanned, err := dates.Convert(po.DeliveryDate)
	if err != nil {
		return false, err
	}

	orderID, err := p.orders.Create(ctx, dto.PurchaseOrderPayload{
		PartnerID:     partnerID,
		DateOrder:     dateOrder,
		DatePlanned:   datePlanned,
		UserID:        p.cfg.UserID,
		Origin:        fmt.Sprintf("%d-%s", po.Number, po.Author),
		PaymentTermID: p.tables.PaymentTermIDByName(po.PaymentTerm),
		Lines:         lines,
	})
	if err != nil {
		return false, err
	}
	p.log.Info().Int("oc", po.Number).Int("order_id", orderID).Msg("orden de compra creada")
	return true, nil
}
