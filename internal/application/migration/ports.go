package migration

import (
	"context"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
	"github.com/jhoicas/dte-migrator/internal/application/payment"
)

// Puertos de salida del pipeline. Las implementaciones concretas hablan
// JSON-RPC con el ERP; para tests se inyectan fakes. "No encontrado" es un
// resultado normal (ok=false), nunca un error: el error queda reservado para
// fallas de transporte o autenticación, que se propagan al manejador por
// registro. Ninguna resolución se cachea entre corridas: siempre se consulta
// el estado vivo para no crear duplicados en lotes largos.

// PartnerStore resuelve y crea partners remotos.
type PartnerStore interface {
	FindByRUT(ctx context.Context, rut string) (int, bool, error)
	Create(ctx context.Context, p dto.PartnerPayload) (int, error)
}

// ProductStore resuelve y crea productos remotos. La búsqueda por código
// acepta coincidencia en default_code o en barcode.
type ProductStore interface {
	FindByCode(ctx context.Context, code string) (int, bool, error)
	Create(ctx context.Context, p dto.ProductPayload) (int, error)
}

// InvoiceStore resuelve, crea y publica documentos remotos.
type InvoiceStore interface {
	FindByKey(ctx context.Context, key dto.InvoiceKey) (int, bool, error)
	Create(ctx context.Context, inv dto.InvoicePayload) (int, error)
	Post(ctx context.Context, id int) error
}

// PurchaseOrderStore crea órdenes de compra remotas.
type PurchaseOrderStore interface {
	Create(ctx context.Context, po dto.PurchaseOrderPayload) (int, error)
}

// RegionResolver mapea nombre de comuna a nombre de región.
type RegionResolver interface {
	FindRegionByCommune(name string) (string, bool)
}

// PaymentSettler ejecuta la secuencia crear → publicar → conciliar → verificar
// de un pago. Lo implementa payment.Sequencer.
type PaymentSettler interface {
	Settle(ctx context.Context, invoiceID int, p dto.PaymentPayload) (payment.Result, error)
}
