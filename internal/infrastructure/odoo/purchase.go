package odoo

import (
	"context"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
)

const modelPurchaseOrder = "purchase.order"

// PurchaseService crea órdenes de compra (purchase.order).
type PurchaseService struct {
	client *Client
}

// NewPurchaseService construye el servicio.
func NewPurchaseService(client *Client) *PurchaseService {
	return &PurchaseService{client: client}
}

// Create crea la orden con sus líneas como comandos de creación.
func (s *PurchaseService) Create(ctx context.Context, po dto.PurchaseOrderPayload) (int, error) {
	lines := make([]any, 0, len(po.Lines))
	for _, l := range po.Lines {
		lines = append(lines, []any{0, 0, map[string]any{
			"product_id":  l.ProductID,
			"product_qty": l.Quantity.InexactFloat64(),
			"price_unit":  l.PriceUnit.InexactFloat64(),
		}})
	}
	return s.client.Create(ctx, modelPurchaseOrder, map[string]any{
		"partner_id":      po.PartnerID,
		"date_order":      po.DateOrder,
		"date_planned":    po.DatePlanned,
		"user_id":         po.UserID,
		"origin":          po.Origin,
		"payment_term_id": po.PaymentTermID,
		"order_line":      lines,
	})
}
