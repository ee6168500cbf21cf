package odoo

import (
	"context"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
)

const modelMove = "account.move"

// InvoiceService resuelve, crea y publica documentos (account.move).
type InvoiceService struct {
	client *Client
}

// NewInvoiceService construye el servicio.
func NewInvoiceService(client *Client) *InvoiceService {
	return &InvoiceService{client: client}
}

// FindByKey busca por la clave compuesta (número, diario, move_type).
// El número solo no basta: folios se repiten entre tipos de documento.
func (s *InvoiceService) FindByKey(ctx context.Context, key dto.InvoiceKey) (int, bool, error) {
	ids, err := s.client.Search(ctx, modelMove, []any{
		[]any{"l10n_latam_document_number", "=", key.DocumentNumber},
		[]any{"journal_id", "=", key.JournalID},
		[]any{"move_type", "=", key.MoveType},
	}, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// Create crea el documento con sus líneas. Cada línea va como comando de
// creación (0, 0, valores); el descuento cero se omite.
func (s *InvoiceService) Create(ctx context.Context, inv dto.InvoicePayload) (int, error) {
	lines := make([]any, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lineValues := map[string]any{
			"product_id": l.ProductID,
			"quantity":   l.Quantity.InexactFloat64(),
			"price_unit": l.PriceUnit.InexactFloat64(),
		}
		if l.Name != "" {
			lineValues["name"] = l.Name
		}
		if !l.Discount.IsZero() {
			lineValues["discount"] = l.Discount.InexactFloat64()
		}
		lines = append(lines, []any{0, 0, lineValues})
	}

	values := map[string]any{
		"l10n_latam_document_number": inv.DocumentNumber,
		"partner_id":                 inv.PartnerID,
		"move_type":                  inv.MoveType,
		"invoice_date":               inv.InvoiceDate,
		"invoice_line_ids":           lines,
		"invoice_payment_term_id":    inv.PaymentTermID,
		"journal_id":                 inv.JournalID,
	}
	if inv.DueDate != "" {
		values["invoice_date_due"] = inv.DueDate
	}
	if inv.Ref != "" {
		values["ref"] = inv.Ref
	}
	if inv.Narration != "" {
		values["narration"] = inv.Narration
	}
	if inv.ReversedEntryID != 0 {
		values["reversed_entry_id"] = inv.ReversedEntryID
	}
	return s.client.Create(ctx, modelMove, values)
}

// Post publica el documento (action_post: de borrador a confirmado).
func (s *InvoiceService) Post(ctx context.Context, id int) error {
	return s.client.Invoke(ctx, modelMove, "action_post", []any{[]int{id}})
}

// Cancel cancela un documento (button_cancel).
func (s *InvoiceService) Cancel(ctx context.Context, id int) error {
	return s.client.Invoke(ctx, modelMove, "button_cancel", []any{[]int{id}})
}

// Details lee los campos básicos del documento (utilidad de verificación).
func (s *InvoiceService) Details(ctx context.Context, id int) (map[string]any, error) {
	records, err := s.client.Read(ctx, modelMove, []int{id},
		[]string{"name", "partner_id", "amount_total", "state", "invoice_date"})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
