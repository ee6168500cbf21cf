package odoo

import (
	"context"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
)

const modelProduct = "product.product"

// ProductService resuelve y crea productos (product.product).
type ProductService struct {
	client *Client
}

// NewProductService construye el servicio.
func NewProductService(client *Client) *ProductService {
	return &ProductService{client: client}
}

// FindByCode busca por código interno o por código de barras; cualquiera de
// los dos cuenta como coincidencia.
func (s *ProductService) FindByCode(ctx context.Context, code string) (int, bool, error) {
	ids, err := s.client.Search(ctx, modelProduct, []any{
		"|",
		[]any{"default_code", "=", code},
		[]any{"barcode", "=", code},
	}, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// Create crea el producto con los campos por defecto del migrador.
func (s *ProductService) Create(ctx context.Context, p dto.ProductPayload) (int, error) {
	values := map[string]any{
		"name":           p.Name,
		"default_code":   p.DefaultCode,
		"list_price":     p.ListPrice.InexactFloat64(),
		"standard_price": p.StandardPrice.InexactFloat64(),
		"is_storable":    p.Storable,
	}
	if p.DescriptionSale != "" {
		values["description_sale"] = p.DescriptionSale
	}
	return s.client.Create(ctx, modelProduct, values)
}
