package odoo

import (
	"context"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
)

const modelPartner = "res.partner"

// PartnerService resuelve y crea partners (res.partner).
type PartnerService struct {
	client *Client
}

// NewPartnerService construye el servicio.
func NewPartnerService(client *Client) *PartnerService {
	return &PartnerService{client: client}
}

// FindByRUT busca el partner por su RUT (campo vat). Ausencia no es error.
func (s *PartnerService) FindByRUT(ctx context.Context, rut string) (int, bool, error) {
	ids, err := s.client.Search(ctx, modelPartner, []any{
		[]any{"vat", "=", rut},
	}, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// Create crea el partner. Los campos vacíos se omiten del payload; state_id
// cero significa "sin región" y solo se permite en contactos.
func (s *PartnerService) Create(ctx context.Context, p dto.PartnerPayload) (int, error) {
	values := map[string]any{
		"name":         p.Name,
		"company_type": p.CompanyType,
	}
	if p.IdentificationTypeID != 0 {
		values["l10n_latam_identification_type_id"] = p.IdentificationTypeID
	}
	if p.TaxpayerType != "" {
		values["l10n_cl_sii_taxpayer_type"] = p.TaxpayerType
	}
	if p.CountryID != 0 {
		values["country_id"] = p.CountryID
	}
	if p.StateID != 0 {
		values["state_id"] = p.StateID
	}
	if p.City != "" {
		values["city"] = p.City
	}
	if p.Street != "" {
		values["street"] = p.Street
	}
	if p.Street2 != "" {
		values["street2"] = p.Street2
	}
	if p.ActivityDescription != "" {
		values["l10n_cl_activity_description"] = p.ActivityDescription
	}
	if p.VAT != "" {
		values["vat"] = p.VAT
	}
	if p.Email != "" {
		values["email"] = p.Email
	}
	if p.Phone != "" {
		values["phone"] = p.Phone
	}
	if p.Mobile != "" {
		values["mobile"] = p.Mobile
	}
	if p.Comment != "" {
		values["comment"] = p.Comment
	}
	if p.Function != "" {
		values["function"] = p.Function
	}
	if p.PaymentTermID != 0 {
		values["property_payment_term_id"] = p.PaymentTermID
	}
	if len(p.ChildIDs) > 0 {
		values["child_ids"] = []any{[]any{6, 0, p.ChildIDs}}
	}
	return s.client.Create(ctx, modelPartner, values)
}

// Details lee los campos básicos de un partner (utilidad de verificación).
func (s *PartnerService) Details(ctx context.Context, id int) (map[string]any, error) {
	records, err := s.client.Read(ctx, modelPartner, []int{id},
		[]string{"name", "vat", "email", "phone"})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
