package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dte-migrator/internal/domain/entity"
)

// Hojas esperadas en un libro de DTEs. DteChild solo existe en los libros de
// notas de crédito; Communes/Cities/Payment_Types pueden faltar en libros
// antiguos (el registro global cubre la ausencia).
const (
	sheetDTEs         = "DTEs"
	sheetProducts     = "Products"
	sheetCustomers    = "Customers"
	sheetCommunes     = "Communes"
	sheetCities       = "Cities"
	sheetPaymentTypes = "Payment_Types"
	sheetDTEChild     = "DteChild"
)

// ReadBatch carga un libro de DTEs completo con todas sus hojas de referencia.
func ReadBatch(path string) (entity.Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return entity.Batch{}, fmt.Errorf("abrir libro %s: %w", path, err)
	}
	defer f.Close()

	var batch entity.Batch
	if batch.DTEs, err = readDTEs(f); err != nil {
		return entity.Batch{}, err
	}
	if batch.Lines, err = readLines(f); err != nil {
		return entity.Batch{}, err
	}
	if batch.Customers, err = readCustomers(f); err != nil {
		return entity.Batch{}, err
	}
	if batch.Communes, err = readCommunes(f); err != nil {
		return entity.Batch{}, err
	}
	if batch.Cities, err = readCities(f); err != nil {
		return entity.Batch{}, err
	}
	if batch.PaymentTypes, err = readPaymentTypes(f); err != nil {
		return entity.Batch{}, err
	}
	if batch.Children, err = readChildren(f); err != nil {
		return entity.Batch{}, err
	}
	return batch, nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

func readDTEs(f *excelize.File) ([]entity.DTE, error) {
	rows, err := readSheet(f, sheetDTEs, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.DTE, 0, len(rows))
	for _, r := range rows {
		var d entity.DTE
		if d.Folio, err = r.int("folio"); err != nil {
			return nil, err
		}
		if d.Type, err = r.int("type"); err != nil {
			return nil, err
		}
		if d.CustomerID, err = r.int("customer_id"); err != nil {
			return nil, err
		}
		if d.PaymentTypeID, err = r.int("type_payment_id"); err != nil {
			return nil, err
		}
		if d.Total, err = r.dec("total"); err != nil {
			return nil, err
		}
		d.StartDate = r.str("start_date")
		d.EndDate = r.str("end_date")
		d.SellerName = r.str("seller_name")
		d.Contact = r.str("contact")
		d.Comment = r.str("comment")
		d.Status = r.str("status")
		d.UpdatedAt = r.str("updated_at")
		out = append(out, d)
	}
	return out, nil
}

func readLines(f *excelize.File) ([]entity.ProductLine, error) {
	rows, err := readSheet(f, sheetProducts, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProductLine, 0, len(rows))
	for _, r := range rows {
		var l entity.ProductLine
		if l.DTEFolio, err = r.int("dte_folio"); err != nil {
			return nil, err
		}
		if l.Quantity, err = r.dec("quantity"); err != nil {
			return nil, err
		}
		if l.Price, err = r.dec("price"); err != nil {
			return nil, err
		}
		if l.UnitCost, err = r.dec("unit_cost"); err != nil {
			return nil, err
		}
		if l.Discount, err = r.dec("discount"); err != nil {
			return nil, err
		}
		l.Code = r.str("code")
		l.Name = r.str("name")
		l.Description = r.str("description")
		out = append(out, l)
	}
	return out, nil
}

func readCustomers(f *excelize.File) ([]entity.Customer, error) {
	rows, err := readSheet(f, sheetCustomers, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Customer, 0, len(rows))
	for _, r := range rows {
		var c entity.Customer
		if c.ID, err = r.int("id"); err != nil {
			return nil, err
		}
		if c.CommuneID, err = r.int("commune_id"); err != nil {
			return nil, err
		}
		if c.CityID, err = r.int("city_id"); err != nil {
			return nil, err
		}
		if c.PaymentTypeID, err = r.int("type_payment_id"); err != nil {
			return nil, err
		}
		c.RUT = r.str("rut")
		c.Name = r.str("name")
		c.CustomerType = r.str("type_customer")
		c.Address = r.str("address")
		c.BusinessActivity = r.str("business_activity")
		c.Email = r.str("email")
		c.Phone = r.str("phone")
		c.Mobile = r.str("mobile")
		c.Reference = r.str("reference")
		c.PaymentName = r.str("name_payment")
		c.PaymentPhone = r.str("phone_payment")
		c.BusinessContact = r.str("business_contact")
		c.CommercialEmail = r.str("email_commercial")
		out = append(out, c)
	}
	return out, nil
}

func readCommunes(f *excelize.File) ([]entity.Commune, error) {
	if !hasSheet(f, sheetCommunes) {
		return nil, nil
	}
	rows, err := readSheet(f, sheetCommunes, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Commune, 0, len(rows))
	for _, r := range rows {
		id, err := r.int("id")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Commune{ID: id, Name: r.str("name")})
	}
	return out, nil
}

func readCities(f *excelize.File) ([]entity.City, error) {
	if !hasSheet(f, sheetCities) {
		return nil, nil
	}
	rows, err := readSheet(f, sheetCities, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.City, 0, len(rows))
	for _, r := range rows {
		id, err := r.int("id")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.City{ID: id, Name: r.str("name")})
	}
	return out, nil
}

func readPaymentTypes(f *excelize.File) ([]entity.PaymentType, error) {
	if !hasSheet(f, sheetPaymentTypes) {
		return nil, nil
	}
	rows, err := readSheet(f, sheetPaymentTypes, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PaymentType, 0, len(rows))
	for _, r := range rows {
		id, err := r.int("id")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.PaymentType{ID: id, Name: r.str("name")})
	}
	return out, nil
}

func readChildren(f *excelize.File) ([]entity.DTEChild, error) {
	if !hasSheet(f, sheetDTEChild) {
		return nil, nil
	}
	rows, err := readSheet(f, sheetDTEChild, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.DTEChild, 0, len(rows))
	for _, r := range rows {
		folio, err := r.int("folio")
		if err != nil {
			return nil, err
		}
		parent, err := r.int("parent_folio")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.DTEChild{Folio: folio, ParentFolio: parent})
	}
	return out, nil
}
