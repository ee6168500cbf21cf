package entity

import "github.com/shopspring/decimal"

// Estados de pago del sistema fuente.
const (
	DTEStatusPaid = "paid"
)

// DTE representa un documento tributario electrónico exportado por el sistema
// fuente (factura electrónica, factura exenta o nota de crédito).
// El folio es el número secuencial dentro del tipo de documento; la identidad
// del documento en el sistema destino es la tripleta (folio, diario, move_type).
type DTE struct {
	Folio         int
	Type          int // código SII: 33, 34, 61
	CustomerID    int
	StartDate     string // DD-MM-YYYY en la fuente
	EndDate       string // fecha de vencimiento, DD-MM-YYYY
	PaymentTypeID int
	SellerName    string
	Contact       string
	Comment       string
	Status        string // DTEStatusPaid cuando la fuente lo marca pagado
	UpdatedAt     string // última modificación en la fuente (se usa como fecha de pago)
	Total         decimal.Decimal
}

// Paid indica si la fuente marca el documento como pagado.
func (d DTE) Paid() bool { return d.Status == DTEStatusPaid }

// DTEChild relaciona una nota de crédito con el folio del documento que
// reversa. Viene en la hoja DteChild del libro de notas de crédito.
type DTEChild struct {
	Folio       int // folio de la nota de crédito
	ParentFolio int // folio del documento original
}

// ProductLine es una línea de detalle de un DTE (hoja Products). Las líneas
// se asocian a su documento por DTEFolio.
type ProductLine struct {
	DTEFolio    int
	Code        string
	Name        string
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	UnitCost    decimal.Decimal
	Discount    decimal.Decimal // cero = sin descuento
}

// Batch agrupa todas las hojas de un libro de DTEs. Las referencias cruzadas
// (cliente, comuna, ciudad, tipo de pago, documento padre) se resuelven
// primero contra estas tablas y después contra los caches globales.
type Batch struct {
	DTEs         []DTE
	Lines        []ProductLine
	Customers    []Customer
	Communes     []Commune
	Cities       []City
	PaymentTypes []PaymentType
	Children     []DTEChild
}

// CustomerByID busca el cliente referenciado dentro del propio lote.
func (b Batch) CustomerByID(id int) (Customer, bool) {
	for _, c := range b.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// LinesForFolio devuelve las líneas de detalle del documento, en orden fuente.
func (b Batch) LinesForFolio(folio int) []ProductLine {
	var out []ProductLine
	for _, l := range b.Lines {
		if l.DTEFolio == folio {
			out = append(out, l)
		}
	}
	return out
}

// ParentFolio devuelve el folio del documento padre de una nota de crédito.
func (b Batch) ParentFolio(folio int) (int, bool) {
	for _, ch := range b.Children {
		if ch.Folio == folio {
			return ch.ParentFolio, true
		}
	}
	return 0, false
}

// PaymentTypeByID busca el tipo de pago dentro del propio lote.
func (b Batch) PaymentTypeByID(id int) (PaymentType, bool) {
	for _, pt := range b.PaymentTypes {
		if pt.ID == id {
			return pt, true
		}
	}
	return PaymentType{}, false
}
