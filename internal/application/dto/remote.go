// Package dto define los payloads que la capa de aplicación envía al sistema
// remoto. Son estructuras de transporte: los casos de uso las arman y la
// infraestructura las serializa al formato del RPC.
package dto

import "github.com/shopspring/decimal"

// PartnerPayload es el payload de creación de un partner remoto.
// Los campos de identificación tributaria y país son constantes de despliegue.
type PartnerPayload struct {
	Name                 string
	CompanyType          string // company o person
	IdentificationTypeID int    // tipo de identificación (RUT)
	TaxpayerType         string // "1" afecto a IVA, "3" consumidor final
	CountryID            int
	StateID              int // 0 = sin región (solo permitido en contactos)
	City                 string
	Street               string
	Street2              string
	ActivityDescription  string
	VAT                  string // RUT
	Email                string
	Phone                string
	Mobile               string
	Comment              string
	Function             string // rol del contacto ("Contacto de pago", ...)
	PaymentTermID        int
	ChildIDs             []int
}

// ProductPayload es el payload de creación de un producto remoto.
type ProductPayload struct {
	Name            string
	DefaultCode     string
	ListPrice       decimal.Decimal
	StandardPrice   decimal.Decimal
	DescriptionSale string
	Storable        bool
}

// InvoiceKey es la clave compuesta de deduplicación de documentos:
// la tripleta, no solo el número, identifica el documento en el destino.
type InvoiceKey struct {
	DocumentNumber string
	JournalID      int
	MoveType       string
}

// InvoiceLine es una línea de factura ya resuelta (producto con id remoto).
type InvoiceLine struct {
	ProductID int
	Quantity  decimal.Decimal
	PriceUnit decimal.Decimal
	Name      string
	Discount  decimal.Decimal // cero = sin descuento, se omite del payload
}

// InvoicePayload es el payload de creación del documento.
type InvoicePayload struct {
	DocumentNumber  string
	PartnerID       int
	MoveType        string
	InvoiceDate     string // YYYY-MM-DD
	DueDate         string // YYYY-MM-DD
	Lines           []InvoiceLine
	PaymentTermID   int
	Ref             string
	Narration       string
	JournalID       int
	ReversedEntryID int // solo notas de crédito: id remoto del documento padre
}

// PaymentPayload es el payload de creación de un pago entrante.
type PaymentPayload struct {
	PartnerID   int
	Amount      decimal.Decimal
	PaymentType string // "inbound"
	PartnerType string // "customer"
	CurrencyID  int
	JournalID   int
	Date        string // YYYY-MM-DD
}

// PurchaseOrderLine es una línea de orden de compra ya resuelta.
type PurchaseOrderLine struct {
	ProductID int
	Quantity  decimal.Decimal
	PriceUnit decimal.Decimal
}

// PurchaseOrderPayload es el payload de creación de la orden de compra.
type PurchaseOrderPayload struct {
	PartnerID     int
	DateOrder     string // YYYY-MM-DD
	DatePlanned   string // YYYY-MM-DD
	UserID        int
	Origin        string // "númeroOC-autor"
	PaymentTermID int
	Lines         []PurchaseOrderLine
}
