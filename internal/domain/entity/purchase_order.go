package entity

import "github.com/shopspring/decimal"

// PurchaseOrder representa una orden de compra exportada por la fuente
// (hoja "Órdenes de compra"). Las líneas llegan por separado en la hoja
// Detalle y se asocian por número de orden.
type PurchaseOrder struct {
	Number       int
	RUT          string // RUT del proveedor
	Supplier     string
	IssueDate    string // DD-MM-YYYY
	DeliveryDate string // DD-MM-YYYY
	PaymentTerm  string // forma de pago en texto ("Crédito 30 días", ...)
	Author       string // "Realizada por"
	Details      []PurchaseOrderDetail
}

// PurchaseOrderDetail es una línea de la orden de compra.
type PurchaseOrderDetail struct {
	OrderNumber int
	Code        string
	Product     string
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}
