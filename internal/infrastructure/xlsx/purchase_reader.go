package xlsx

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dte-migrator/internal/domain/entity"
)

// El export de órdenes de compra trae cinco filas de título antes del
// encabezado real de la hoja principal.
const (
	sheetPurchaseOrders    = "Órdenes de compra"
	sheetPurchaseDetails   = "Detalle"
	purchaseHeaderRowIndex = 5
)

// ReadPurchaseOrders carga el libro de órdenes de compra y asocia cada línea
// de la hoja Detalle a su orden por número. Las órdenes salen en orden
// ascendente de número para que la corrida sea determinista.
func ReadPurchaseOrders(path string) ([]entity.PurchaseOrder, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir libro %s: %w", path, err)
	}
	defer f.Close()

	orderRows, err := readSheet(f, sheetPurchaseOrders, purchaseHeaderRowIndex)
	if err != nil {
		return nil, err
	}
	detailRows, err := readSheet(f, sheetPurchaseDetails, 0)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]*entity.PurchaseOrder, len(orderRows))
	var numbers []int
	for _, r := range orderRows {
		number, err := r.int("Nº OC")
		if err != nil {
			return nil, err
		}
		if _, dup := byNumber[number]; dup {
			continue
		}
		byNumber[number] = &entity.PurchaseOrder{
			Number:       number,
			RUT:          r.str("RUT"),
			Supplier:     r.str("Proveedor"),
			IssueDate:    r.str("Fecha emisión"),
			DeliveryDate: r.str("Fecha entrega"),
			PaymentTerm:  r.str("Forma de pago"),
			Author:       r.str("Realizada por"),
		}
		numbers = append(numbers, number)
	}

	for _, r := range detailRows {
		number, err := r.int("Nº OC")
		if err != nil {
			return nil, err
		}
		order, ok := byNumber[number]
		if !ok {
			continue
		}
		qty, err := r.dec("Cantidad")
		if err != nil {
			return nil, err
		}
		price, err := r.dec("Precio")
		if err != nil {
			return nil, err
		}
		order.Details = append(order.Details, entity.PurchaseOrderDetail{
			OrderNumber: number,
			Code:        r.str("Código"),
			Product:     r.str("Producto"),
			Description: r.str("Descripción"),
			Quantity:    qty,
			Price:       price,
		})
	}

	sort.Ints(numbers)
	out := make([]entity.PurchaseOrder, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, *byNumber[n])
	}
	return out, nil
}
