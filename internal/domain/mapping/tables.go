// Package mapping traduce códigos categóricos del sistema fuente a los
// identificadores numéricos del sistema destino. Las tablas son datos, no
// lógica: cada despliegue usa su propio espacio de ids y puede reemplazarlas
// desde configuración.
package mapping

import (
	"fmt"

	"github.com/jhoicas/dte-migrator/internal/domain"
)

// DefaultPaymentTermID es el término de pago "pago inmediato" del destino.
// Un código desconocido o nulo nunca bloquea la creación de la factura:
// cae aquí de forma deliberada.
const DefaultPaymentTermID = 1

// Move types del sistema destino.
const (
	MoveTypeInvoice    = "out_invoice"
	MoveTypeCreditNote = "out_refund"
)

// Tables agrupa las tablas de mapeo de un despliegue.
type Tables struct {
	// PaymentTermsByID mapea el id de forma de pago de la fuente al término
	// de pago del destino.
	PaymentTermsByID map[int]int `json:"payment_terms_by_id"`
	// PaymentTermsByName hace lo mismo por texto (órdenes de compra traen la
	// forma de pago como string).
	PaymentTermsByName map[string]int `json:"payment_terms_by_name"`
	// RegionStateIDs mapea nombre de región al state_id del destino.
	RegionStateIDs map[string]int `json:"region_state_ids"`
	// MoveTypes mapea el código de tipo de DTE al move_type del destino.
	MoveTypes map[int]string `json:"move_types"`
}

// Default devuelve las tablas del despliegue de referencia.
func Default() Tables {
	return Tables{
		PaymentTermsByID: map[int]int{
			17879: 1,  // pago inmediato
			21644: 11, // cedido a factoring
			3253:  12, // cheque 30 días
			14881: 13, // cheque al día contra entrega
			3254:  14, // crédito 30 días
			14777: 15, // crédito 45 días
			14778: 16, // crédito 60 días
			15409: 17, // crédito 90 días
			16217: 18, // crédito 15 días
		},
		PaymentTermsByName: map[string]int{
			"Al contado":                   1,
			"Transferencia":                1,
			"Pagado con Transferencia":     1,
			"Cedido a Factoring":           12,
			"Cheque 30 dias":               13,
			"Cheque al día Contra entrega": 14,
			"Crédito 30 días":              15,
			"Crédito 45 días":              16,
			"Crédito 60 días":              17,
			"Crédito 90 días":              18,
			"Crédito 15 días":              19,
		},
		RegionStateIDs: map[string]int{
			"Arica y Parinacota": 1188,
			"Tarapacá":           1174,
			"Antofagasta":        1175,
			"Atacama":            1176,
			"Coquimbo":           1177,
			"Valparaíso":         1178,
			"Región del Libertador Gral. Bernardo O'Higgins":  1179,
			"Región del Maule":                                1180,
			"Región del Biobío":                               1181,
			"Región del Ñuble":                                1189,
			"Región de la Araucanía":                          1182,
			"Región de los Ríos":                              1187,
			"Región de los Lagos":                             1183,
			"Región Aisén del Gral. Carlos Ibañez del Campo":  1184,
			"Región de Magallanes y de la Antártica Chilena":  1185,
			"Región Metropolitana de Santiago":                1186,
		},
		MoveTypes: map[int]string{
			33: MoveTypeInvoice,    // factura electrónica
			34: MoveTypeInvoice,    // factura no afecta o exenta electrónica
			61: MoveTypeCreditNote, // nota de crédito electrónica
		},
	}
}

// PaymentTermID resuelve el término de pago por id de la fuente.
// Desconocido o cero → DefaultPaymentTermID.
func (t Tables) PaymentTermID(sourceID int) int {
	if id, ok := t.PaymentTermsByID[sourceID]; ok {
		return id
	}
	return DefaultPaymentTermID
}

// PaymentTermIDByName resuelve el término de pago por texto de la fuente.
// Desconocido o vacío → DefaultPaymentTermID.
func (t Tables) PaymentTermIDByName(name string) int {
	if id, ok := t.PaymentTermsByName[name]; ok {
		return id
	}
	return DefaultPaymentTermID
}

// RegionStateID resuelve el state_id del destino para una región. La ausencia
// no es error: algunos campos del destino aceptan no tener región.
func (t Tables) RegionStateID(region string) (int, bool) {
	id, ok := t.RegionStateIDs[region]
	return id, ok
}

// MoveType clasifica el tipo de DTE. Un código fuera de la tabla es
// ErrUnsupportedDocumentType, nunca un valor por defecto.
func (t Tables) MoveType(dteType int) (string, error) {
	mt, ok := t.MoveTypes[dteType]
	if !ok {
		return "", fmt.Errorf("%w: tipo DTE %d", domain.ErrUnsupportedDocumentType, dteType)
	}
	return mt, nil
}
