package entity

// Customer representa un cliente del sistema fuente (hoja Customers).
// El RUT es la clave de deduplicación entre sistemas: nunca deben existir dos
// partners remotos con el mismo RUT.
type Customer struct {
	ID               int
	RUT              string
	Name             string
	CustomerType     string // company o person
	Address          string
	CommuneID        int
	CityID           int
	BusinessActivity string
	Email            string
	Phone            string
	Mobile           string
	Reference        string
	PaymentTypeID    int
	// Contactos opcionales: si vienen poblados se crean como partners hijos
	// antes que el partner principal.
	PaymentName     string // contacto de pago
	PaymentPhone    string
	BusinessContact string // contacto comercial
	CommercialEmail string
}
