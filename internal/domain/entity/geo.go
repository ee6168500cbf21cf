package entity

// Commune es una comuna chilena según la fuente, identificada por id numérico.
// Inmutable una vez cargada; la búsqueda secundaria por nombre no distingue
// mayúsculas.
type Commune struct {
	ID   int
	Name string
}

// City es una ciudad según la fuente. Mismo contrato que Commune.
type City struct {
	ID   int
	Name string
}

// PaymentType es una forma de pago del sistema fuente (hoja Payment_Types).
type PaymentType struct {
	ID   int
	Name string
}
