package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrReferenceNotFound indica que una referencia del registro fuente
	// (cliente, comuna, ciudad, región, tipo de pago, documento padre) no
	// pudo resolverse. Es fatal para el registro, nunca para el lote.
	ErrReferenceNotFound = errors.New("referencia no encontrada")

	// ErrUnsupportedDocumentType indica un tipo de DTE fuera de la tabla de
	// mapeo. Nunca se clasifica por defecto: un move_type mal asignado tiene
	// consecuencias contables.
	ErrUnsupportedDocumentType = errors.New("tipo de documento no soportado")

	// ErrReconciliationUnderrun indica menos de dos apuntes contables para
	// conciliar. El pago queda publicado pero sin conciliar.
	ErrReconciliationUnderrun = errors.New("apuntes insuficientes para conciliar")

	// ErrSessionExpired indica que el servidor remoto rechazó la sesión
	// actual. La capa de autenticación reintenta una única vez.
	ErrSessionExpired = errors.New("sesión expirada")
)
