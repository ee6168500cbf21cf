// Package payment implementa la secuencia de pago y conciliación de un
// documento: Created → Posted → Reconciled → Verified. Es la parte
// financieramente sensible del migrador: ningún paso reintenta ni aplica
// parcialmente en silencio.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
	"github.com/jhoicas/dte-migrator/internal/domain"
	"github.com/jhoicas/dte-migrator/pkg/logger"
)

// PaymentStatePaid es el literal con que el destino marca un documento pagado.
const PaymentStatePaid = "paid"

// Store es el puerto de salida del secuenciador contra el ERP.
type Store interface {
	CreatePayment(ctx context.Context, p dto.PaymentPayload) (int, error)
	PostPayment(ctx context.Context, id int) error
	// UnreconciledReceivableLines devuelve los apuntes por cobrar sin
	// conciliar del documento.
	UnreconciledReceivableLines(ctx context.Context, invoiceID int) ([]int, error)
	// PaymentMoveLines devuelve los apuntes generados al publicar el pago.
	PaymentMoveLines(ctx context.Context, paymentID int) ([]int, error)
	Reconcile(ctx context.Context, lineIDs []int) error
	// InvoicePaymentInfo relee el estado de pago y el monto residual.
	InvoicePaymentInfo(ctx context.Context, invoiceID int) (state string, residual decimal.Decimal, err error)
}

// Result es el desenlace de un intento de pago.
type Result struct {
	PaymentID  int
	Reconciled bool
	Paid       bool
	// Warning es no fatal: hoy solo ErrReconciliationUnderrun, cuando hay
	// menos de dos apuntes y la conciliación simplemente no ocurre.
	Warning error
}

// Sequencer ejecuta la máquina de estados del pago.
type Sequencer struct {
	store Store
	log   *logger.Logger
}

// NewSequencer construye el secuenciador.
func NewSequencer(store Store, log *logger.Logger) *Sequencer {
	return &Sequencer{store: store, log: log}
}

// Settle crea el pago, lo publica, concilia sus apuntes contra los del
// documento y verifica el estado resultante.
//
// Cualquier error de un paso se propaga al caller sin reintento. La única
// condición tolerada es el underrun de conciliación (< 2 apuntes): el pago
// queda publicado sin conciliar y la condición se reporta como Warning.
func (s *Sequencer) Settle(ctx context.Context, invoiceID int, p dto.PaymentPayload) (Result, error) {
	paymentID, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.PostPayment(ctx, paymentID); err != nil {
		return Result{PaymentID: paymentID}, err
	}

	invoiceLines, err := s.store.UnreconciledReceivableLines(ctx, invoiceID)
	if err != nil {
		return Result{PaymentID: paymentID}, err
	}
	paymentLines, err := s.store.PaymentMoveLines(ctx, paymentID)
	if err != nil {
		return Result{PaymentID: paymentID}, err
	}

	result := Result{PaymentID: paymentID}
	lineIDs := append(append([]int{}, invoiceLines...), paymentLines...)
	if len(lineIDs) < 2 {
		s.log.Warn().
			Int("invoice_id", invoiceID).
			Int("payment_id", paymentID).
			Int("lines", len(lineIDs)).
			Msg("apuntes insuficientes, pago queda sin conciliar")
		result.Warning = domain.ErrReconciliationUnderrun
	} else {
		if err := s.store.Reconcile(ctx, lineIDs); err != nil {
			return result, err
		}
		result.Reconciled = true
	}

	state, residual, err := s.store.InvoicePaymentInfo(ctx, invoiceID)
	if err != nil {
		return result, err
	}
	result.Paid = state == PaymentStatePaid || residual.IsZero()
	return result, nil
}
