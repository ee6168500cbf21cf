package odoo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dte-migrator/internal/application/dto"
)

const (
	modelPayment  = "account.payment"
	modelMoveLine = "account.move.line"
	modelJournal  = "account.journal"
)

// PaymentService implementa el puerto del secuenciador de pagos.
type PaymentService struct {
	client *Client
}

// NewPaymentService construye el servicio.
func NewPaymentService(client *Client) *PaymentService {
	return &PaymentService{client: client}
}

// CreatePayment crea un pago entrante en borrador.
func (s *PaymentService) CreatePayment(ctx context.Context, p dto.PaymentPayload) (int, error) {
	return s.client.Create(ctx, modelPayment, map[string]any{
		"payment_type": p.PaymentType,
		"partner_type": p.PartnerType,
		"partner_id":   p.PartnerID,
		"amount":       p.Amount.InexactFloat64(),
		"currency_id":  p.CurrencyID,
		"journal_id":   p.JournalID,
		"date":         p.Date,
	})
}

// PostPayment publica el pago (borrador → confirmado).
func (s *PaymentService) PostPayment(ctx context.Context, id int) error {
	return s.client.Invoke(ctx, modelPayment, "action_post", []any{[]int{id}})
}

// UnreconciledReceivableLines devuelve los apuntes por cobrar sin conciliar
// del documento.
func (s *PaymentService) UnreconciledReceivableLines(ctx context.Context, invoiceID int) ([]int, error) {
	return s.client.Search(ctx, modelMoveLine, []any{
		[]any{"move_id", "=", invoiceID},
		[]any{"account_type", "=", "asset_receivable"},
		[]any{"reconciled", "=", false},
	}, 0)
}

// PaymentMoveLines devuelve los apuntes por cobrar generados al publicar el
// propio pago.
func (s *PaymentService) PaymentMoveLines(ctx context.Context, paymentID int) ([]int, error) {
	return s.client.Search(ctx, modelMoveLine, []any{
		[]any{"payment_id", "=", paymentID},
		[]any{"account_type", "=", "asset_receivable"},
		[]any{"reconciled", "=", false},
	}, 0)
}

// Reconcile concilia el conjunto de apuntes (factura + pago).
func (s *PaymentService) Reconcile(ctx context.Context, lineIDs []int) error {
	return s.client.Invoke(ctx, modelMoveLine, "reconcile", []any{lineIDs})
}

// InvoicePaymentInfo relee estado de pago y residual del documento.
func (s *PaymentService) InvoicePaymentInfo(ctx context.Context, invoiceID int) (string, decimal.Decimal, error) {
	records, err := s.client.Read(ctx, modelMove, []int{invoiceID},
		[]string{"payment_state", "amount_residual"})
	if err != nil {
		return "", decimal.Zero, err
	}
	if len(records) == 0 {
		return "", decimal.Zero, fmt.Errorf("documento %d no se pudo releer", invoiceID)
	}
	state, _ := records[0]["payment_state"].(string)
	residual := decimal.Zero
	if v, ok := records[0]["amount_residual"].(float64); ok {
		residual = decimal.NewFromFloat(v)
	}
	return state, residual, nil
}

// FindJournalByName busca un diario de banco o caja por nombre (utilidad de
// configuración: permite descubrir el id del diario de pagos).
func (s *PaymentService) FindJournalByName(ctx context.Context, name string) (int, bool, error) {
	ids, err := s.client.Search(ctx, modelJournal, []any{
		[]any{"name", "=", name},
		[]any{"type", "in", []string{"bank", "cash"}},
	}, 1)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}
