// Package payment registra abonos sobre órdenes de compra y deudas de clientes.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/payment"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/logger"
	"github.com/jhoicas/retail-ops/pkg/money"
)

// PaymentLedger aplica abonos parciales. El saldo del documento y la deuda de la
// contraparte cambian en la misma transacción.
type PaymentLedger struct {
	txRunner ports.TxRunner
	audit    ports.AuditRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewPaymentLedger construye el libro de abonos.
func NewPaymentLedger(txRunner ports.TxRunner, audit ports.AuditRecorder, log *logger.Logger) *PaymentLedger {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentLedger{txRunner: txRunner, audit: audit, log: log, now: time.Now}
}

// PayPurchaseOrder abona a una orden de compra y descuenta lo mismo de la deuda con el proveedor
// (recortada en cero). Las órdenes canceladas no admiten abonos.
func (l *PaymentLedger) PayPurchaseOrder(ctx context.Context, orderID string, amount decimal.Decimal, actor entity.Actor) (*entity.PurchaseOrder, error) {
	if orderID == "" || !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	var (
		result  *entity.PurchaseOrder
		applied decimal.Decimal
	)
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		order, err := repos.PurchaseOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusCancelled {
			return domain.ErrInvalidTransition
		}
		supplier, err := repos.Suppliers.GetForUpdate(ctx, order.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("proveedor %s: %w", order.SupplierID, domain.ErrNotFound)
		}
		r, err := payment.Apply(order.TotalAmount, order.AmountPaid, amount)
		if err != nil {
			return err
		}

		applied = r.Applied
		now := l.now()
		debt, clamped := payment.FloorSub(supplier.DebtBalance, applied)
		if clamped {
			l.log.Warn().
				Str("order_id", order.ID).
				Str("supplier_id", supplier.ID).
				Str("debt_balance", supplier.DebtBalance.String()).
				Str("amount", applied.String()).
				Msg("abono mayor que la deuda registrada con el proveedor; se recortó a cero")
		}
		if err := repos.Suppliers.UpdateDebt(ctx, supplier.ID, debt); err != nil {
			return err
		}
		order.AmountPaid = r.AmountPaid
		order.AmountDue = r.AmountDue
		order.PaymentStatus = r.PaymentStatus
		order.UpdatedByID = actor.ID
		order.UpdatedByName = actor.Name
		order.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.audit.Record(entity.AuditEntry{
		Type:   entity.AuditTypePayment,
		Action: "purchase_order",
		Details: fmt.Sprintf("Abono de %s a la orden %s (%s). Saldo pendiente %s",
			money.Format(applied), result.Number, result.SupplierName, money.Format(result.AmountDue)),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: result.UpdatedAt,
	})
	return result, nil
}

// PayClientDebt abona a la deuda de un cliente. El abono no puede superar la deuda actual.
func (l *PaymentLedger) PayClientDebt(ctx context.Context, clientID string, amount decimal.Decimal, actor entity.Actor) (*entity.Client, error) {
	if clientID == "" || !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	var (
		result  *entity.Client
		applied decimal.Decimal
	)
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		client, err := repos.Clients.GetForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		r, err := payment.Apply(client.DebtBalance, decimal.Zero, amount)
		if err != nil {
			return err
		}
		applied = r.Applied
		if err := repos.Clients.UpdateBalances(ctx, client.ID, client.TotalPurchases, r.AmountDue); err != nil {
			return err
		}
		client.DebtBalance = r.AmountDue
		client.UpdatedAt = l.now()
		result = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.audit.Record(entity.AuditEntry{
		Type:   entity.AuditTypePayment,
		Action: "client_debt",
		Details: fmt.Sprintf("Abono de %s de %s. Deuda restante %s",
			money.Format(applied), result.Name, money.Format(result.DebtBalance)),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: result.UpdatedAt,
	})
	return result, nil
}
