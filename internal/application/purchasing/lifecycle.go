// Package purchasing implementa el ciclo de vida de las órdenes de compra:
// creación con reconocimiento de deuda, transiciones de estado y recepción de mercancía.
package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	domaininv "github.com/jhoicas/retail-ops/internal/domain/inventory"
	"github.com/jhoicas/retail-ops/internal/domain/payment"
	"github.com/jhoicas/retail-ops/internal/domain/purchase"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/logger"
	"github.com/jhoicas/retail-ops/pkg/money"
)

// ReceptionReason motivo de los movimientos de entrada de una recepción.
const ReceptionReason = "Reception %s"

// Options políticas configurables del ciclo de vida.
type Options struct {
	// ReverseDebtOnCancel revierte la deuda pendiente con el proveedor al cancelar.
	// Por defecto la deuda reconocida al crear la orden se mantiene.
	ReverseDebtOnCancel bool
	// AllowDraftReception permite recibir una orden que sigue en borrador.
	AllowDraftReception bool
}

// OrderLineInput línea de una orden nueva.
type OrderLineInput struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// CreatePurchaseOrderInput entrada para crear una orden. AmountPaid es un abono inicial opcional.
type CreatePurchaseOrderInput struct {
	SupplierID string
	Lines      []OrderLineInput
	AmountPaid decimal.Decimal
}

// ReceiveInput entrada para recibir una orden. Quantities sobrescribe la cantidad
// recibida por producto; 0 omite la línea.
type ReceiveInput struct {
	OrderID    string
	Quantities map[string]int64
}

// OrderLifecycle máquina de estados de las órdenes de compra.
type OrderLifecycle struct {
	txRunner ports.TxRunner
	ledger   *inventory.StockLedger
	audit    ports.AuditRecorder
	log      *logger.Logger
	opts     Options
	now      func() time.Time
}

// NewOrderLifecycle construye el ciclo de vida de órdenes.
func NewOrderLifecycle(txRunner ports.TxRunner, ledger *inventory.StockLedger, audit ports.AuditRecorder, log *logger.Logger, opts Options) *OrderLifecycle {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OrderLifecycle{txRunner: txRunner, ledger: ledger, audit: audit, log: log, opts: opts, now: time.Now}
}

// Create registra la orden en borrador. Si queda saldo pendiente, la deuda con el proveedor
// se reconoce en la misma transacción.
func (o *OrderLifecycle) Create(ctx context.Context, in CreatePurchaseOrderInput, actor entity.Actor) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" || len(in.Lines) == 0 || in.AmountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	total := decimal.Zero
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 || l.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		// una línea por producto: las cantidades recibidas se indican por producto
		if seen[l.ProductID] {
			return nil, fmt.Errorf("producto %s repetido en la orden: %w", l.ProductID, domain.ErrInvalidInput)
		}
		seen[l.ProductID] = true
		total = total.Add(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))
	}
	if in.AmountPaid.GreaterThan(total.Add(payment.Epsilon)) {
		return nil, domain.ErrAmountExceedsDue
	}

	orderID := uuid.New().String()
	number := newOrderNumber(orderID, o.now())

	var order *entity.PurchaseOrder
	err := o.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		supplier, err := repos.Suppliers.GetForUpdate(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
		}
		lines := make([]entity.PurchaseOrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			p, err := repos.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
			}
			lines = append(lines, entity.PurchaseOrderLine{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
				Subtotal:    l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)),
			})
		}

		now := o.now()
		st := payment.Initial(total, in.AmountPaid)
		order = &entity.PurchaseOrder{
			ID:            orderID,
			Number:        number,
			SupplierID:    supplier.ID,
			SupplierName:  supplier.Name,
			Lines:         lines,
			TotalAmount:   total,
			AmountPaid:    st.AmountPaid,
			AmountDue:     st.AmountDue,
			PaymentStatus: st.PaymentStatus,
			Status:        entity.OrderStatusDraft,
			CreatedByID:   actor.ID,
			CreatedByName: actor.Name,
			CreatedAt:     now,
			UpdatedByID:   actor.ID,
			UpdatedByName: actor.Name,
			UpdatedAt:     now,
		}
		if st.AmountDue.IsPositive() {
			if err := repos.Suppliers.UpdateDebt(ctx, supplier.ID, supplier.DebtBalance.Add(st.AmountDue)); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	o.audit.Record(entity.AuditEntry{
		Type:   entity.AuditTypePurchase,
		Action: "create",
		Details: fmt.Sprintf("Orden %s a %s por %s, saldo pendiente %s",
			order.Number, order.SupplierName, money.Format(order.TotalAmount), money.Format(order.AmountDue)),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: order.CreatedAt,
	})
	return order, nil
}

// Transition cambia el estado de la orden (draft→ordered, draft|ordered→cancelled).
// received se delega a Receive con las cantidades pedidas.
func (o *OrderLifecycle) Transition(ctx context.Context, orderID, target string, actor entity.Actor) (*entity.PurchaseOrder, error) {
	switch target {
	case entity.OrderStatusReceived:
		return o.Receive(ctx, ReceiveInput{OrderID: orderID}, actor)
	case entity.OrderStatusOrdered, entity.OrderStatusCancelled:
	default:
		return nil, domain.ErrInvalidTransition
	}

	var result *entity.PurchaseOrder
	var reversed decimal.Decimal
	err := o.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		reversed = decimal.Zero
		order, err := repos.PurchaseOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := purchase.CanTransition(order.Status, target); err != nil {
			return err
		}
		var supplier *entity.Supplier
		if target == entity.OrderStatusCancelled && o.opts.ReverseDebtOnCancel && order.AmountDue.IsPositive() {
			supplier, err = repos.Suppliers.GetForUpdate(ctx, order.SupplierID)
			if err != nil {
				return err
			}
			if supplier == nil {
				return fmt.Errorf("proveedor %s: %w", order.SupplierID, domain.ErrNotFound)
			}
		}

		now := o.now()
		if supplier != nil {
			debt, clamped := payment.FloorSub(supplier.DebtBalance, order.AmountDue)
			if clamped {
				o.log.Warn().
					Str("order_id", order.ID).
					Str("supplier_id", supplier.ID).
					Msg("la reversión de deuda dejó al proveedor por debajo de cero; se recortó a cero")
			}
			if err := repos.Suppliers.UpdateDebt(ctx, supplier.ID, debt); err != nil {
				return err
			}
			reversed = order.AmountDue
		}
		order.Status = target
		switch target {
		case entity.OrderStatusOrdered:
			order.OrderedAt = &now
		case entity.OrderStatusCancelled:
			order.CancelledAt = &now
			order.CancelledByID = actor.ID
		}
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

	details := fmt.Sprintf("Orden %s pasó a %s", result.Number, result.Status)
	if reversed.IsPositive() {
		details += fmt.Sprintf(". Deuda revertida con %s: %s", result.SupplierName, money.Format(reversed))
	}
	o.audit.Record(entity.AuditEntry{
		Type:      entity.AuditTypePurchase,
		Action:    target,
		Details:   details,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: result.UpdatedAt,
	})
	return result, nil
}

// Receive ingresa la mercancía de la orden: un movimiento de entrada por línea, costo promedio
// ponderado actualizado y estado received. Una orden solo se recibe una vez: repetir devuelve
// domain.ErrAlreadyReceived sin tocar el stock.
func (o *OrderLifecycle) Receive(ctx context.Context, in ReceiveInput, actor entity.Actor) (*entity.PurchaseOrder, error) {
	if in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, q := range in.Quantities {
		if q < 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.PurchaseOrder
	var units int64
	err := o.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		units = 0

		// 1) Lecturas.
		order, err := repos.PurchaseOrders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := purchase.CanReceive(order.Status, o.opts.AllowDraftReception); err != nil {
			return err
		}
		ordered := make(map[string]int64, len(order.Lines))
		for _, l := range order.Lines {
			ordered[l.ProductID] += l.Quantity
		}
		for productID, q := range in.Quantities {
			orderedQty, ok := ordered[productID]
			if !ok {
				return fmt.Errorf("producto %s no pertenece a la orden: %w", productID, domain.ErrInvalidInput)
			}
			if q > orderedQty {
				return fmt.Errorf("producto %s: se recibirían %d de %d pedidas: %w", productID, q, orderedQty, domain.ErrInvalidInput)
			}
		}
		products := make(map[string]*entity.Product, len(order.Lines))
		for _, l := range order.Lines {
			if _, ok := products[l.ProductID]; ok {
				continue
			}
			p, err := repos.Products.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
			}
			products[l.ProductID] = p
		}

		// 2) Escrituras.
		now := o.now()
		reason := fmt.Sprintf(ReceptionReason, order.Number)
		overridden := make(map[string]bool, len(in.Quantities))
		for i := range order.Lines {
			line := &order.Lines[i]
			qty := line.Quantity
			if q, ok := in.Quantities[line.ProductID]; ok {
				// órdenes antiguas pueden repetir producto: el valor indicado se aplica una sola vez
				qty = q
				if overridden[line.ProductID] {
					qty = 0
				}
				overridden[line.ProductID] = true
			}
			if qty == 0 {
				continue
			}
			p := products[line.ProductID]
			cost := domaininv.WeightedCost(p.StockOnHand, p.PurchasePrice, qty, line.UnitCost)
			if err := repos.Products.UpdateCost(ctx, p.ID, cost); err != nil {
				return err
			}
			p.PurchasePrice = cost
			if _, err := o.ledger.ApplyInTx(ctx, repos, p, inventory.ApplyMovementInput{
				ProductID: p.ID,
				Type:      entity.MovementEntry,
				Quantity:  qty,
				Reason:    reason,
				Reference: order.ID,
			}, actor, now); err != nil {
				return err
			}
			line.ReceivedQuantity = qty
			units += qty
		}
		order.Status = entity.OrderStatusReceived
		order.ReceivedAt = &now
		order.ReceivedByID = actor.ID
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

	o.audit.Record(entity.AuditEntry{
		Type:      entity.AuditTypePurchase,
		Action:    "receive",
		Details:   fmt.Sprintf("Orden %s recibida: %s unidades de %s", result.Number, money.Units(units), result.SupplierName),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: *result.ReceivedAt,
	})
	return result, nil
}

// GetOrder obtiene una orden por ID.
func (o *OrderLifecycle) GetOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := o.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		v, err := repos.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
		order = v
		return nil
	})
	return order, err
}

// newOrderNumber número legible de la orden: OC-AAAAMMDD-XXXXXXXX.
func newOrderNumber(id string, at time.Time) string {
	return fmt.Sprintf("OC-%s-%s", at.Format("20060102"), strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8]))
}
