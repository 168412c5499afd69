package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una orden de compra.
const (
	OrderStatusDraft     = "draft"
	OrderStatusOrdered   = "ordered"
	OrderStatusReceived  = "received"
	OrderStatusCancelled = "cancelled"
)

// Estados de pago (compartidos por órdenes de compra y deudas de clientes).
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// PurchaseOrderLine línea de una orden de compra.
type PurchaseOrderLine struct {
	ProductID        string
	ProductName      string
	Quantity         int64
	UnitCost         decimal.Decimal
	Subtotal         decimal.Decimal
	ReceivedQuantity int64
}

// PurchaseOrder representa un pedido a proveedor.
// AmountDue = TotalAmount - AmountPaid; siempre se recalcula con payment.Apply.
type PurchaseOrder struct {
	ID            string
	Number        string
	SupplierID    string
	SupplierName  string
	Lines         []PurchaseOrderLine
	TotalAmount   decimal.Decimal
	AmountPaid    decimal.Decimal
	AmountDue     decimal.Decimal
	PaymentStatus string
	Status        string
	CreatedByID   string
	CreatedByName string
	CreatedAt     time.Time
	OrderedAt     *time.Time
	ReceivedAt    *time.Time
	ReceivedByID  string
	CancelledAt   *time.Time
	CancelledByID string
	UpdatedByID   string
	UpdatedByName string
	UpdatedAt     time.Time
}

// IsTerminal indica si la orden ya no admite transiciones.
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == OrderStatusReceived || o.Status == OrderStatusCancelled
}

// Clone devuelve una copia profunda.
func (o *PurchaseOrder) Clone() *PurchaseOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.Lines = append([]PurchaseOrderLine(nil), o.Lines...)
	c.OrderedAt = cloneTime(o.OrderedAt)
	c.ReceivedAt = cloneTime(o.ReceivedAt)
	c.CancelledAt = cloneTime(o.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
