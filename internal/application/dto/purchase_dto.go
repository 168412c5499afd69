package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest línea de una orden de compra.
type PurchaseOrderLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
// AmountPaid es un abono inicial opcional.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id"`
	Lines      []PurchaseOrderLineRequest `json:"lines"`
	AmountPaid decimal.Decimal            `json:"amount_paid"`
}

// TransitionRequest body para POST /api/purchase-orders/:id/transition.
type TransitionRequest struct {
	Status string `json:"status"`
}

// ReceiveRequest body para POST /api/purchase-orders/:id/receive.
// Quantities permite recibir una cantidad distinta por producto (0 omite la línea).
type ReceiveRequest struct {
	Quantities map[string]int64 `json:"quantities,omitempty"`
}

// PaymentRequest body para registrar un abono.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PurchaseOrderLineResponse línea de una orden.
type PurchaseOrderLineResponse struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int64           `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ReceivedQuantity int64           `json:"received_quantity"`
}

// PurchaseOrderResponse orden de compra.
type PurchaseOrderResponse struct {
	ID            string                      `json:"id"`
	Number        string                      `json:"number"`
	SupplierID    string                      `json:"supplier_id"`
	SupplierName  string                      `json:"supplier_name"`
	Status        string                      `json:"status"`
	Lines         []PurchaseOrderLineResponse `json:"lines"`
	TotalAmount   decimal.Decimal             `json:"total_amount"`
	AmountPaid    decimal.Decimal             `json:"amount_paid"`
	AmountDue     decimal.Decimal             `json:"amount_due"`
	PaymentStatus string                      `json:"payment_status"`
	CreatedByName string                      `json:"created_by_name"`
	CreatedAt     time.Time                   `json:"created_at"`
	OrderedAt     *time.Time                  `json:"ordered_at,omitempty"`
	ReceivedAt    *time.Time                  `json:"received_at,omitempty"`
	CancelledAt   *time.Time                  `json:"cancelled_at,omitempty"`
}

// ClientPaymentResponse resultado de un abono a la deuda de un cliente.
type ClientPaymentResponse struct {
	ClientID    string          `json:"client_id"`
	Amount      decimal.Decimal `json:"amount"`
	DebtBalance decimal.Decimal `json:"debt_balance"`
}
