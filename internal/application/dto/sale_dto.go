package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta enviada por la caja.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Lines          []SaleLineRequest `json:"lines"`
	Discount       decimal.Decimal   `json:"discount"`
	AmountTendered decimal.Decimal   `json:"amount_tendered"`
	PaymentMethod  string            `json:"payment_method"`
	ClientID       string            `json:"client_id,omitempty"`
}

// CancelSaleRequest body para POST /api/sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

// SaleLineResponse línea de una venta registrada.
type SaleLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	Status          string             `json:"status"`
	Lines           []SaleLineResponse `json:"lines"`
	TotalGross      decimal.Decimal    `json:"total_gross"`
	Discount        decimal.Decimal    `json:"discount"`
	TotalNet        decimal.Decimal    `json:"total_net"`
	AmountTendered  decimal.Decimal    `json:"amount_tendered"`
	ChangeDue       decimal.Decimal    `json:"change_due"`
	AmountOwed      decimal.Decimal    `json:"amount_owed"`
	PaymentMethod   string             `json:"payment_method"`
	ClientID        string             `json:"client_id,omitempty"`
	ClientName      string             `json:"client_name,omitempty"`
	CreatedByName   string             `json:"created_by_name"`
	CreatedAt       time.Time          `json:"created_at"`
	CancelledByName string             `json:"cancelled_by_name,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
}
