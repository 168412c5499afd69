package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial se registra
// como un movimiento de entrada, nunca escribiendo el campo directamente.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	StockMinimum  int64           `json:"stock_minimum"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	InitialStock  int64           `json:"initial_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	StockOnHand   int64           `json:"stock_on_hand"`
	StockMinimum  int64           `json:"stock_minimum"`
	BelowMinimum  bool            `json:"below_minimum"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreatePartyRequest entrada para crear un cliente o un proveedor.
type CreatePartyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone,omitempty"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	TaxID          string          `json:"tax_id"`
	Phone          string          `json:"phone,omitempty"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	DebtBalance    decimal.Decimal `json:"debt_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Phone       string          `json:"phone,omitempty"`
	DebtBalance decimal.Decimal `json:"debt_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}
