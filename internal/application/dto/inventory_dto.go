package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity es la cantidad a sumar/restar, o el valor absoluto en un ajuste.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	Reason      string    `json:"reason"`
	Reference   string    `json:"reference,omitempty"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse historial paginado de un producto.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// SessionCountRequest cantidad contada de un producto.
type SessionCountRequest struct {
	ProductID    string `json:"product_id"`
	CountedStock int64  `json:"counted_stock"`
}

// OpenSessionRequest body para POST /api/inventory/sessions.
type OpenSessionRequest struct {
	Name   string                `json:"name"`
	Counts []SessionCountRequest `json:"counts"`
}

// SessionLineResponse línea de una sesión de conteo.
type SessionLineResponse struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	TheoreticalStock int64  `json:"theoretical_stock"`
	CountedStock     int64  `json:"counted_stock"`
	Variance         int64  `json:"variance"`
}

// SessionResponse sesión de conteo físico.
type SessionResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Status          string                `json:"status"`
	Lines           []SessionLineResponse `json:"lines"`
	CreatedByName   string                `json:"created_by_name"`
	CreatedAt       time.Time             `json:"created_at"`
	ValidatedByName string                `json:"validated_by_name,omitempty"`
	ValidatedAt     *time.Time            `json:"validated_at,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	StockMinimum       int64           `json:"stock_minimum"`
	IdealStock         int64           `json:"ideal_stock"`         // StockMinimum * 1.5
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

// ReplenishmentListResponse lista de reposición con su total.
type ReplenishmentListResponse struct {
	Total          int                          `json:"total"`
	Replenishments []ReplenishmentSuggestionDTO `json:"replenishments"`
}
