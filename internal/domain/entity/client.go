package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un cliente registrado.
// TotalPurchases es acumulado; DebtBalance nunca es negativo.
type Client struct {
	ID             string
	Name           string
	TaxID          string
	Phone          string
	TotalPurchases decimal.Decimal
	DebtBalance    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
