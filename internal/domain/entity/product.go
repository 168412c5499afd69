package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// StockOnHand solo lo modifica el libro de movimientos (StockLedger); es la suma de su historial.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	StockOnHand   int64 // nunca negativo
	StockMinimum  int64
	PurchasePrice decimal.Decimal // costo de compra vigente
	SalePrice     decimal.Decimal // precio de venta
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowMinimum indica si el stock está por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.StockOnHand < p.StockMinimum
}
