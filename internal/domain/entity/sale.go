package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusValid     = "valid"
	SaleStatusCancelled = "cancelled"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCredit   = "credit"
)

// SaleLine es una línea de venta. UnitCost se captura al momento de la venta
// para que el margen histórico no cambie si luego cambia el costo del producto.
type SaleLine struct {
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int64
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
}

// Sale representa una venta registrada en caja.
type Sale struct {
	ID              string
	Number          string
	Lines           []SaleLine
	TotalGross      decimal.Decimal
	Discount        decimal.Decimal
	TotalNet        decimal.Decimal
	AmountTendered  decimal.Decimal
	ChangeDue       decimal.Decimal
	AmountOwed      decimal.Decimal // > 0 en ventas a crédito
	PaymentMethod   string
	Status          string
	ClientID        string // vacío si es venta de mostrador
	ClientName      string
	CreatedByID     string
	CreatedByName   string
	CreatedAt       time.Time
	CancelledByID   string
	CancelledByName string
	CancelledAt     *time.Time
	CancelReason    string
}

// IsCredit indica si la venta deja saldo pendiente.
func (s *Sale) IsCredit() bool {
	return s.AmountOwed.GreaterThan(decimal.Zero)
}

// Clone devuelve una copia profunda (las líneas no se comparten).
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Lines = append([]SaleLine(nil), s.Lines...)
	if s.CancelledAt != nil {
		at := *s.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}
