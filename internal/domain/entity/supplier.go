package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor. DebtBalance es lo que el negocio le debe.
type Supplier struct {
	ID          string
	Name        string
	TaxID       string
	Phone       string
	DebtBalance decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
