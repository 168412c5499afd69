package repository

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Supplier, error)
	UpdateDebt(ctx context.Context, id string, debtBalance decimal.Decimal) error
}
