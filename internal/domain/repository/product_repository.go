package repository

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate lee la fila dentro de la transacción y la marca como contendida
	// (SELECT FOR UPDATE en PostgreSQL, versión registrada en el store optimista).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock escribe el nuevo stock. Solo lo invoca el libro de movimientos.
	UpdateStock(ctx context.Context, productID string, stockOnHand int64) error
	// UpdateCost actualiza el costo de compra vigente (costo promedio ponderado en recepciones).
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
