package repository

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByProduct devuelve los movimientos en orden de inserción (el orden de replay).
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error)
}
