package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// MarkCancelled deja la anulación registrada en la propia venta.
	MarkCancelled(ctx context.Context, id string, by entity.Actor, at time.Time, reason string) error
}
