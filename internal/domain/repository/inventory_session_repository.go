package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// InventorySessionRepository define el puerto de persistencia para sesiones de conteo.
type InventorySessionRepository interface {
	Create(ctx context.Context, session *entity.InventorySession) error
	GetByID(ctx context.Context, id string) (*entity.InventorySession, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error)
	MarkValidated(ctx context.Context, id string, by entity.Actor, at time.Time) error
}
