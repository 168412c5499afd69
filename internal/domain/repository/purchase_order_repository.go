package repository

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update persiste estado, pagos, sellos de transición y cantidades recibidas.
	Update(ctx context.Context, order *entity.PurchaseOrder) error
}
