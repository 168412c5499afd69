package memory

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

const tableOrders = "purchase_orders"

type orderRepo struct{ t *tx }

var _ repository.PurchaseOrderRepository = (*orderRepo)(nil)

func (r *orderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableOrders, order.ID))
	if _, ok := s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	c := order.Clone()
	r.t.stage(key(tableOrders, order.ID), func() { s.orders[c.ID] = c })
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableOrders, id))
	return s.orders[id].Clone(), nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza la orden completa con el estado calculado por el caller.
func (r *orderRepo) Update(_ context.Context, order *entity.PurchaseOrder) error {
	s := r.t.s
	c := order.Clone()
	r.t.stage(key(tableOrders, order.ID), func() {
		if _, ok := s.orders[c.ID]; ok {
			s.orders[c.ID] = c
		}
	})
	return nil
}
