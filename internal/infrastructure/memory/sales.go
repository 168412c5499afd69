package memory

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

const tableSales = "sales"

type saleRepo struct{ t *tx }

var _ repository.SaleRepository = (*saleRepo)(nil)

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableSales, sale.ID))
	if _, ok := s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	c := sale.Clone()
	r.t.stage(key(tableSales, sale.ID), func() { s.sales[c.ID] = c })
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableSales, id))
	return s.sales[id].Clone(), nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) MarkCancelled(_ context.Context, id string, by entity.Actor, at time.Time, reason string) error {
	s := r.t.s
	r.t.stage(key(tableSales, id), func() {
		if v, ok := s.sales[id]; ok {
			v.Status = entity.SaleStatusCancelled
			v.CancelledByID = by.ID
			v.CancelledByName = by.Name
			v.CancelledAt = &at
			v.CancelReason = reason
		}
	})
	return nil
}
