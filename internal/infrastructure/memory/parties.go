package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

const (
	tableClients   = "clients"
	tableSuppliers = "suppliers"
)

// ─── Clientes ────────────────────────────────────────────────────────────────

type clientRepo struct{ t *tx }

var _ repository.ClientRepository = (*clientRepo)(nil)

func (r *clientRepo) Create(_ context.Context, client *entity.Client) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableClients, client.ID))
	r.t.observe(key(tableClients+"_tax", client.TaxID))
	if _, ok := s.clients[client.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, c := range s.clients {
		if c.TaxID == client.TaxID {
			return domain.ErrDuplicate
		}
	}
	c := *client
	r.t.stage(key(tableClients+"_tax", client.TaxID), func() {})
	r.t.stage(key(tableClients, client.ID), func() { s.clients[c.ID] = &c })
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableClients, id))
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	v := *c
	return &v, nil
}

func (r *clientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.GetByID(ctx, id)
}

func (r *clientRepo) UpdateBalances(_ context.Context, id string, totalPurchases, debtBalance decimal.Decimal) error {
	s := r.t.s
	now := time.Now()
	r.t.stage(key(tableClients, id), func() {
		if c, ok := s.clients[id]; ok {
			c.TotalPurchases = totalPurchases
			c.DebtBalance = debtBalance
			c.UpdatedAt = now
		}
	})
	return nil
}

// ─── Proveedores ─────────────────────────────────────────────────────────────

type supplierRepo struct{ t *tx }

var _ repository.SupplierRepository = (*supplierRepo)(nil)

func (r *supplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableSuppliers, supplier.ID))
	r.t.observe(key(tableSuppliers+"_tax", supplier.TaxID))
	if _, ok := s.suppliers[supplier.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, v := range s.suppliers {
		if v.TaxID == supplier.TaxID {
			return domain.ErrDuplicate
		}
	}
	c := *supplier
	r.t.stage(key(tableSuppliers+"_tax", supplier.TaxID), func() {})
	r.t.stage(key(tableSuppliers, supplier.ID), func() { s.suppliers[c.ID] = &c })
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableSuppliers, id))
	v, ok := s.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *v
	return &c, nil
}

func (r *supplierRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.GetByID(ctx, id)
}

func (r *supplierRepo) UpdateDebt(_ context.Context, id string, debtBalance decimal.Decimal) error {
	s := r.t.s
	now := time.Now()
	r.t.stage(key(tableSuppliers, id), func() {
		if v, ok := s.suppliers[id]; ok {
			v.DebtBalance = debtBalance
			v.UpdatedAt = now
		}
	})
	return nil
}
