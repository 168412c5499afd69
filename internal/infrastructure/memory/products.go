package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

const (
	tableProducts = "products"
	tableSKU      = "products_sku"
)

type productRepo struct{ t *tx }

var _ repository.ProductRepository = (*productRepo)(nil)

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableProducts, product.ID))
	r.t.observe(key(tableSKU, product.SKU))
	if _, ok := s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, p := range s.products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	c := cloneProduct(product)
	r.t.stage(key(tableSKU, product.SKU), func() {})
	r.t.stage(key(tableProducts, product.ID), func() { s.products[c.ID] = c })
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableProducts, id))
	return cloneProduct(s.products[id]), nil
}

// GetForUpdate en el store optimista equivale a una lectura versionada: el conflicto se
// detecta al hacer commit.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(_ context.Context, productID string, stockOnHand int64) error {
	s := r.t.s
	now := time.Now()
	r.t.stage(key(tableProducts, productID), func() {
		if p, ok := s.products[productID]; ok {
			p.StockOnHand = stockOnHand
			p.UpdatedAt = now
		}
	})
	return nil
}

func (r *productRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	s := r.t.s
	now := time.Now()
	r.t.stage(key(tableProducts, productID), func() {
		if p, ok := s.products[productID]; ok {
			p.PurchasePrice = cost
			p.UpdatedAt = now
		}
	})
	return nil
}

// List devuelve productos ordenados por SKU. No registra versiones: los listados no
// participan en la detección de conflictos.
func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	s := r.t.s
	s.mu.Lock()
	all := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, cloneProduct(p))
	}
	s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	return paginate(all, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
