// Package apptest arma un entorno de casos de uso sobre el store en memoria para los tests
// de la capa de aplicación.
package apptest

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/usecase"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/internal/infrastructure/memory"
)

// AuditCapture AuditRecorder síncrono que guarda los registros para inspección.
type AuditCapture struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

// Record guarda el registro.
func (a *AuditCapture) Record(entry entity.AuditEntry) {
	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()
}

// Entries devuelve una copia de los registros capturados.
func (a *AuditCapture) Entries() []entity.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.AuditEntry(nil), a.entries...)
}

// Last devuelve el último registro o uno vacío.
func (a *AuditCapture) Last() entity.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return entity.AuditEntry{}
	}
	return a.entries[len(a.entries)-1]
}

// Env entorno de pruebas.
type Env struct {
	Store    *memory.Store
	Audit    *AuditCapture
	Ledger   *inventory.StockLedger
	Products *usecase.ProductUseCase
	Parties  *usecase.PartyUseCase
	Actor    entity.Actor
}

// NewEnv construye un entorno vacío. Los reintentos se elevan para los tests de concurrencia.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	store := memory.NewStore(memory.WithMaxRetries(1000))
	audit := &AuditCapture{}
	ledger := inventory.NewStockLedger(store, audit)
	return &Env{
		Store:    store,
		Audit:    audit,
		Ledger:   ledger,
		Products: usecase.NewProductUseCase(store, ledger),
		Parties:  usecase.NewPartyUseCase(store),
		Actor:    entity.Actor{ID: "u-1", Name: "Cajero Uno"},
	}
}

// Product crea un producto con stock inicial (registrado como entrada) y devuelve su ID.
func (e *Env) Product(t *testing.T, sku string, stock int64, cost, price int64) string {
	t.Helper()
	p, err := e.Products.Create(context.Background(), dto.CreateProductRequest{
		SKU:           sku,
		Name:          "Producto " + sku,
		PurchasePrice: decimal.NewFromInt(cost),
		SalePrice:     decimal.NewFromInt(price),
		InitialStock:  stock,
	}, e.Actor)
	require.NoError(t, err)
	return p.ID
}

// Client crea un cliente sin deuda y devuelve su ID.
func (e *Env) Client(t *testing.T, name, taxID string) string {
	t.Helper()
	c, err := e.Parties.CreateClient(context.Background(), dto.CreatePartyRequest{Name: name, TaxID: taxID})
	require.NoError(t, err)
	return c.ID
}

// Supplier crea un proveedor sin deuda y devuelve su ID.
func (e *Env) Supplier(t *testing.T, name, taxID string) string {
	t.Helper()
	s, err := e.Parties.CreateSupplier(context.Background(), dto.CreatePartyRequest{Name: name, TaxID: taxID})
	require.NoError(t, err)
	return s.ID
}

// GetProduct lee el producto confirmado.
func (e *Env) GetProduct(t *testing.T, id string) *entity.Product {
	t.Helper()
	var p *entity.Product
	require.NoError(t, e.Store.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		p, err = repos.Products.GetByID(ctx, id)
		return err
	}))
	require.NotNil(t, p)
	return p
}

// Stock devuelve el stock confirmado de un producto.
func (e *Env) Stock(t *testing.T, id string) int64 {
	t.Helper()
	return e.GetProduct(t, id).StockOnHand
}

// GetClient lee el cliente confirmado.
func (e *Env) GetClient(t *testing.T, id string) *entity.Client {
	t.Helper()
	var c *entity.Client
	require.NoError(t, e.Store.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		c, err = repos.Clients.GetByID(ctx, id)
		return err
	}))
	require.NotNil(t, c)
	return c
}

// SupplierDebt devuelve la deuda confirmada con un proveedor.
func (e *Env) SupplierDebt(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	var s *entity.Supplier
	require.NoError(t, e.Store.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		s, err = repos.Suppliers.GetByID(ctx, id)
		return err
	}))
	require.NotNil(t, s)
	return s.DebtBalance
}

// SetClientDebt fuerza la deuda de un cliente (simula datos inconsistentes).
func (e *Env) SetClientDebt(t *testing.T, id string, debt decimal.Decimal) {
	t.Helper()
	c := e.GetClient(t, id)
	require.NoError(t, e.Store.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		return repos.Clients.UpdateBalances(ctx, id, c.TotalPurchases, debt)
	}))
}

// Movements devuelve el historial completo de un producto.
func (e *Env) Movements(t *testing.T, id string) []*entity.Movement {
	t.Helper()
	var list []*entity.Movement
	require.NoError(t, e.Store.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		list, err = repos.Movements.ListByProduct(ctx, id, 0, 0)
		return err
	}))
	return list
}

// AssertLedgerConsistent verifica que el stock de cada producto sea el replay de su historial.
func (e *Env) AssertLedgerConsistent(t *testing.T, ids ...string) {
	t.Helper()
	v := inventory.NewLedgerVerifier(e.Store)
	for _, id := range ids {
		r, err := v.Verify(context.Background(), id)
		require.NoError(t, err)
		require.Truef(t, r.Consistent, "producto %s: stock %d, replay %d", id, r.StockOnHand, r.Replayed)
	}
}
