// Package memory implementa los repositorios sobre un store en memoria con control de
// concurrencia optimista: cada registro tiene una versión, la transacción anota la versión
// de lo que lee, acumula sus escrituras y al hacer commit valida que nada de lo leído haya
// cambiado. Si cambió, la función completa se vuelve a ejecutar.
package memory

import (
	"context"
	"runtime"
	"sync"

	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// DefaultMaxRetries reintentos por defecto ante conflicto.
const DefaultMaxRetries = 10

// Store datos en memoria. Es seguro para uso concurrente.
type Store struct {
	mu         sync.Mutex
	versions   map[string]uint64
	products   map[string]*entity.Product
	movements  []*entity.Movement
	sales      map[string]*entity.Sale
	clients    map[string]*entity.Client
	suppliers  map[string]*entity.Supplier
	orders     map[string]*entity.PurchaseOrder
	sessions   map[string]*entity.InventorySession
	seq        int64
	maxRetries int
	observer   ports.TxObserver

	// beforeCommit se invoca justo antes de validar el commit (solo tests).
	beforeCommit func()
}

var _ ports.TxRunner = (*Store)(nil)

// Option configura el Store.
type Option func(*Store)

// WithMaxRetries fija los reintentos ante conflicto.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithObserver registra un observador de reintentos (métricas).
func WithObserver(o ports.TxObserver) Option {
	return func(s *Store) { s.observer = o }
}

// NewStore construye un store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		versions:   make(map[string]uint64),
		products:   make(map[string]*entity.Product),
		sales:      make(map[string]*entity.Sale),
		clients:    make(map[string]*entity.Client),
		suppliers:  make(map[string]*entity.Supplier),
		orders:     make(map[string]*entity.PurchaseOrder),
		sessions:   make(map[string]*entity.InventorySession),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ejecuta fn como una unidad atómica. fn debe ser reejecutable: se vuelve a invocar
// completa cuando alguno de los registros que leyó cambió antes del commit. Si fn devuelve
// error y lo leído ya no está vigente también se reintenta, porque el error pudo derivar de
// una foto vieja. Agotados los reintentos devuelve domain.ErrTransactionConflict.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := &tx{s: s, reads: make(map[string]uint64)}
		err := fn(ctx, t.repositories())
		if err != nil {
			if s.stillValid(t) {
				return err
			}
		} else if s.commit(t) {
			return nil
		}

		if attempt >= s.maxRetries {
			if s.observer != nil {
				s.observer.TxConflict("memory")
			}
			return domain.ErrTransactionConflict
		}
		if s.observer != nil {
			s.observer.TxRetry("memory")
		}
		runtime.Gosched()
	}
}

func (s *Store) stillValid(t *tx) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validLocked(t)
}

func (s *Store) validLocked(t *tx) bool {
	for k, v := range t.reads {
		if s.versions[k] != v {
			return false
		}
	}
	return true
}

func (s *Store) commit(t *tx) bool {
	if s.beforeCommit != nil {
		s.beforeCommit()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validLocked(t) {
		return false
	}
	for _, w := range t.writes {
		w.apply()
		s.versions[w.key]++
	}
	return true
}

// tx transacción optimista en curso.
type tx struct {
	s      *Store
	reads  map[string]uint64
	writes []write
}

type write struct {
	key   string
	apply func()
}

func key(table, id string) string { return table + "/" + id }

// observe anota la versión leída. Debe llamarse con s.mu tomado.
// Se conserva la primera versión vista para que una segunda lectura no oculte un cambio.
func (t *tx) observe(k string) {
	if _, ok := t.reads[k]; !ok {
		t.reads[k] = t.s.versions[k]
	}
}

func (t *tx) stage(k string, apply func()) {
	t.writes = append(t.writes, write{key: k, apply: apply})
}

func (t *tx) repositories() repository.Repositories {
	return repository.Repositories{
		Products:       &productRepo{t: t},
		Movements:      &movementRepo{t: t},
		Sales:          &saleRepo{t: t},
		Clients:        &clientRepo{t: t},
		Suppliers:      &supplierRepo{t: t},
		PurchaseOrders: &orderRepo{t: t},
		Sessions:       &sessionRepo{t: t},
	}
}
