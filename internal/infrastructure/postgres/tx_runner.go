package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE. Si PostgreSQL aborta la tx
// por conflicto de serialización o deadlock, hace rollback y repite fn completa con backoff
// exponencial; agotados los reintentos devuelve domain.ErrTransactionConflict.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxRetries  int
	baseBackoff time.Duration
	observer    ports.TxObserver
	log         *logger.Logger
}

// TxOption configura el runner.
type TxOption func(*TxRunner)

// WithRetries fija reintentos y backoff base.
func WithRetries(n int, base time.Duration) TxOption {
	return func(r *TxRunner) {
		if n >= 0 {
			r.maxRetries = n
		}
		if base > 0 {
			r.baseBackoff = base
		}
	}
}

// WithTxObserver registra el observador de reintentos (métricas).
func WithTxObserver(o ports.TxObserver) TxOption {
	return func(r *TxRunner) { r.observer = o }
}

// WithLogger registra el logger para los reintentos.
func WithLogger(l *logger.Logger) TxOption {
	return func(r *TxRunner) { r.log = l }
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts ...TxOption) *TxRunner {
	r := &TxRunner{pool: pool, maxRetries: 10, baseBackoff: 5 * time.Millisecond, log: logger.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Repositories arma el conjunto de repositorios sobre q (pool o tx).
func Repositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:       NewProductRepository(q),
		Movements:      NewMovementRepository(q),
		Sales:          NewSaleRepository(q),
		Clients:        NewClientRepository(q),
		Suppliers:      NewSupplierRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Sessions:       NewInventorySessionRepository(q),
	}
}

// Run inicia la transacción, ejecuta fn con repos atados a ella y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || domain.IsBusinessRule(err) {
			return err
		}
		if !isRetryable(err) {
			r.log.Warn().Err(err).Msg("transacción revertida")
			return err
		}
		if attempt >= r.maxRetries {
			if r.observer != nil {
				r.observer.TxConflict("postgres")
			}
			r.log.Warn().Err(err).Int("attempts", attempt+1).Msg("reintentos de transacción agotados")
			return fmt.Errorf("%w: %v", domain.ErrTransactionConflict, err)
		}
		if r.observer != nil {
			r.observer.TxRetry("postgres")
		}
		r.log.Debug().Err(err).Int("attempt", attempt+1).Msg("conflicto de serialización; se repite la transacción")
		if err := sleep(ctx, r.backoff(attempt)); err != nil {
			return err
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// backoff exponencial acotado: base, 2*base, 4*base... hasta 64*base.
func (r *TxRunner) backoff(attempt int) time.Duration {
	if attempt > 6 {
		attempt = 6
	}
	return r.baseBackoff << attempt
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
