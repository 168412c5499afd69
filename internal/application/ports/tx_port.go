package ports

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción atómica, pasando repositorios atados a esa tx.
//
// fn puede ejecutarse más de una vez: si el store detecta que algún registro leído cambió antes
// del commit, descarta la tx y reintenta fn completa. Por eso fn debe leer todo primero, derivar
// y luego escribir, sin efectos fuera de la transacción. Agotados los reintentos devuelve
// domain.ErrTransactionConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}

// TxObserver recibe los eventos de reintento y de conflicto definitivo (métricas).
type TxObserver interface {
	TxRetry(backend string)
	TxConflict(backend string)
}
