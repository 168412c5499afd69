package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre la tabla stock_movements (solo INSERT).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y asigna Seq desde la secuencia de la tabla.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, product_name, type, quantity, stock_before, stock_after,
			reason, reference, actor_id, actor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.ProductName, m.Type, m.Quantity, m.StockBefore, m.StockAfter,
		m.Reason, m.Reference, m.ActorID, m.ActorName, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve los movimientos del producto en orden de inserción. limit <= 0 = todos.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT seq, id, product_id, product_name, type, quantity, stock_before, stock_after,
			reason, reference, actor_id, actor_name, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY seq
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.Seq, &m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity,
			&m.StockBefore, &m.StockAfter, &m.Reason, &m.Reference, &m.ActorID, &m.ActorName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
