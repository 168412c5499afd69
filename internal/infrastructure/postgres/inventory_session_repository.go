package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

var _ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)

// InventorySessionRepo sesiones de conteo físico sobre PostgreSQL.
type InventorySessionRepo struct {
	q Querier
}

// NewInventorySessionRepository construye el adaptador.
func NewInventorySessionRepository(q Querier) *InventorySessionRepo {
	return &InventorySessionRepo{q: q}
}

// Create inserta la sesión con sus líneas de conteo.
func (r *InventorySessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_sessions (id, name, status, created_by_id, created_by_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Status, s.CreatedByID, s.CreatedByName, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory session: %w", err)
	}
	for i, l := range s.Lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO inventory_session_lines (session_id, line_no, product_id, product_name, theoretical_stock, counted_stock, variance)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, i+1, l.ProductID, l.ProductName, l.TheoreticalStock, l.CountedStock, l.Variance,
		); err != nil {
			return fmt.Errorf("insert inventory session line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la sesión con sus líneas. (nil, nil) si no existe.
func (r *InventorySessionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *InventorySessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *InventorySessionRepo) get(ctx context.Context, id, suffix string) (*entity.InventorySession, error) {
	var s entity.InventorySession
	err := r.q.QueryRow(ctx, `
		SELECT id, name, status, created_by_id, created_by_name, created_at, validated_by_id, validated_by_name, validated_at
		FROM inventory_sessions WHERE id = $1`+suffix, id).Scan(
		&s.ID, &s.Name, &s.Status, &s.CreatedByID, &s.CreatedByName, &s.CreatedAt,
		&s.ValidatedByID, &s.ValidatedByName, &s.ValidatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory session: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, theoretical_stock, counted_stock, variance
		FROM inventory_session_lines WHERE session_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory session lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InventorySessionLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.TheoreticalStock, &l.CountedStock, &l.Variance); err != nil {
			return nil, fmt.Errorf("scan inventory session line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkValidated cierra la sesión.
func (r *InventorySessionRepo) MarkValidated(ctx context.Context, id string, by entity.Actor, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_sessions SET status = $2, validated_by_id = $3, validated_by_name = $4, validated_at = $5
		WHERE id = $1`,
		id, entity.SessionStatusValidated, by.ID, by.Name, at)
	if err != nil {
		return fmt.Errorf("validate inventory session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
