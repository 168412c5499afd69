package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo tabla audit_log. Se usa con el pool, fuera de las transacciones de negocio.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta un registro. Un id repetido se ignora (reentrega del recorder).
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_log (id, type, action, details, actor_id, actor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Type, e.Action, e.Details, e.ActorID, e.ActorName, e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List devuelve los últimos limit registros, del más reciente al más antiguo. limit <= 0 = todos.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, type, action, details, actor_id, actor_name, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1`, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.Details, &e.ActorID, &e.ActorName, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
