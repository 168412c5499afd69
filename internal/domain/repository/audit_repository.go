package repository

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// AuditRepository bitácora de solo inserción.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	List(ctx context.Context, limit int) ([]*entity.AuditEntry, error)
}
