package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// AuditLog bitácora en memoria (modo store=memory y tests).
type AuditLog struct {
	mu      sync.Mutex
	entries []*entity.AuditEntry
}

var _ repository.AuditRepository = (*AuditLog)(nil)

// NewAuditLog construye una bitácora vacía.
func NewAuditLog() *AuditLog { return &AuditLog{} }

// Append agrega un registro.
func (l *AuditLog) Append(_ context.Context, entry *entity.AuditEntry) error {
	c := *entry
	l.mu.Lock()
	l.entries = append(l.entries, &c)
	l.mu.Unlock()
	return nil
}

// List devuelve los últimos limit registros, del más reciente al más antiguo.
func (l *AuditLog) List(_ context.Context, limit int) ([]*entity.AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*entity.AuditEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		c := *l.entries[i]
		out = append(out, &c)
	}
	return out, nil
}
