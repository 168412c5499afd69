package ports

import "github.com/jhoicas/retail-ops/internal/domain/entity"

// AuditRecorder recibe registros de bitácora. Record nunca bloquea ni falla hacia el caller:
// se invoca después del commit y su fallo no revierte la operación documentada.
type AuditRecorder interface {
	Record(entry entity.AuditEntry)
}

// NopAuditRecorder descarta los registros.
type NopAuditRecorder struct{}

// Record no hace nada.
func (NopAuditRecorder) Record(entity.AuditEntry) {}
