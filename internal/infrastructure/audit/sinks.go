package audit

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// LogSink escribe cada registro como una línea de log estructurada.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink de log.
func NewLogSink(log *logger.Logger) *LogSink { return &LogSink{log: log} }

// Name identifica el sink en métricas.
func (s *LogSink) Name() string { return "log" }

// Write emite el registro.
func (s *LogSink) Write(_ context.Context, e entity.AuditEntry) error {
	s.log.Info().
		Str("audit_id", e.ID).
		Str("audit_type", e.Type).
		Str("action", e.Action).
		Str("actor_id", e.ActorID).
		Str("actor_name", e.ActorName).
		Time("timestamp", e.Timestamp).
		Msg(e.Details)
	return nil
}

// RepositorySink persiste los registros en un AuditRepository (tabla audit_log o memoria).
type RepositorySink struct {
	repo repository.AuditRepository
	name string
}

// NewRepositorySink construye el sink sobre el repositorio.
func NewRepositorySink(name string, repo repository.AuditRepository) *RepositorySink {
	return &RepositorySink{repo: repo, name: name}
}

// Name identifica el sink en métricas.
func (s *RepositorySink) Name() string { return s.name }

// Write inserta el registro.
func (s *RepositorySink) Write(ctx context.Context, e entity.AuditEntry) error {
	return s.repo.Append(ctx, &e)
}
