// Package audit implementa la bitácora asíncrona: Record encola sin bloquear y un worker
// entrega cada registro a los sinks configurados. Un fallo de sink se registra en el log y
// en métricas, nunca llega a la operación de negocio que originó el registro.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/infrastructure/metrics"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// Sink destino de los registros de bitácora.
type Sink interface {
	Name() string
	Write(ctx context.Context, entry entity.AuditEntry) error
}

// Options parámetros del recorder.
type Options struct {
	Buffer       int           // capacidad de la cola; lleno => se descarta
	WriteTimeout time.Duration // tiempo máximo por escritura en cada sink
}

// Recorder AuditRecorder asíncrono y best-effort.
type Recorder struct {
	sinks   []Sink
	log     *logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan entity.AuditEntry
	done   chan struct{}
}

var _ ports.AuditRecorder = (*Recorder)(nil)

// NewRecorder construye el recorder e inicia su worker.
func NewRecorder(sinks []Sink, opts Options, log *logger.Logger, m *metrics.Metrics) *Recorder {
	if opts.Buffer <= 0 {
		opts.Buffer = 1024
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Recorder{
		sinks:   sinks,
		log:     log,
		metrics: m,
		timeout: opts.WriteTimeout,
		queue:   make(chan entity.AuditEntry, opts.Buffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record encola el registro. Nunca bloquea: con la cola llena o el recorder cerrado se descarta.
func (r *Recorder) Record(entry entity.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(entry, "recorder cerrado")
		return
	}
	select {
	case r.queue <- entry:
	default:
		r.drop(entry, "cola de bitácora llena")
	}
}

func (r *Recorder) drop(entry entity.AuditEntry, why string) {
	r.metrics.AuditDrop()
	r.log.Warn().
		Str("audit_type", entry.Type).
		Str("action", entry.Action).
		Str("actor_id", entry.ActorID).
		Msg(why + "; registro descartado")
}

func (r *Recorder) run() {
	defer close(r.done)
	for entry := range r.queue {
		for _, s := range r.sinks {
			r.write(s, entry)
		}
	}
}

func (r *Recorder) write(s Sink, entry entity.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := s.Write(ctx, entry); err != nil {
		r.metrics.AuditError(s.Name())
		r.log.Error().
			Err(err).
			Str("sink", s.Name()).
			Str("audit_id", entry.ID).
			Str("audit_type", entry.Type).
			Msg("no se pudo escribir la bitácora")
		return
	}
	r.metrics.AuditOK(s.Name())
}

// Close deja de aceptar registros y espera a que se entreguen los pendientes o a que ctx expire.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
