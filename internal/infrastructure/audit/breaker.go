package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/infrastructure/metrics"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// ErrSinkUnavailable el circuit breaker del sink está abierto.
var ErrSinkUnavailable = errors.New("audit sink no disponible")

// BreakerConfig parámetros del circuit breaker.
type BreakerConfig struct {
	FailureThreshold uint32        // fallos consecutivos para abrir
	Timeout          time.Duration // tiempo abierto antes de pasar a half-open
}

// BreakerSink protege un sink remoto: tras varios fallos seguidos deja de invocarlo por un
// tiempo y los registros fallan de inmediato en vez de esperar el timeout de red.
type BreakerSink struct {
	inner Sink
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerSink envuelve inner con un circuit breaker.
func NewBreakerSink(inner Sink, cfg BreakerConfig, log *logger.Logger, m *metrics.Metrics) *BreakerSink {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	name := "audit-" + inner.Name()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker cambió de estado")
			m.Breaker(name, float64(to))
		},
	}
	return &BreakerSink{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Name identifica el sink en métricas.
func (s *BreakerSink) Name() string { return s.inner.Name() }

// State estado actual del breaker.
func (s *BreakerSink) State() gobreaker.State { return s.cb.State() }

// Write delega en el sink interno a través del breaker.
func (s *BreakerSink) Write(ctx context.Context, e entity.AuditEntry) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.inner.Write(ctx, e)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", s.cb.Name(), ErrSinkUnavailable)
	}
	return err
}
