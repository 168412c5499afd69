package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// ReconciliationReason prefijo del motivo de los ajustes generados por una sesión.
const ReconciliationReason = "Inventory reconciliation %s"

// ReconciliationEngine convierte un conteo físico en ajustes de stock.
// Una sesión abierta es solo una propuesta: el stock cambia únicamente al validarla.
type ReconciliationEngine struct {
	txRunner ports.TxRunner
	ledger   *StockLedger
	audit    ports.AuditRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewReconciliationEngine construye el motor de conciliación.
func NewReconciliationEngine(txRunner ports.TxRunner, ledger *StockLedger, audit ports.AuditRecorder, log *logger.Logger) *ReconciliationEngine {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReconciliationEngine{txRunner: txRunner, ledger: ledger, audit: audit, log: log, now: time.Now}
}

// CountInput cantidad contada de un producto.
type CountInput struct {
	ProductID    string
	CountedStock int64
}

// OpenSessionInput entrada para abrir una sesión de conteo.
type OpenSessionInput struct {
	Name   string
	Counts []CountInput
}

// OpenSession toma una foto del stock teórico de cada producto contado y calcula la diferencia.
func (e *ReconciliationEngine) OpenSession(ctx context.Context, in OpenSessionInput, actor entity.Actor) (*entity.InventorySession, error) {
	if len(in.Counts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Counts))
	for _, c := range in.Counts {
		if c.ProductID == "" || c.CountedStock < 0 || seen[c.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[c.ProductID] = true
	}

	var session *entity.InventorySession
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		lines := make([]entity.InventorySessionLine, 0, len(in.Counts))
		for _, c := range in.Counts {
			product, err := repos.Products.GetByID(ctx, c.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %s: %w", c.ProductID, domain.ErrNotFound)
			}
			lines = append(lines, entity.InventorySessionLine{
				ProductID:        product.ID,
				ProductName:      product.Name,
				TheoreticalStock: product.StockOnHand,
				CountedStock:     c.CountedStock,
				Variance:         c.CountedStock - product.StockOnHand,
			})
		}
		session = &entity.InventorySession{
			ID:            uuid.New().String(),
			Name:          in.Name,
			Lines:         lines,
			Status:        entity.SessionStatusOpen,
			CreatedByID:   actor.ID,
			CreatedByName: actor.Name,
			CreatedAt:     e.now(),
		}
		return repos.Sessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	e.audit.Record(entity.AuditEntry{
		Type:      entity.AuditTypeInventory,
		Action:    "open",
		Details:   fmt.Sprintf("Sesión de inventario %q abierta con %d productos contados", session.Name, len(session.Lines)),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: session.CreatedAt,
	})
	return session, nil
}

// ApplySession valida la sesión: en UNA transacción ajusta al valor contado cada producto con
// diferencia, agrega un movimiento de ajuste por línea y marca la sesión como validada.
// Las líneas sin diferencia no escriben nada. Una sesión solo se valida una vez.
// Con muchas líneas aumenta la probabilidad de conflicto; el TxRunner reintenta y, agotados los
// reintentos, el caller recibe domain.ErrTransactionConflict y puede volver a invocar.
func (e *ReconciliationEngine) ApplySession(ctx context.Context, sessionID string, actor entity.Actor) (*entity.InventorySession, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.InventorySession
	var adjusted int
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		adjusted = 0
		session, err := repos.Sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status == entity.SessionStatusValidated {
			return domain.ErrAlreadyValidated
		}

		// 1) Lecturas: todos los productos con diferencia.
		products := make(map[string]*entity.Product)
		for _, line := range session.Lines {
			if line.Variance == 0 {
				continue
			}
			product, err := repos.Products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrNotFound)
			}
			products[line.ProductID] = product
		}

		// 2) Escrituras.
		now := e.now()
		reason := fmt.Sprintf(ReconciliationReason, session.ID)
		for _, line := range session.Lines {
			if line.Variance == 0 {
				continue
			}
			product := products[line.ProductID]
			if product.StockOnHand != line.TheoreticalStock {
				e.log.Warn().
					Str("session_id", session.ID).
					Str("product_id", product.ID).
					Int64("theoretical", line.TheoreticalStock).
					Int64("current", product.StockOnHand).
					Msg("el stock cambió desde que se abrió la sesión; se aplica el valor contado")
			}
			if _, err := e.ledger.ApplyInTx(ctx, repos, product, ApplyMovementInput{
				ProductID: product.ID,
				Type:      entity.MovementAdjustment,
				Quantity:  line.CountedStock,
				Reason:    reason,
				Reference: session.ID,
			}, actor, now); err != nil {
				return err
			}
			adjusted++
		}
		if err := repos.Sessions.MarkValidated(ctx, session.ID, actor, now); err != nil {
			return err
		}

		result = session.Clone()
		result.Status = entity.SessionStatusValidated
		result.ValidatedByID = actor.ID
		result.ValidatedByName = actor.Name
		result.ValidatedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.audit.Record(entity.AuditEntry{
		Type:      entity.AuditTypeInventory,
		Action:    "validate",
		Details:   fmt.Sprintf("Sesión de inventario %q validada: %d de %d productos ajustados", result.Name, adjusted, len(result.Lines)),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: *result.ValidatedAt,
	})
	return result, nil
}

// GetSession obtiene una sesión por ID.
func (e *ReconciliationEngine) GetSession(ctx context.Context, sessionID string) (*entity.InventorySession, error) {
	var session *entity.InventorySession
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		s, err := repos.Sessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		session = s
		return nil
	})
	return session, err
}
