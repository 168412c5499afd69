package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/inventory"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/money"
)

// StockLedger es el único dueño de Product.StockOnHand y del libro de movimientos.
// Cada cambio de stock escribe el nuevo valor y agrega exactamente un Movement en la misma tx.
type StockLedger struct {
	txRunner ports.TxRunner
	audit    ports.AuditRecorder
	now      func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(txRunner ports.TxRunner, audit ports.AuditRecorder) *StockLedger {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &StockLedger{txRunner: txRunner, audit: audit, now: time.Now}
}

// ApplyMovementInput entrada para registrar un movimiento.
// Quantity es la cantidad a sumar (entry), restar (exit) o el valor absoluto (adjustment).
type ApplyMovementInput struct {
	ProductID string
	Type      string
	Quantity  int64
	Reason    string
	Reference string
}

func (in ApplyMovementInput) validate() error {
	if in.ProductID == "" || !entity.ValidMovementType(in.Type) {
		return domain.ErrInvalidInput
	}
	if in.Type == entity.MovementAdjustment {
		if in.Quantity < 0 {
			return domain.ErrInvalidInput
		}
		return nil
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply registra un movimiento en su propia transacción: lee el stock, valida que no quede
// negativo, escribe stock y movimiento. Si el stock resultante fuese negativo la tx se descarta
// sin escrituras y se devuelve *domain.InsufficientStockError.
func (l *StockLedger) Apply(ctx context.Context, in ApplyMovementInput, actor entity.Actor) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		in.Reason = defaultReason(in.Type)
	}

	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		mov, err = l.ApplyInTx(ctx, repos, product, in, actor, l.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	l.audit.Record(entity.AuditEntry{
		Type:   entity.AuditTypeStock,
		Action: mov.Type,
		Details: fmt.Sprintf("%s: %s unidades de %s (%d → %d). Motivo: %s",
			movementLabel(mov.Type), money.Units(mov.Quantity), mov.ProductName, mov.StockBefore, mov.StockAfter, mov.Reason),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: mov.CreatedAt,
	})
	return mov, nil
}

// ApplyInTx aplica un movimiento usando los repositorios de la transacción del caller.
// product debe haberse leído en esa misma tx; su StockOnHand se actualiza en memoria para que
// varias líneas del mismo producto se encadenen sin volver a leer lo ya escrito.
// Si retorna error el caller debe abortar su transacción.
func (l *StockLedger) ApplyInTx(
	ctx context.Context,
	repos repository.Repositories,
	product *entity.Product,
	in ApplyMovementInput,
	actor entity.Actor,
	now time.Time,
) (*entity.Movement, error) {
	before := product.StockOnHand
	after, err := inventory.NextStock(product.ID, in.Type, before, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateStock(ctx, product.ID, after); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        in.Type,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  after,
		Reason:      in.Reason,
		Reference:   in.Reference,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		CreatedAt:   now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	product.StockOnHand = after
	return mov, nil
}

func defaultReason(movementType string) string {
	switch movementType {
	case entity.MovementEntry:
		return "Entrada manual"
	case entity.MovementExit:
		return "Salida manual"
	default:
		return "Ajuste manual"
	}
}

func movementLabel(movementType string) string {
	switch movementType {
	case entity.MovementEntry:
		return "Entrada"
	case entity.MovementExit:
		return "Salida"
	default:
		return "Ajuste"
	}
}
