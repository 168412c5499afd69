// Package sales coordina las ventas de caja: registro y anulación atómicos sobre
// stock, libro de movimientos, saldos del cliente y la propia venta.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/payment"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/pkg/logger"
	"github.com/jhoicas/retail-ops/pkg/money"
)

// Motivos de los movimientos generados por ventas.
const (
	SaleReason         = "Sale %s"
	CancellationReason = "Cancellation of sale %s"
)

// SaleLineInput línea enviada por la caja.
type SaleLineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// SaleDraft venta aún no registrada.
type SaleDraft struct {
	Lines          []SaleLineInput
	Discount       decimal.Decimal
	AmountTendered decimal.Decimal
	PaymentMethod  string
	ClientID       string
}

// totals montos derivados de un borrador.
type totals struct {
	gross, net, change, owed decimal.Decimal
}

// validate revisa el borrador antes de abrir la transacción y devuelve sus totales.
func (d SaleDraft) validate() (totals, error) {
	var t totals
	if len(d.Lines) == 0 {
		return t, domain.ErrInvalidInput
	}
	t.gross = decimal.Zero
	for _, l := range d.Lines {
		if l.ProductID == "" || l.Quantity <= 0 || l.UnitPrice.IsNegative() {
			return t, domain.ErrInvalidInput
		}
		t.gross = t.gross.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	if d.Discount.IsNegative() || d.Discount.GreaterThan(t.gross) || d.AmountTendered.IsNegative() {
		return t, domain.ErrInvalidInput
	}
	switch d.PaymentMethod {
	case "", entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer, entity.PaymentCredit:
	default:
		return t, domain.ErrInvalidInput
	}
	t.net = t.gross.Sub(d.Discount)
	t.change = decimal.Max(decimal.Zero, d.AmountTendered.Sub(t.net))
	t.owed = decimal.Max(decimal.Zero, t.net.Sub(d.AmountTendered))
	if (t.owed.IsPositive() || d.PaymentMethod == entity.PaymentCredit) && d.ClientID == "" {
		return t, domain.ErrCreditRequiresClient
	}
	return t, nil
}

// SaleCoordinator registra y anula ventas. Cada operación es una única transacción
// reejecutable: primero todas las lecturas, luego todas las escrituras.
type SaleCoordinator struct {
	txRunner ports.TxRunner
	ledger   *inventory.StockLedger
	audit    ports.AuditRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewSaleCoordinator construye el coordinador de ventas.
func NewSaleCoordinator(txRunner ports.TxRunner, ledger *inventory.StockLedger, audit ports.AuditRecorder, log *logger.Logger) *SaleCoordinator {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SaleCoordinator{txRunner: txRunner, ledger: ledger, audit: audit, log: log, now: time.Now}
}

// Commit registra la venta: descuenta stock de cada línea con un movimiento de salida,
// actualiza compras y deuda del cliente y persiste la venta como válida.
// Si alguna línea no tiene stock suficiente no se escribe nada.
func (s *SaleCoordinator) Commit(ctx context.Context, draft SaleDraft, actor entity.Actor) (*entity.Sale, error) {
	t, err := draft.validate()
	if err != nil {
		return nil, err
	}
	method := draft.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
		if t.owed.IsPositive() {
			method = entity.PaymentCredit
		}
	}

	saleID := uuid.New().String()
	number := newSaleNumber(saleID, s.now())

	var sale *entity.Sale
	err = s.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		// 1) Lecturas.
		products := make(map[string]*entity.Product, len(draft.Lines))
		requested := make(map[string]int64, len(draft.Lines))
		for _, l := range draft.Lines {
			requested[l.ProductID] += l.Quantity
			if _, ok := products[l.ProductID]; ok {
				continue
			}
			p, err := repos.Products.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
			}
			products[l.ProductID] = p
		}
		var client *entity.Client
		if draft.ClientID != "" {
			c, err := repos.Clients.GetForUpdate(ctx, draft.ClientID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("cliente %s: %w", draft.ClientID, domain.ErrNotFound)
			}
			client = c
		}

		// 2) Validación sobre la foto leída, por producto agregado.
		for _, l := range draft.Lines {
			p := products[l.ProductID]
			if p.StockOnHand < requested[l.ProductID] {
				return &domain.InsufficientStockError{ProductID: p.ID, Available: p.StockOnHand, Requested: requested[l.ProductID]}
			}
		}

		// 3) Escrituras.
		now := s.now()
		sale = &entity.Sale{
			ID:             saleID,
			Number:         number,
			Lines:          make([]entity.SaleLine, 0, len(draft.Lines)),
			TotalGross:     t.gross,
			Discount:       draft.Discount,
			TotalNet:       t.net,
			AmountTendered: draft.AmountTendered,
			ChangeDue:      t.change,
			AmountOwed:     t.owed,
			PaymentMethod:  method,
			Status:         entity.SaleStatusValid,
			CreatedByID:    actor.ID,
			CreatedByName:  actor.Name,
			CreatedAt:      now,
		}
		reason := fmt.Sprintf(SaleReason, number)
		for _, l := range draft.Lines {
			p := products[l.ProductID]
			sale.Lines = append(sale.Lines, entity.SaleLine{
				ProductID:   p.ID,
				ProductName: p.Name,
				SKU:         p.SKU,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				UnitCost:    p.PurchasePrice,
				Subtotal:    l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)),
			})
			if _, err := s.ledger.ApplyInTx(ctx, repos, p, inventory.ApplyMovementInput{
				ProductID: p.ID,
				Type:      entity.MovementExit,
				Quantity:  l.Quantity,
				Reason:    reason,
				Reference: saleID,
			}, actor, now); err != nil {
				return err
			}
		}
		if client != nil {
			sale.ClientID = client.ID
			sale.ClientName = client.Name
			if err := repos.Clients.UpdateBalances(ctx, client.ID,
				client.TotalPurchases.Add(t.net), client.DebtBalance.Add(t.owed)); err != nil {
				return err
			}
		}
		return repos.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Venta %s por %s (%d líneas, pago %s)", sale.Number, money.Format(sale.TotalNet), len(sale.Lines), sale.PaymentMethod)
	if sale.IsCredit() {
		details += fmt.Sprintf(". Saldo a crédito de %s para %s", money.Format(sale.AmountOwed), sale.ClientName)
	}
	s.audit.Record(entity.AuditEntry{
		Type:      entity.AuditTypeSale,
		Action:    "create",
		Details:   details,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: sale.CreatedAt,
	})
	return sale, nil
}

// Cancel anula una venta válida: reingresa el stock de cada línea con un movimiento de entrada,
// revierte compras y deuda del cliente (recortadas en cero) y deja la anulación en la venta.
// Anular dos veces devuelve domain.ErrAlreadyCancelled.
func (s *SaleCoordinator) Cancel(ctx context.Context, saleID, reason string, actor entity.Actor) (*entity.Sale, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Sale
	var clamped []string
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		clamped = nil

		// 1) Lecturas.
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		products := make(map[string]*entity.Product, len(sale.Lines))
		for _, l := range sale.Lines {
			if _, ok := products[l.ProductID]; ok {
				continue
			}
			p, err := repos.Products.GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
			}
			products[l.ProductID] = p
		}
		var client *entity.Client
		if sale.ClientID != "" {
			c, err := repos.Clients.GetForUpdate(ctx, sale.ClientID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("cliente %s: %w", sale.ClientID, domain.ErrNotFound)
			}
			client = c
		}

		// 2) Escrituras.
		now := s.now()
		movReason := fmt.Sprintf(CancellationReason, sale.Number)
		for _, l := range sale.Lines {
			if _, err := s.ledger.ApplyInTx(ctx, repos, products[l.ProductID], inventory.ApplyMovementInput{
				ProductID: l.ProductID,
				Type:      entity.MovementEntry,
				Quantity:  l.Quantity,
				Reason:    movReason,
				Reference: sale.ID,
			}, actor, now); err != nil {
				return err
			}
		}
		if client != nil {
			purchases, c1 := payment.FloorSub(client.TotalPurchases, sale.TotalNet)
			debt, c2 := payment.FloorSub(client.DebtBalance, sale.AmountOwed)
			if c1 {
				clamped = append(clamped, "total_purchases")
			}
			if c2 {
				clamped = append(clamped, "debt_balance")
			}
			if err := repos.Clients.UpdateBalances(ctx, client.ID, purchases, debt); err != nil {
				return err
			}
		}
		if err := repos.Sales.MarkCancelled(ctx, sale.ID, actor, now, reason); err != nil {
			return err
		}

		result = sale.Clone()
		result.Status = entity.SaleStatusCancelled
		result.CancelledByID = actor.ID
		result.CancelledByName = actor.Name
		result.CancelledAt = &now
		result.CancelReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Venta %s anulada (%s). Motivo: %s", result.Number, money.Format(result.TotalNet), reason)
	if len(clamped) > 0 {
		s.log.Warn().
			Str("sale_id", result.ID).
			Str("client_id", result.ClientID).
			Strs("fields", clamped).
			Msg("anulación dejó saldos del cliente por debajo de cero; se recortaron a cero")
		details += fmt.Sprintf(" [clamped: %s]", strings.Join(clamped, ", "))
	}
	s.audit.Record(entity.AuditEntry{
		Type:      entity.AuditTypeSale,
		Action:    "cancel",
		Details:   details,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Timestamp: *result.CancelledAt,
	})
	return result, nil
}

// GetSale obtiene una venta por ID.
func (s *SaleCoordinator) GetSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := s.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		v, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
		sale = v
		return nil
	})
	return sale, err
}

// newSaleNumber número legible de la venta: V-AAAAMMDD-XXXXXXXX.
func newSaleNumber(id string, at time.Time) string {
	return fmt.Sprintf("V-%s-%s", at.Format("20060102"), strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8]))
}
