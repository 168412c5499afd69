package inventory

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/inventory"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// LedgerReport compara el stock materializado con el stock reconstruido desde el libro.
type LedgerReport struct {
	ProductID     string
	ProductName   string
	StockOnHand   int64
	Replayed      int64
	MovementCount int
	Consistent    bool
}

// LedgerVerifier verifica que StockOnHand sea la suma de su historial de movimientos.
type LedgerVerifier struct {
	txRunner ports.TxRunner
	pageSize int
}

// NewLedgerVerifier construye el verificador.
func NewLedgerVerifier(txRunner ports.TxRunner) *LedgerVerifier {
	return &LedgerVerifier{txRunner: txRunner, pageSize: 500}
}

// Verify reconstruye el stock de un producto; lee producto y movimientos en la misma tx
// para comparar contra una foto consistente.
func (v *LedgerVerifier) Verify(ctx context.Context, productID string) (*LedgerReport, error) {
	var report *LedgerReport
	err := v.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		movements, err := v.allMovements(ctx, repos, productID)
		if err != nil {
			return err
		}
		replayed := inventory.Replay(movements)
		report = &LedgerReport{
			ProductID:     product.ID,
			ProductName:   product.Name,
			StockOnHand:   product.StockOnHand,
			Replayed:      replayed,
			MovementCount: len(movements),
			Consistent:    replayed == product.StockOnHand,
		}
		return nil
	})
	return report, err
}

// VerifyAll verifica todo el catálogo y devuelve solo los productos inconsistentes.
func (v *LedgerVerifier) VerifyAll(ctx context.Context) (checked int, broken []LedgerReport, err error) {
	offset := 0
	for {
		var page []*entity.Product
		err = v.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			var err error
			page, err = repos.Products.List(ctx, v.pageSize, offset)
			return err
		})
		if err != nil {
			return checked, broken, err
		}
		for _, p := range page {
			report, err := v.Verify(ctx, p.ID)
			if err != nil {
				return checked, broken, err
			}
			checked++
			if !report.Consistent {
				broken = append(broken, *report)
			}
		}
		if len(page) < v.pageSize {
			return checked, broken, nil
		}
		offset += v.pageSize
	}
}

func (v *LedgerVerifier) allMovements(ctx context.Context, repos repository.Repositories, productID string) ([]entity.Movement, error) {
	var out []entity.Movement
	offset := 0
	for {
		page, err := repos.Movements.ListByProduct(ctx, productID, v.pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, m := range page {
			out = append(out, *m)
		}
		if len(page) < v.pageSize {
			return out, nil
		}
		offset += v.pageSize
	}
}
