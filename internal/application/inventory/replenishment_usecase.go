package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos bajo su stock mínimo con la
// cantidad sugerida de pedido, priorizados por margen y déficit.
type ReplenishmentUseCase struct {
	txRunner ports.TxRunner
	pageSize int
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(txRunner ports.TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{txRunner: txRunner, pageSize: 500}
}

// GenerateReplenishmentList recorre el catálogo y devuelve los productos bajo mínimo.
// IdealStock = StockMinimum * 1.5; SuggestedOrderQty = IdealStock - StockOnHand.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	var below []*entity.Product
	for offset := 0; ; offset += uc.pageSize {
		var page []*entity.Product
		err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			var err error
			page, err = repos.Products.List(ctx, uc.pageSize, offset)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if p.BelowMinimum() {
				below = append(below, p)
			}
		}
		if len(page) < uc.pageSize {
			break
		}
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(below))
	for _, p := range below {
		ideal := decimal.NewFromInt(p.StockMinimum).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
		qty := ideal - p.StockOnHand
		if qty < 0 {
			qty = 0
		}
		var margin decimal.Decimal
		if p.SalePrice.IsPositive() {
			margin = p.SalePrice.Sub(p.PurchasePrice).Div(p.SalePrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.StockOnHand,
			StockMinimum:       p.StockMinimum,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.PurchasePrice,
			EstimatedOrderCost: p.PurchasePrice.Mul(decimal.NewFromInt(qty)),
			GrossMarginPct:     margin,
		})
	}

	// Primero mayor margen, luego mayor déficit bajo el mínimo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		return a.StockMinimum-a.CurrentStock > b.StockMinimum-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
