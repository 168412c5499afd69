package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// ProductUseCase alta y consulta del catálogo. El stock solo cambia vía movimientos:
// el stock inicial se registra como una entrada en la misma transacción del alta.
type ProductUseCase struct {
	txRunner ports.TxRunner
	ledger   *inventory.StockLedger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner ports.TxRunner, ledger *inventory.StockLedger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, ledger: ledger}
}

// Create crea un nuevo producto con stock 0 y, si se indica, su entrada de stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, actor entity.Actor) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" || in.StockMinimum < 0 || in.InitialStock < 0 ||
		in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	id := uuid.New().String()

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		now := time.Now()
		product = &entity.Product{
			ID:            id,
			SKU:           in.SKU,
			Name:          in.Name,
			StockMinimum:  in.StockMinimum,
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		_, err := uc.ledger.ApplyInTx(ctx, repos, product, inventory.ApplyMovementInput{
			ProductID: product.ID,
			Type:      entity.MovementEntry,
			Quantity:  in.InitialStock,
			Reason:    "Stock inicial",
			Reference: product.ID,
		}, actor, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		StockOnHand:   p.StockOnHand,
		StockMinimum:  p.StockMinimum,
		BelowMinimum:  p.BelowMinimum(),
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
