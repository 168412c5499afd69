package inventory

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// ApplyFromRequest adapta el request HTTP a Apply.
func (l *StockLedger) ApplyFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := l.Apply(ctx, ApplyMovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Reference: in.Reference,
	}, actor)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ListMovements devuelve el historial de un producto en orden de inserción.
func (l *StockLedger) ListMovements(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	var list []*entity.Movement
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		list, err = repos.Movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToMovementResponse convierte un movimiento a su DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		Seq:         m.Seq,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		Reference:   m.Reference,
		ActorID:     m.ActorID,
		ActorName:   m.ActorName,
		CreatedAt:   m.CreatedAt,
	}
}

// ToSessionResponse convierte una sesión de conteo a su DTO de salida.
func ToSessionResponse(s *entity.InventorySession) *dto.SessionResponse {
	lines := make([]dto.SessionLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SessionLineResponse{
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			TheoreticalStock: l.TheoreticalStock,
			CountedStock:     l.CountedStock,
			Variance:         l.Variance,
		})
	}
	return &dto.SessionResponse{
		ID:              s.ID,
		Name:            s.Name,
		Status:          s.Status,
		Lines:           lines,
		CreatedByName:   s.CreatedByName,
		CreatedAt:       s.CreatedAt,
		ValidatedByName: s.ValidatedByName,
		ValidatedAt:     s.ValidatedAt,
	}
}
