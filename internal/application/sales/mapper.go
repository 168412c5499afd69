package sales

import (
	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// DraftFromRequest traduce el body HTTP al borrador de venta.
func DraftFromRequest(in dto.CreateSaleRequest) SaleDraft {
	lines := make([]SaleLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return SaleDraft{
		Lines:          lines,
		Discount:       in.Discount,
		AmountTendered: in.AmountTendered,
		PaymentMethod:  in.PaymentMethod,
		ClientID:       in.ClientID,
	}
}

// ToSaleResponse mapea la venta a su DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitCost:    l.UnitCost,
			Subtotal:    l.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:              s.ID,
		Number:          s.Number,
		Status:          s.Status,
		Lines:           lines,
		TotalGross:      s.TotalGross,
		Discount:        s.Discount,
		TotalNet:        s.TotalNet,
		AmountTendered:  s.AmountTendered,
		ChangeDue:       s.ChangeDue,
		AmountOwed:      s.AmountOwed,
		PaymentMethod:   s.PaymentMethod,
		ClientID:        s.ClientID,
		ClientName:      s.ClientName,
		CreatedByName:   s.CreatedByName,
		CreatedAt:       s.CreatedAt,
		CancelledByName: s.CancelledByName,
		CancelledAt:     s.CancelledAt,
		CancelReason:    s.CancelReason,
	}
}
