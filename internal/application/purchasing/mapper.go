package purchasing

import (
	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// InputFromRequest traduce el body HTTP a la entrada de creación.
func InputFromRequest(in dto.CreatePurchaseOrderRequest) CreatePurchaseOrderInput {
	lines := make([]OrderLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	return CreatePurchaseOrderInput{SupplierID: in.SupplierID, Lines: lines, AmountPaid: in.AmountPaid}
}

// ToPurchaseOrderResponse mapea la orden a su DTO.
func ToPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if o == nil {
		return nil
	}
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			Quantity:         l.Quantity,
			UnitCost:         l.UnitCost,
			Subtotal:         l.Subtotal,
			ReceivedQuantity: l.ReceivedQuantity,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		SupplierID:    o.SupplierID,
		SupplierName:  o.SupplierName,
		Status:        o.Status,
		Lines:         lines,
		TotalAmount:   o.TotalAmount,
		AmountPaid:    o.AmountPaid,
		AmountDue:     o.AmountDue,
		PaymentStatus: o.PaymentStatus,
		CreatedByName: o.CreatedByName,
		CreatedAt:     o.CreatedAt,
		OrderedAt:     o.OrderedAt,
		ReceivedAt:    o.ReceivedAt,
		CancelledAt:   o.CancelledAt,
	}
}
