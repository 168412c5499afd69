package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/payment"
	"github.com/jhoicas/retail-ops/internal/application/purchasing"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// PurchaseOrderHandler órdenes de compra y sus pagos (protegido).
type PurchaseOrderHandler struct {
	lifecycle *purchasing.OrderLifecycle
	payments  *payment.PaymentLedger
	log       *logger.Logger
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(lifecycle *purchasing.OrderLifecycle, payments *payment.PaymentLedger, log *logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{lifecycle: lifecycle, payments: payments, log: log}
}

// Create godoc
// @Summary      Crear orden de compra (borrador)
// @Description  El total se reconoce de inmediato como deuda con el proveedor.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor, líneas y abono inicial opcional"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.lifecycle.Create(c.UserContext(), purchasing.InputFromRequest(in), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchasing.ToPurchaseOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.lifecycle.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseOrderResponse(order))
}

// Transition godoc
// @Summary      Cambiar estado de la orden (ordered, received, cancelled)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la orden"
// @Param        body  body  dto.TransitionRequest  true  "Estado destino"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/transition [post]
func (h *PurchaseOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.lifecycle.Transition(c.UserContext(), c.Params("id"), in.Status, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseOrderResponse(order))
}

// Receive godoc
// @Summary      Recibir mercancía
// @Description  Registra una entrada por línea y actualiza el costo promedio ponderado.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID de la orden"
// @Param        body  body  dto.ReceiveRequest  false  "Cantidades recibidas por producto"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	order, err := h.lifecycle.Receive(c.UserContext(), purchasing.ReceiveInput{OrderID: c.Params("id"), Quantities: in.Quantities}, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseOrderResponse(order))
}

// Pay godoc
// @Summary      Registrar pago a proveedor sobre una orden
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la orden"
// @Param        body  body  dto.PaymentRequest  true  "Monto"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/payments [post]
func (h *PurchaseOrderHandler) Pay(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.payments.PayPurchaseOrder(c.UserContext(), c.Params("id"), in.Amount, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseOrderResponse(order))
}
