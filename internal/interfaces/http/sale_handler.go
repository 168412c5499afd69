package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/sales"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// SaleHandler ventas de caja (protegido).
type SaleHandler struct {
	coordinator *sales.SaleCoordinator
	log         *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(coordinator *sales.SaleCoordinator, log *logger.Logger) *SaleHandler {
	return &SaleHandler{coordinator: coordinator, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de cada línea, acumula compras del cliente y, si queda saldo, su deuda.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas, descuento, monto recibido, método de pago, cliente"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.coordinator.Commit(c.UserContext(), sales.DraftFromRequest(in), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sales.ToSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.coordinator.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(sales.ToSaleResponse(sale))
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Devuelve el stock y revierte los acumulados del cliente.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  false "Motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	sale, err := h.coordinator.Cancel(c.UserContext(), c.Params("id"), in.Reason, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(sales.ToSaleResponse(sale))
}
