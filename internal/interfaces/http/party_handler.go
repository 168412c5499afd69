package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/payment"
	"github.com/jhoicas/retail-ops/internal/application/usecase"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// PartyHandler clientes y proveedores (protegido).
type PartyHandler struct {
	uc       *usecase.PartyUseCase
	payments *payment.PaymentLedger
	log      *logger.Logger
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *usecase.PartyUseCase, payments *payment.PaymentLedger, log *logger.Logger) *PartyHandler {
	return &PartyHandler{uc: uc, payments: payments, log: log}
}

// CreateClient godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Nombre, documento y teléfono"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *PartyHandler) CreateClient(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateClient(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetClient godoc
// @Summary      Obtener cliente (incluye saldo de deuda)
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *PartyHandler) GetClient(c *fiber.Ctx) error {
	out, err := h.uc.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PayClientDebt godoc
// @Summary      Registrar abono a la deuda de un cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del cliente"
// @Param        body  body  dto.PaymentRequest  true  "Monto"
// @Success      200   {object}  dto.ClientPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/payments [post]
func (h *PartyHandler) PayClientDebt(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client, err := h.payments.PayClientDebt(c.UserContext(), c.Params("id"), in.Amount, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ClientPaymentResponse{ClientID: client.ID, Amount: in.Amount, DebtBalance: client.DebtBalance})
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Nombre, documento y teléfono"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *PartyHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSupplier(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor (incluye deuda pendiente)
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *PartyHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.uc.GetSupplier(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
