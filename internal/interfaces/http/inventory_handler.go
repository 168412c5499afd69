package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// InventoryHandler movimientos, historial, conteos físicos y reposición (protegido).
type InventoryHandler struct {
	ledger        *inventory.StockLedger
	engine        *inventory.ReconciliationEngine
	verifier      *inventory.LedgerVerifier
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	engine *inventory.ReconciliationEngine,
	verifier *inventory.LedgerVerifier,
	replenishment *inventory.ReplenishmentUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, engine: engine, verifier: verifier, replenishment: replenishment, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (entry|exit|adjustment), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.ApplyFromRequest(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto (orden del libro)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.ledger.ListMovements(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// VerifyLedger godoc
// @Summary      Reconstruir el stock desde el libro y compararlo con el materializado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.LedgerReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/ledger [get]
func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	r, err := h.verifier.Verify(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.LedgerReportResponse{
		ProductID:     r.ProductID,
		StockOnHand:   r.StockOnHand,
		Replayed:      r.Replayed,
		MovementCount: r.MovementCount,
		Consistent:    r.Consistent,
	})
}

// OpenSession godoc
// @Summary      Abrir sesión de conteo físico
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "Nombre y conteos"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions [post]
func (h *InventoryHandler) OpenSession(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	counts := make([]inventory.CountInput, 0, len(in.Counts))
	for _, ct := range in.Counts {
		counts = append(counts, inventory.CountInput{ProductID: ct.ProductID, CountedStock: ct.CountedStock})
	}
	s, err := h.engine.OpenSession(c.UserContext(), inventory.OpenSessionInput{Name: in.Name, Counts: counts}, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToSessionResponse(s))
}

// GetSession godoc
// @Summary      Obtener sesión de conteo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id} [get]
func (h *InventoryHandler) GetSession(c *fiber.Ctx) error {
	s, err := h.engine.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToSessionResponse(s))
}

// ApplySession godoc
// @Summary      Validar sesión de conteo (ajusta el stock de cada producto con diferencia)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/apply [post]
func (h *InventoryHandler) ApplySession(c *fiber.Ctx) error {
	s, err := h.engine.ApplySession(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventory.ToSessionResponse(s))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos por debajo del stock mínimo con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReplenishmentListResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReplenishmentListResponse{Total: len(list), Replenishments: list})
}
