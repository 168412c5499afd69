package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/payment"
	"github.com/jhoicas/retail-ops/internal/application/purchasing"
	"github.com/jhoicas/retail-ops/internal/application/sales"
	"github.com/jhoicas/retail-ops/internal/application/usecase"
	"github.com/jhoicas/retail-ops/internal/infrastructure/metrics"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *inventory.StockLedger
	Reconciliation *inventory.ReconciliationEngine
	Verifier       *inventory.LedgerVerifier
	Replenishment  *inventory.ReplenishmentUseCase
	Sales          *sales.SaleCoordinator
	Purchasing     *purchasing.OrderLifecycle
	Payments       *payment.PaymentLedger
	ProductUC      *usecase.ProductUseCase
	PartyUC        *usecase.PartyUseCase
	JWTSecret      string
	Metrics        *metrics.Metrics
	Log            *logger.Logger
}

// NewApp crea la app Fiber con recover, métricas, /health y /metrics.
func NewApp(name string, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(MetricsMiddleware(m))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	stockRoles := RequireRole(RoleAdmin, RoleWarehouse)
	salesRoles := RequireRole(RoleAdmin, RoleCashier)
	anyRole := RequireRole(RoleAdmin, RoleCashier, RoleWarehouse)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/products")
	products.Post("/", stockRoles, productHandler.Create)
	products.Get("/:id", anyRole, productHandler.GetByID)

	partyHandler := NewPartyHandler(deps.PartyUC, deps.Payments, log)
	clients := api.Group("/clients")
	clients.Post("/", salesRoles, partyHandler.CreateClient)
	clients.Get("/:id", anyRole, partyHandler.GetClient)
	clients.Post("/:id/payments", salesRoles, partyHandler.PayClientDebt)

	suppliers := api.Group("/suppliers")
	suppliers.Post("/", stockRoles, partyHandler.CreateSupplier)
	suppliers.Get("/:id", anyRole, partyHandler.GetSupplier)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Reconciliation, deps.Verifier, deps.Replenishment, log)
	inv := api.Group("/inventory")
	inv.Post("/movements", stockRoles, inventoryHandler.RegisterMovement)
	inv.Get("/products/:id/movements", anyRole, inventoryHandler.ListMovements)
	inv.Get("/products/:id/ledger", stockRoles, inventoryHandler.VerifyLedger)
	inv.Get("/replenishment", stockRoles, inventoryHandler.GetReplenishmentList)
	inv.Post("/sessions", stockRoles, inventoryHandler.OpenSession)
	inv.Get("/sessions/:id", stockRoles, inventoryHandler.GetSession)
	inv.Post("/sessions/:id/apply", stockRoles, inventoryHandler.ApplySession)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales, log)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", salesRoles, saleHandler.Create)
	salesGroup.Get("/:id", anyRole, saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", salesRoles, saleHandler.Cancel)

	// Compras
	orderHandler := NewPurchaseOrderHandler(deps.Purchasing, deps.Payments, log)
	orders := api.Group("/purchase-orders")
	orders.Post("/", stockRoles, orderHandler.Create)
	orders.Get("/:id", stockRoles, orderHandler.GetByID)
	orders.Post("/:id/transition", stockRoles, orderHandler.Transition)
	orders.Post("/:id/receive", stockRoles, orderHandler.Receive)
	orders.Post("/:id/payments", stockRoles, orderHandler.Pay)
}
