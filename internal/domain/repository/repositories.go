package repository

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products       ProductRepository
	Movements      MovementRepository
	Sales          SaleRepository
	Clients        ClientRepository
	Suppliers      SupplierRepository
	PurchaseOrders PurchaseOrderRepository
	Sessions       InventorySessionRepository
}
