package entity

import "time"

// Tipos de entidad documentados en la bitácora.
const (
	AuditTypeStock     = "stock"
	AuditTypeSale      = "sale"
	AuditTypePurchase  = "purchase_order"
	AuditTypePayment   = "payment"
	AuditTypeInventory = "inventory_session"
)

// AuditEntry registro legible de una operación que cambió estado.
type AuditEntry struct {
	ID        string
	Type      string
	Action    string
	Details   string
	ActorID   string
	ActorName string
	Timestamp time.Time
}
