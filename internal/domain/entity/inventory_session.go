package entity

import "time"

// Estados de una sesión de conteo físico.
const (
	SessionStatusOpen      = "open"
	SessionStatusValidated = "validated"
)

// InventorySessionLine compara el stock teórico con el contado.
type InventorySessionLine struct {
	ProductID        string
	ProductName      string
	TheoreticalStock int64
	CountedStock     int64
	Variance         int64 // CountedStock - TheoreticalStock
}

// InventorySession es una propuesta de ajuste; el stock solo cambia al validarla.
type InventorySession struct {
	ID              string
	Name            string
	Lines           []InventorySessionLine
	Status          string
	CreatedByID     string
	CreatedByName   string
	CreatedAt       time.Time
	ValidatedByID   string
	ValidatedByName string
	ValidatedAt     *time.Time
}

// Clone devuelve una copia profunda.
func (s *InventorySession) Clone() *InventorySession {
	if s == nil {
		return nil
	}
	c := *s
	c.Lines = append([]InventorySessionLine(nil), s.Lines...)
	c.ValidatedAt = cloneTime(s.ValidatedAt)
	return &c
}
