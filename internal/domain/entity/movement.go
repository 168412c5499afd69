package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementEntry      = "entry"      // entrada: suma
	MovementExit       = "exit"       // salida: resta
	MovementAdjustment = "adjustment" // ajuste: fija el valor absoluto
)

// Movement es una fila inmutable del libro de stock: un cambio de stock con su antes/después.
// ProductName se copia al momento de escribir (snapshot histórico, no FK viva).
type Movement struct {
	ID          string
	Seq         int64 // orden de inserción en el libro
	ProductID   string
	ProductName string
	Type        string
	Quantity    int64 // siempre >= 0; el signo lo da Type
	StockBefore int64
	StockAfter  int64
	Reason      string
	Reference   string // id de la venta, orden o sesión que originó el movimiento
	ActorID     string
	ActorName   string
	CreatedAt   time.Time
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}
