package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrAlreadyCancelled     = errors.New("la venta ya fue anulada")
	ErrAlreadyReceived      = errors.New("la orden de compra ya fue recibida")
	ErrAlreadyValidated     = errors.New("la sesión de inventario ya fue validada")
	ErrAmountExceedsDue     = errors.New("el monto excede el saldo pendiente")
	ErrInvalidTransition    = errors.New("transición de estado no permitida")
	ErrCreditRequiresClient = errors.New("una venta a crédito requiere un cliente")
	ErrTransactionConflict  = errors.New("conflicto de concurrencia: reintentos agotados")
)

// InsufficientStockError detalla qué producto impide la operación.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsBusinessRule indica si el error es una regla de negocio (no un fallo de infraestructura).
func IsBusinessRule(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrInsufficientStock,
		ErrAlreadyCancelled, ErrAlreadyReceived, ErrAlreadyValidated,
		ErrAmountExceedsDue, ErrInvalidTransition, ErrCreditRequiresClient,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
