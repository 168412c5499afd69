package inventory

import (
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// NextStock calcula el stock resultante de aplicar un movimiento.
// entry suma, exit resta, adjustment fija el valor absoluto. Nunca devuelve un stock negativo:
// en ese caso retorna *domain.InsufficientStockError.
func NextStock(productID, movementType string, before, quantity int64) (int64, error) {
	var after int64
	switch movementType {
	case entity.MovementEntry:
		if quantity <= 0 {
			return before, domain.ErrInvalidInput
		}
		after = before + quantity
	case entity.MovementExit:
		if quantity <= 0 {
			return before, domain.ErrInvalidInput
		}
		after = before - quantity
	case entity.MovementAdjustment:
		after = quantity
	default:
		return before, domain.ErrInvalidInput
	}
	if after < 0 {
		requested := quantity
		if movementType == entity.MovementAdjustment {
			requested = before - quantity
		}
		return before, &domain.InsufficientStockError{ProductID: productID, Available: before, Requested: requested}
	}
	return after, nil
}

// Replay reconstruye el stock a partir del historial de movimientos, en orden cronológico, desde 0.
func Replay(movements []entity.Movement) int64 {
	var stock int64
	for _, m := range movements {
		switch m.Type {
		case entity.MovementEntry:
			stock += m.Quantity
		case entity.MovementExit:
			stock -= m.Quantity
		case entity.MovementAdjustment:
			stock = m.Quantity
		}
	}
	return stock
}
