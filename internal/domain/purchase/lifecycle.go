// Package purchase define la máquina de estados de las órdenes de compra.
package purchase

import (
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// transitions estados destino permitidos desde cada estado (recepción aparte).
var transitions = map[string][]string{
	entity.OrderStatusDraft:   {entity.OrderStatusOrdered, entity.OrderStatusCancelled},
	entity.OrderStatusOrdered: {entity.OrderStatusCancelled},
}

// CanTransition valida una transición simple (draft→ordered, draft|ordered→cancelled).
func CanTransition(from, to string) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return domain.ErrInvalidTransition
}

// CanReceive valida la recepción. Una orden recibida no se puede recibir de nuevo.
// allowFromDraft habilita la recepción directa desde borrador.
func CanReceive(status string, allowFromDraft bool) error {
	switch status {
	case entity.OrderStatusOrdered:
		return nil
	case entity.OrderStatusDraft:
		if allowFromDraft {
			return nil
		}
		return domain.ErrInvalidTransition
	case entity.OrderStatusReceived:
		return domain.ErrAlreadyReceived
	default:
		return domain.ErrInvalidTransition
	}
}
