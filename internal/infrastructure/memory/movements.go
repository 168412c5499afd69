package memory

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

const tableMovements = "movements"

type movementRepo struct{ t *tx }

var _ repository.MovementRepository = (*movementRepo)(nil)

// Create agrega el movimiento al libro. La secuencia se asigna al hacer commit y se copia
// también al movimiento del caller.
func (r *movementRepo) Create(_ context.Context, movement *entity.Movement) error {
	s := r.t.s
	c := *movement
	r.t.stage(key(tableMovements, movement.ID), func() {
		s.seq++
		c.Seq = s.seq
		movement.Seq = s.seq
		s.movements = append(s.movements, &c)
	})
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range s.movements {
		if m.ProductID == productID {
			c := *m
			out = append(out, &c)
		}
	}
	return paginate(out, limit, offset), nil
}
