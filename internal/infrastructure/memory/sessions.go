package memory

import (
	"context"
	"time"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

const tableSessions = "inventory_sessions"

type sessionRepo struct{ t *tx }

var _ repository.InventorySessionRepository = (*sessionRepo)(nil)

func (r *sessionRepo) Create(_ context.Context, session *entity.InventorySession) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableSessions, session.ID))
	if _, ok := s.sessions[session.ID]; ok {
		return domain.ErrDuplicate
	}
	c := session.Clone()
	r.t.stage(key(tableSessions, session.ID), func() { s.sessions[c.ID] = c })
	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, id string) (*entity.InventorySession, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r.t.observe(key(tableSessions, id))
	return s.sessions[id].Clone(), nil
}

func (r *sessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventorySession, error) {
	return r.GetByID(ctx, id)
}

func (r *sessionRepo) MarkValidated(_ context.Context, id string, by entity.Actor, at time.Time) error {
	s := r.t.s
	r.t.stage(key(tableSessions, id), func() {
		if v, ok := s.sessions[id]; ok {
			v.Status = entity.SessionStatusValidated
			v.ValidatedByID = by.ID
			v.ValidatedByName = by.Name
			v.ValidatedAt = &at
		}
	})
	return nil
}
