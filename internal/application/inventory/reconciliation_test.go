package inventory_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/application/apptest"
	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

func newEngine(env *apptest.Env, log *logger.Logger) *inventory.ReconciliationEngine {
	return inventory.NewReconciliationEngine(env.Store, env.Ledger, env.Audit, log)
}

// Escenario E: solo P1 cambia a 8 con un ajuste; P2 queda intacto; la sesión queda validada
// y una segunda validación falla con AlreadyValidated.
func TestApplySession_SoloLineasConDiferencia(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 10, 100, 150)
	p2 := env.Product(t, "P2", 5, 100, 150)
	engine := newEngine(env, nil)

	session, err := engine.OpenSession(context.Background(), inventory.OpenSessionInput{
		Name:   "Conteo mensual",
		Counts: []inventory.CountInput{{ProductID: p1, CountedStock: 8}, {ProductID: p2, CountedStock: 5}},
	}, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusOpen, session.Status)
	assert.Equal(t, int64(-2), session.Lines[0].Variance)
	assert.Equal(t, int64(0), session.Lines[1].Variance)
	assert.Equal(t, int64(10), env.Stock(t, p1), "abrir la sesión no toca el stock")

	validated, err := engine.ApplySession(context.Background(), session.ID, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusValidated, validated.Status)
	require.NotNil(t, validated.ValidatedAt)

	assert.Equal(t, int64(8), env.Stock(t, p1))
	assert.Equal(t, int64(5), env.Stock(t, p2))
	movs1 := env.Movements(t, p1)
	require.Len(t, movs1, 2)
	adj := movs1[1]
	assert.Equal(t, entity.MovementAdjustment, adj.Type)
	assert.Equal(t, int64(10), adj.StockBefore)
	assert.Equal(t, int64(8), adj.StockAfter)
	assert.Equal(t, fmt.Sprintf("Inventory reconciliation %s", session.ID), adj.Reason)
	assert.Len(t, env.Movements(t, p2), 1, "sin diferencia no hay movimiento")
	env.AssertLedgerConsistent(t, p1, p2)

	_, err = engine.ApplySession(context.Background(), session.ID, env.Actor)
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
	assert.Equal(t, int64(8), env.Stock(t, p1))

	stored, err := engine.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusValidated, stored.Status)
	assert.Equal(t, env.Actor.Name, stored.ValidatedByName)
}

// Si el stock cambió entre la apertura y la validación se aplica el valor contado,
// el movimiento parte del stock real y queda una advertencia en el log.
func TestApplySession_StockCambioDesdeLaApertura(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 10, 100, 150)
	var buf bytes.Buffer
	engine := newEngine(env, logger.NewWithWriter(&buf, "warn"))

	session, err := engine.OpenSession(context.Background(), inventory.OpenSessionInput{
		Counts: []inventory.CountInput{{ProductID: p1, CountedStock: 7}},
	}, env.Actor)
	require.NoError(t, err)

	_, err = env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: p1, Type: entity.MovementExit, Quantity: 1,
	}, env.Actor)
	require.NoError(t, err)

	_, err = engine.ApplySession(context.Background(), session.ID, env.Actor)
	require.NoError(t, err)

	assert.Equal(t, int64(7), env.Stock(t, p1))
	movs := env.Movements(t, p1)
	last := movs[len(movs)-1]
	assert.Equal(t, int64(9), last.StockBefore)
	assert.Equal(t, int64(7), last.StockAfter)
	assert.Contains(t, buf.String(), "el stock cambió desde que se abrió la sesión")
	env.AssertLedgerConsistent(t, p1)
}

func TestOpenSession_EntradasInvalidas(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 10, 100, 150)
	engine := newEngine(env, nil)

	bad := []inventory.OpenSessionInput{
		{},
		{Counts: []inventory.CountInput{{ProductID: p1, CountedStock: -1}}},
		{Counts: []inventory.CountInput{{ProductID: p1, CountedStock: 1}, {ProductID: p1, CountedStock: 2}}},
	}
	for _, in := range bad {
		_, err := engine.OpenSession(context.Background(), in, env.Actor)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := engine.OpenSession(context.Background(), inventory.OpenSessionInput{
		Counts: []inventory.CountInput{{ProductID: "nope", CountedStock: 1}},
	}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = engine.ApplySession(context.Background(), "nope", env.Actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
