package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/application/apptest"
	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Apply
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: stock 10, salida de 4 → stock 6 y un movimiento {10 → 6}.
func TestApply_SalidaDescuentaYRegistraMovimiento(t *testing.T) {
	env := apptest.NewEnv(t)
	p := env.Product(t, "P", 10, 100, 150)

	mov, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: p, Type: entity.MovementExit, Quantity: 4, Reason: "sale",
	}, env.Actor)

	require.NoError(t, err)
	assert.Equal(t, int64(10), mov.StockBefore)
	assert.Equal(t, int64(6), mov.StockAfter)
	assert.Equal(t, "sale", mov.Reason)
	assert.Equal(t, env.Actor.ID, mov.ActorID)
	assert.Equal(t, "Producto P", mov.ProductName)
	assert.Equal(t, int64(6), env.Stock(t, p))

	movs := env.Movements(t, p)
	require.Len(t, movs, 2, "entrada inicial + salida")
	assert.Equal(t, entity.MovementExit, movs[1].Type)
	env.AssertLedgerConsistent(t, p)

	last := env.Audit.Last()
	assert.Equal(t, entity.AuditTypeStock, last.Type)
	assert.Equal(t, entity.MovementExit, last.Action)
	assert.Equal(t, env.Actor.Name, last.ActorName)
}

func TestApply_StockInsuficiente_NoEscribeNada(t *testing.T) {
	env := apptest.NewEnv(t)
	p := env.Product(t, "P", 3, 100, 150)
	auditBefore := len(env.Audit.Entries())

	_, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: p, Type: entity.MovementExit, Quantity: 5,
	}, env.Actor)

	require.Error(t, err)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, p, ise.ProductID)
	assert.Equal(t, int64(3), ise.Available)
	assert.Equal(t, int64(3), env.Stock(t, p))
	assert.Len(t, env.Movements(t, p), 1)
	assert.Len(t, env.Audit.Entries(), auditBefore, "sin commit no hay bitácora")
}

func TestApply_AjusteFijaValorAbsoluto(t *testing.T) {
	env := apptest.NewEnv(t)
	p := env.Product(t, "P", 10, 100, 150)

	mov, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: p, Type: entity.MovementAdjustment, Quantity: 2,
	}, env.Actor)

	require.NoError(t, err)
	assert.Equal(t, int64(2), mov.StockAfter)
	assert.Equal(t, "Ajuste manual", mov.Reason)
	env.AssertLedgerConsistent(t, p)
}

func TestApply_EntradasInvalidas(t *testing.T) {
	env := apptest.NewEnv(t)
	p := env.Product(t, "P", 10, 100, 150)

	cases := []inventory.ApplyMovementInput{
		{ProductID: "", Type: entity.MovementEntry, Quantity: 1},
		{ProductID: p, Type: "transfer", Quantity: 1},
		{ProductID: p, Type: entity.MovementEntry, Quantity: 0},
		{ProductID: p, Type: entity.MovementExit, Quantity: -2},
		{ProductID: p, Type: entity.MovementAdjustment, Quantity: -1},
	}
	for _, in := range cases {
		_, err := env.Ledger.Apply(context.Background(), in, env.Actor)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Equal(t, int64(10), env.Stock(t, p))
}

func TestApply_ProductoInexistente(t *testing.T) {
	env := apptest.NewEnv(t)
	_, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: "nope", Type: entity.MovementEntry, Quantity: 1,
	}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Salidas concurrentes sobre el mismo producto nunca dejan stock negativo.
func TestApply_SalidasConcurrentes_NoSobrevende(t *testing.T) {
	env := apptest.NewEnv(t)
	p := env.Product(t, "P", 10, 100, 150)

	const workers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
				ProductID: p, Type: entity.MovementExit, Quantity: 1,
			}, env.Actor)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, insufficient)
	assert.Equal(t, int64(0), env.Stock(t, p))
	assert.Len(t, env.Movements(t, p), 11)
	env.AssertLedgerConsistent(t, p)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y verificación
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_Paginado(t *testing.T) {
	env := apptest.NewEnv(t)
	p := env.Product(t, "P", 10, 100, 150)
	for i := 0; i < 4; i++ {
		_, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
			ProductID: p, Type: entity.MovementExit, Quantity: 1,
		}, env.Actor)
		require.NoError(t, err)
	}

	res, err := env.Ledger.ListMovements(context.Background(), p, dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(10), res.Items[0].StockBefore)
	assert.Equal(t, int64(9), res.Items[0].StockAfter)
	assert.Less(t, res.Items[0].Seq, res.Items[1].Seq)

	_, err = env.Ledger.ListMovements(context.Background(), "nope", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyAll_CatalogoConsistente(t *testing.T) {
	env := apptest.NewEnv(t)
	a := env.Product(t, "A", 5, 100, 150)
	env.Product(t, "B", 0, 100, 150)
	_, err := env.Ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID: a, Type: entity.MovementAdjustment, Quantity: 9,
	}, env.Actor)
	require.NoError(t, err)

	checked, broken, err := inventory.NewLedgerVerifier(env.Store).VerifyAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, checked)
	assert.Empty(t, broken)
}
