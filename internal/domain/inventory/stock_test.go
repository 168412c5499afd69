package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// NextStock
// ──────────────────────────────────────────────────────────────────────────────

func TestNextStock_Tabla(t *testing.T) {
	cases := []struct {
		name   string
		typ    string
		before int64
		qty    int64
		want   int64
	}{
		{"entrada suma", entity.MovementEntry, 10, 5, 15},
		{"salida resta", entity.MovementExit, 10, 4, 6},
		{"salida hasta cero", entity.MovementExit, 3, 3, 0},
		{"ajuste fija valor", entity.MovementAdjustment, 10, 8, 8},
		{"ajuste a cero", entity.MovementAdjustment, 7, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.NextStock("p1", tc.typ, tc.before, tc.qty)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStock_SalidaMayorAlStock_InsufficientStock(t *testing.T) {
	got, err := inventory.NextStock("p1", entity.MovementExit, 2, 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "p1", ise.ProductID)
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(5), ise.Requested)
	assert.Equal(t, int64(2), got, "el stock no cambia cuando la regla falla")
}

func TestNextStock_CantidadInvalida(t *testing.T) {
	for _, typ := range []string{entity.MovementEntry, entity.MovementExit} {
		_, err := inventory.NextStock("p1", typ, 10, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, typ)
		_, err = inventory.NextStock("p1", typ, 10, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, typ)
	}
	_, err := inventory.NextStock("p1", "transfer", 10, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay
// ──────────────────────────────────────────────────────────────────────────────

func TestReplay_ReconstruyeStock(t *testing.T) {
	movs := []entity.Movement{
		{Type: entity.MovementEntry, Quantity: 10},
		{Type: entity.MovementExit, Quantity: 4},
		{Type: entity.MovementAdjustment, Quantity: 3},
		{Type: entity.MovementEntry, Quantity: 2},
	}
	assert.Equal(t, int64(5), inventory.Replay(movs))
	assert.Equal(t, int64(0), inventory.Replay(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// WeightedCost
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedCost(t *testing.T) {
	// (10*100 + 10*200) / 20 = 150
	got := inventory.WeightedCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), got.String())

	// sin stock previo el costo es el de la entrada
	got = inventory.WeightedCost(0, decimal.NewFromInt(100), 5, decimal.NewFromInt(80))
	assert.True(t, got.Equal(decimal.NewFromInt(80)), got.String())
}
