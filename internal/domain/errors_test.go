package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockError(t *testing.T) {
	err := fmt.Errorf("venta: %w", &InsufficientStockError{ProductID: "p1", Available: 2, Requested: 5})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	var typed *InsufficientStockError
	assert.True(t, errors.As(err, &typed))
	assert.Equal(t, "p1", typed.ProductID)
	assert.Contains(t, err.Error(), "disponible 2, solicitado 5")
}

func TestIsBusinessRule(t *testing.T) {
	assert.True(t, IsBusinessRule(fmt.Errorf("orden: %w", ErrAlreadyReceived)))
	assert.True(t, IsBusinessRule(&InsufficientStockError{ProductID: "p1"}))
	assert.False(t, IsBusinessRule(ErrTransactionConflict))
	assert.False(t, IsBusinessRule(errors.New("connection reset")))
	assert.False(t, IsBusinessRule(nil))
}
