package money_test

import (
	"testing"

	"github.com/jhoicas/retail-ops/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat_SeparadorDeMiles(t *testing.T) {
	got := money.Format(decimal.NewFromInt(100000))
	assert.Contains(t, got, "100")
	assert.Contains(t, got, "000")
	assert.NotEqual(t, "100000.00", got, "debe incluir separador de miles")
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "7", money.Units(7))
}
