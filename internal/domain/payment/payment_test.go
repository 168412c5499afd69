package payment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/payment"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestInitial_SinPago_Pending(t *testing.T) {
	r := payment.Initial(dec("100000"), decimal.Zero)
	assert.True(t, r.AmountDue.Equal(dec("100000")))
	assert.Equal(t, entity.PaymentStatusPending, r.PaymentStatus)
}

func TestInitial_TotalCero_Paid(t *testing.T) {
	r := payment.Initial(decimal.Zero, decimal.Zero)
	assert.True(t, r.AmountDue.IsZero())
	assert.Equal(t, entity.PaymentStatusPaid, r.PaymentStatus)
}

func TestApply_AbonoParcial(t *testing.T) {
	r, err := payment.Apply(dec("100000"), decimal.Zero, dec("40000"))
	require.NoError(t, err)
	assert.True(t, r.AmountPaid.Equal(dec("40000")))
	assert.True(t, r.AmountDue.Equal(dec("60000")))
	assert.Equal(t, entity.PaymentStatusPartial, r.PaymentStatus)
}

func TestApply_PagoTotal(t *testing.T) {
	r, err := payment.Apply(dec("100000"), dec("40000"), dec("60000"))
	require.NoError(t, err)
	assert.True(t, r.AmountDue.IsZero())
	assert.Equal(t, entity.PaymentStatusPaid, r.PaymentStatus)
}

func TestApply_ToleranciaDeRedondeo(t *testing.T) {
	// 33.34 sobre un saldo de 33.33 cae dentro de Epsilon
	r, err := payment.Apply(dec("100"), dec("66.67"), dec("33.34"))
	require.NoError(t, err)
	assert.True(t, r.Applied.Equal(dec("33.33")), r.Applied.String())
	assert.True(t, r.AmountPaid.Equal(dec("100")), "lo pagado nunca supera el total")
	assert.True(t, r.AmountDue.IsZero())
	assert.Equal(t, entity.PaymentStatusPaid, r.PaymentStatus)

	// un saldo residual menor a Epsilon cuenta como pagado
	r, err = payment.Apply(dec("100"), decimal.Zero, dec("99.995"))
	require.NoError(t, err)
	assert.True(t, r.AmountDue.IsZero())
	assert.Equal(t, entity.PaymentStatusPaid, r.PaymentStatus)
}

func TestApply_Errores(t *testing.T) {
	_, err := payment.Apply(dec("100"), decimal.Zero, dec("100.02"))
	assert.ErrorIs(t, err, domain.ErrAmountExceedsDue)

	_, err = payment.Apply(dec("100"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = payment.Apply(dec("100"), decimal.Zero, dec("-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = payment.Apply(dec("100"), dec("100"), dec("1"))
	assert.ErrorIs(t, err, domain.ErrAmountExceedsDue)
}

func TestFloorSub(t *testing.T) {
	r, clamped := payment.FloorSub(dec("50"), dec("20"))
	assert.True(t, r.Equal(dec("30")))
	assert.False(t, clamped)

	r, clamped = payment.FloorSub(dec("10"), dec("20"))
	assert.True(t, r.IsZero())
	assert.True(t, clamped)
}

func TestApply_ExcesoDentroDeToleranciaSeRecorta(t *testing.T) {
	r, err := payment.Apply(dec("100"), decimal.Zero, dec("100.01"))
	require.NoError(t, err)
	assert.True(t, r.Applied.Equal(dec("100")))
	assert.True(t, r.AmountPaid.Equal(dec("100")))
	assert.Equal(t, entity.PaymentStatusPaid, r.PaymentStatus)

	initial := payment.Initial(dec("100"), dec("100.01"))
	assert.True(t, initial.AmountPaid.Equal(dec("100")))
	assert.True(t, initial.AmountDue.IsZero())
}
