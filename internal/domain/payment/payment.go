// Package payment contiene las reglas puras de abonos parciales, compartidas por
// órdenes de compra (deuda con proveedor) y deudas de clientes.
package payment

import (
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Epsilon tolerancia de redondeo al comparar un abono con el saldo pendiente.
var Epsilon = decimal.New(1, -2)

// Result estado de un saldo después de aplicar un abono.
type Result struct {
	Applied       decimal.Decimal // abono efectivo: nunca mayor que el saldo
	AmountPaid    decimal.Decimal
	AmountDue     decimal.Decimal
	PaymentStatus string
}

// Due devuelve max(0, total - paid).
func Due(total, paid decimal.Decimal) decimal.Decimal {
	due := total.Sub(paid)
	if due.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return due
}

// Status deriva el estado de pago: paid si no queda saldo, partial si hubo abonos, pending si no.
func Status(paid, due decimal.Decimal) string {
	switch {
	case due.LessThanOrEqual(decimal.Zero):
		return entity.PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusPending
	}
}

// Initial estado de pago de un saldo nuevo con un pago inicial (normalmente cero).
// Un pago inicial dentro de la tolerancia por encima del total se recorta al total.
func Initial(total, paid decimal.Decimal) Result {
	if paid.GreaterThan(total) {
		paid = total
	}
	due := Due(total, paid)
	return Result{Applied: paid, AmountPaid: paid, AmountDue: due, PaymentStatus: Status(paid, due)}
}

// Apply aplica un abono a un saldo con total y pagado previos.
// Requiere 0 < amount <= due (+Epsilon); lo que exceda el saldo dentro de la tolerancia
// no se aplica, de modo que AmountPaid nunca supera el total.
func Apply(total, paid, amount decimal.Decimal) (Result, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Result{}, domain.ErrInvalidInput
	}
	due := Due(total, paid)
	if amount.GreaterThan(due.Add(Epsilon)) {
		return Result{}, domain.ErrAmountExceedsDue
	}
	applied := decimal.Min(amount, due)
	newPaid := paid.Add(applied)
	newDue := Due(total, newPaid)
	st := entity.PaymentStatusPartial
	if newDue.LessThanOrEqual(Epsilon) {
		newDue = decimal.Zero
		st = entity.PaymentStatusPaid
	}
	return Result{Applied: applied, AmountPaid: newPaid, AmountDue: newDue, PaymentStatus: st}, nil
}

// FloorSub resta y recorta en cero. clamped indica si el recorte se aplicó.
func FloorSub(balance, amount decimal.Decimal) (result decimal.Decimal, clamped bool) {
	r := balance.Sub(amount)
	if r.LessThan(decimal.Zero) {
		return decimal.Zero, true
	}
	return r, false
}
