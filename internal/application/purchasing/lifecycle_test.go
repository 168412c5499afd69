package purchasing_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/application/apptest"
	"github.com/jhoicas/retail-ops/internal/application/payment"
	"github.com/jhoicas/retail-ops/internal/application/purchasing"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var defaultOpts = purchasing.Options{AllowDraftReception: true}

func newLifecycle(env *apptest.Env, opts purchasing.Options) *purchasing.OrderLifecycle {
	return purchasing.NewOrderLifecycle(env.Store, env.Ledger, env.Audit, nil, opts)
}

// orderOf100k crea una orden de 100.000: 10 x P1 a 4.000 + 20 x P2 a 3.000.
func orderOf100k(t *testing.T, env *apptest.Env, lc *purchasing.OrderLifecycle, supplier, p1, p2 string) *entity.PurchaseOrder {
	t.Helper()
	order, err := lc.Create(context.Background(), purchasing.CreatePurchaseOrderInput{
		SupplierID: supplier,
		Lines: []purchasing.OrderLineInput{
			{ProductID: p1, Quantity: 10, UnitCost: d(4000)},
			{ProductID: p2, Quantity: 20, UnitCost: d(3000)},
		},
	}, env.Actor)
	require.NoError(t, err)
	return order
}

// ──────────────────────────────────────────────────────────────────────────────
// Create + abonos
// ──────────────────────────────────────────────────────────────────────────────

// Escenario D: la orden reconoce deuda al crearse; un abono de 40.000 la deja parcial.
func TestCreate_ReconoceDeudaYAbonoParcial(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)

	order := orderOf100k(t, env, lc, supplier, p1, p2)
	assert.Equal(t, entity.OrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.Equal(d(100000)))
	assert.True(t, order.AmountPaid.IsZero())
	assert.True(t, order.AmountDue.Equal(d(100000)))
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "Distribuidora", order.SupplierName)
	assert.True(t, env.SupplierDebt(t, supplier).Equal(d(100000)))
	assert.Equal(t, int64(0), env.Stock(t, p1), "crear no mueve stock")

	pay := payment.NewPaymentLedger(env.Store, env.Audit, nil)
	paid, err := pay.PayPurchaseOrder(context.Background(), order.ID, d(40000), env.Actor)
	require.NoError(t, err)
	assert.True(t, paid.AmountDue.Equal(d(60000)))
	assert.True(t, paid.AmountPaid.Equal(d(40000)))
	assert.Equal(t, entity.PaymentStatusPartial, paid.PaymentStatus)
	assert.True(t, env.SupplierDebt(t, supplier).Equal(d(60000)))
}

func TestCreate_AbonoInicial(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)

	order, err := lc.Create(context.Background(), purchasing.CreatePurchaseOrderInput{
		SupplierID: supplier,
		Lines:      []purchasing.OrderLineInput{{ProductID: p1, Quantity: 5, UnitCost: d(1000)}},
		AmountPaid: d(5000),
	}, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, order.PaymentStatus)
	assert.True(t, order.AmountDue.IsZero())
	assert.True(t, env.SupplierDebt(t, supplier).IsZero(), "sin saldo pendiente no hay deuda")

	_, err = lc.Create(context.Background(), purchasing.CreatePurchaseOrderInput{
		SupplierID: supplier,
		Lines:      []purchasing.OrderLineInput{{ProductID: p1, Quantity: 5, UnitCost: d(1000)}},
		AmountPaid: d(6000),
	}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrAmountExceedsDue)
}

func TestCreate_EntradasInvalidas(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)

	bad := []purchasing.CreatePurchaseOrderInput{
		{Lines: []purchasing.OrderLineInput{{ProductID: p1, Quantity: 1, UnitCost: d(1)}}},
		{SupplierID: supplier},
		{SupplierID: supplier, Lines: []purchasing.OrderLineInput{{ProductID: p1, Quantity: 0, UnitCost: d(1)}}},
		{SupplierID: supplier, Lines: []purchasing.OrderLineInput{{ProductID: p1, Quantity: 1, UnitCost: d(-1)}}},
		{SupplierID: supplier, Lines: []purchasing.OrderLineInput{
			{ProductID: p1, Quantity: 3, UnitCost: d(1)},
			{ProductID: p1, Quantity: 3, UnitCost: d(1)},
		}},
	}
	for i, in := range bad {
		_, err := lc.Create(context.Background(), in, env.Actor)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}

	_, err := lc.Create(context.Background(), purchasing.CreatePurchaseOrderInput{
		SupplierID: "nope",
		Lines:      []purchasing.OrderLineInput{{ProductID: p1, Quantity: 1, UnitCost: d(1)}},
	}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_MaquinaDeEstados(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)
	order := orderOf100k(t, env, lc, supplier, p1, p2)

	ordered, err := lc.Transition(context.Background(), order.ID, entity.OrderStatusOrdered, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusOrdered, ordered.Status)
	require.NotNil(t, ordered.OrderedAt)

	_, err = lc.Transition(context.Background(), order.ID, entity.OrderStatusDraft, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = lc.Transition(context.Background(), order.ID, entity.OrderStatusOrdered, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	cancelled, err := lc.Transition(context.Background(), order.ID, entity.OrderStatusCancelled, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, env.Actor.ID, cancelled.CancelledByID)

	_, err = lc.Transition(context.Background(), order.ID, entity.OrderStatusOrdered, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cancelled es terminal")
	_, err = lc.Receive(context.Background(), purchasing.ReceiveInput{OrderID: order.ID}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = lc.Transition(context.Background(), "nope", entity.OrderStatusOrdered, env.Actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Política por defecto: cancelar una orden NO revierte la deuda reconocida al crearla.
func TestTransition_CancelarMantieneDeuda_PorDefecto(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)
	order := orderOf100k(t, env, lc, supplier, p1, p2)

	_, err := lc.Transition(context.Background(), order.ID, entity.OrderStatusCancelled, env.Actor)
	require.NoError(t, err)
	assert.True(t, env.SupplierDebt(t, supplier).Equal(d(100000)))
}

// Con ReverseDebtOnCancel la cancelación descuenta el saldo pendiente de la orden.
func TestTransition_CancelarRevierteDeuda_Configurado(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, purchasing.Options{ReverseDebtOnCancel: true, AllowDraftReception: true})
	order := orderOf100k(t, env, lc, supplier, p1, p2)

	pay := payment.NewPaymentLedger(env.Store, env.Audit, nil)
	_, err := pay.PayPurchaseOrder(context.Background(), order.ID, d(30000), env.Actor)
	require.NoError(t, err)

	_, err = lc.Transition(context.Background(), order.ID, entity.OrderStatusCancelled, env.Actor)
	require.NoError(t, err)
	assert.True(t, env.SupplierDebt(t, supplier).IsZero(), "se revierte solo lo pendiente (70.000)")
	assert.Contains(t, env.Audit.Last().Details, "Deuda revertida")

	_, err = pay.PayPurchaseOrder(context.Background(), order.ID, d(1000), env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "orden cancelada no admite abonos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

// Recibir dos veces: la primera suma stock, la segunda falla y no toca el stock.
func TestReceive_SoloUnaVez(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 5, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)
	order := orderOf100k(t, env, lc, supplier, p1, p2)
	_, err := lc.Transition(context.Background(), order.ID, entity.OrderStatusOrdered, env.Actor)
	require.NoError(t, err)

	received, err := lc.Receive(context.Background(), purchasing.ReceiveInput{OrderID: order.ID}, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, int64(10), received.Lines[0].ReceivedQuantity)
	assert.Equal(t, int64(15), env.Stock(t, p1))
	assert.Equal(t, int64(20), env.Stock(t, p2))

	movs := env.Movements(t, p1)
	last := movs[len(movs)-1]
	assert.Equal(t, entity.MovementEntry, last.Type)
	assert.Equal(t, fmt.Sprintf(purchasing.ReceptionReason, order.Number), last.Reason)
	assert.Equal(t, order.ID, last.Reference)

	_, err = lc.Receive(context.Background(), purchasing.ReceiveInput{OrderID: order.ID}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
	assert.Equal(t, int64(15), env.Stock(t, p1))
	assert.Equal(t, int64(20), env.Stock(t, p2))
	env.AssertLedgerConsistent(t, p1, p2)
}

func TestReceive_ActualizaCostoPromedio(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 10, 3000, 6000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)

	order, err := lc.Create(context.Background(), purchasing.CreatePurchaseOrderInput{
		SupplierID: supplier,
		Lines:      []purchasing.OrderLineInput{{ProductID: p1, Quantity: 10, UnitCost: d(5000)}},
	}, env.Actor)
	require.NoError(t, err)
	_, err = lc.Receive(context.Background(), purchasing.ReceiveInput{OrderID: order.ID}, env.Actor)
	require.NoError(t, err)

	p := env.GetProduct(t, p1)
	assert.True(t, p.PurchasePrice.Equal(d(4000)), p.PurchasePrice.String())
}

func TestReceive_CantidadesParciales(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)
	order := orderOf100k(t, env, lc, supplier, p1, p2)

	_, err := lc.Receive(context.Background(), purchasing.ReceiveInput{
		OrderID: order.ID, Quantities: map[string]int64{"otro": 1},
	}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	received, err := lc.Receive(context.Background(), purchasing.ReceiveInput{
		OrderID: order.ID, Quantities: map[string]int64{p1: 7, p2: 0},
	}, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, int64(7), env.Stock(t, p1))
	assert.Equal(t, int64(0), env.Stock(t, p2))
	assert.Len(t, env.Movements(t, p2), 0, "cantidad 0 omite la línea")
	assert.Equal(t, int64(7), received.Lines[0].ReceivedQuantity)
	assert.Equal(t, int64(0), received.Lines[1].ReceivedQuantity)
}

func TestReceive_CantidadMayorQueLoPedido(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)
	order := orderOf100k(t, env, lc, supplier, p1, p2)

	_, err := lc.Receive(context.Background(), purchasing.ReceiveInput{
		OrderID: order.ID, Quantities: map[string]int64{p1: 11},
	}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(0), env.Stock(t, p1))

	got, err := lc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, got.Status, "la orden sigue pendiente de recepción")

	_, err = lc.Receive(context.Background(), purchasing.ReceiveInput{
		OrderID: order.ID, Quantities: map[string]int64{p1: 10},
	}, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, int64(10), env.Stock(t, p1))
}

// Órdenes guardadas antes de exigir una línea por producto: la cantidad indicada
// para el producto entra una sola vez.
func TestReceive_ProductoRepetidoSeIngresaUnaVez(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, defaultOpts)

	legacy := &entity.PurchaseOrder{
		ID:         "oc-legacy",
		Number:     "OC-LEGACY",
		SupplierID: supplier,
		Lines: []entity.PurchaseOrderLine{
			{ProductID: p1, Quantity: 3, UnitCost: d(4000), Subtotal: d(12000)},
			{ProductID: p1, Quantity: 3, UnitCost: d(4000), Subtotal: d(12000)},
		},
		TotalAmount:   d(24000),
		AmountPaid:    decimal.Zero,
		AmountDue:     d(24000),
		PaymentStatus: entity.PaymentStatusPending,
		Status:        entity.OrderStatusOrdered,
	}
	require.NoError(t, env.Store.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		return repos.PurchaseOrders.Create(ctx, legacy)
	}))

	received, err := lc.Receive(context.Background(), purchasing.ReceiveInput{
		OrderID: legacy.ID, Quantities: map[string]int64{p1: 4},
	}, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, int64(4), env.Stock(t, p1))
	assert.Len(t, env.Movements(t, p1), 1)
	assert.Equal(t, int64(4), received.Lines[0].ReceivedQuantity)
	assert.Equal(t, int64(0), received.Lines[1].ReceivedQuantity)
	env.AssertLedgerConsistent(t, p1)
}

func TestReceive_BorradorNoPermitido(t *testing.T) {
	env := apptest.NewEnv(t)
	p1 := env.Product(t, "P1", 0, 4000, 6000)
	p2 := env.Product(t, "P2", 0, 3000, 5000)
	supplier := env.Supplier(t, "Distribuidora", "NIT-1")
	lc := newLifecycle(env, purchasing.Options{AllowDraftReception: false})
	order := orderOf100k(t, env, lc, supplier, p1, p2)

	_, err := lc.Receive(context.Background(), purchasing.ReceiveInput{OrderID: order.ID}, env.Actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(0), env.Stock(t, p1))

	// received vía Transition delega en Receive
	_, err = lc.Transition(context.Background(), order.ID, entity.OrderStatusOrdered, env.Actor)
	require.NoError(t, err)
	got, err := lc.Transition(context.Background(), order.ID, entity.OrderStatusReceived, env.Actor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, got.Status)
	assert.Equal(t, int64(10), env.Stock(t, p1))

	stored, err := lc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, stored.Status)
}
