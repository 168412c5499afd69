package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y sus líneas sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta la cabecera y las líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, number, supplier_id, supplier_name, total_amount, amount_paid, amount_due,
			payment_status, status, created_by_id, created_by_name, created_at, ordered_at,
			updated_by_id, updated_by_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		o.ID, o.Number, o.SupplierID, o.SupplierName, o.TotalAmount, o.AmountPaid, o.AmountDue,
		o.PaymentStatus, o.Status, o.CreatedByID, o.CreatedByName, o.CreatedAt, o.OrderedAt,
		o.UpdatedByID, o.UpdatedByName, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}

	for i, l := range o.Lines {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (order_id, line_no, product_id, product_name, quantity, unit_cost, subtotal, received_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, i+1, l.ProductID, l.ProductName, l.Quantity, l.UnitCost, l.Subtotal, l.ReceivedQuantity,
		); err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas. (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id, suffix string) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, `
		SELECT id, number, supplier_id, supplier_name, total_amount, amount_paid, amount_due, payment_status, status,
			created_by_id, created_by_name, created_at, ordered_at, received_at, received_by_id,
			cancelled_at, cancelled_by_id, updated_by_id, updated_by_name, updated_at
		FROM purchase_orders WHERE id = $1`+suffix, id).Scan(
		&o.ID, &o.Number, &o.SupplierID, &o.SupplierName, &o.TotalAmount, &o.AmountPaid, &o.AmountDue,
		&o.PaymentStatus, &o.Status, &o.CreatedByID, &o.CreatedByName, &o.CreatedAt, &o.OrderedAt,
		&o.ReceivedAt, &o.ReceivedByID, &o.CancelledAt, &o.CancelledByID, &o.UpdatedByID, &o.UpdatedByName, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_cost, subtotal, received_quantity
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitCost, &l.Subtotal, &l.ReceivedQuantity); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update persiste estado, pagos, sellos y cantidades recibidas. Las líneas no cambian de producto ni de costo.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET amount_paid = $2, amount_due = $3, payment_status = $4, status = $5,
			ordered_at = $6, received_at = $7, received_by_id = $8, cancelled_at = $9, cancelled_by_id = $10,
			updated_by_id = $11, updated_by_name = $12, updated_at = $13
		WHERE id = $1`,
		o.ID, o.AmountPaid, o.AmountDue, o.PaymentStatus, o.Status,
		o.OrderedAt, o.ReceivedAt, o.ReceivedByID, o.CancelledAt, o.CancelledByID,
		o.UpdatedByID, o.UpdatedByName, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for i, l := range o.Lines {
		if _, err := r.q.Exec(ctx, `
			UPDATE purchase_order_lines SET received_quantity = $3 WHERE order_id = $1 AND line_no = $2`,
			o.ID, i+1, l.ReceivedQuantity); err != nil {
			return fmt.Errorf("update purchase order line: %w", err)
		}
	}
	return nil
}
