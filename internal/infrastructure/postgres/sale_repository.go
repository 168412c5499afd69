package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y las líneas. Debe ejecutarse dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, number, total_gross, discount, total_net, amount_tendered, change_due, amount_owed,
			payment_method, status, client_id, client_name, created_by_id, created_by_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Number, s.TotalGross, s.Discount, s.TotalNet, s.AmountTendered, s.ChangeDue, s.AmountOwed,
		s.PaymentMethod, s.Status, nullIfEmpty(s.ClientID), s.ClientName, s.CreatedByID, s.CreatedByName, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	lineQuery := `
		INSERT INTO sale_lines (sale_id, line_no, product_id, product_name, sku, quantity, unit_price, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, l := range s.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			s.ID, i+1, l.ProductID, l.ProductName, l.SKU, l.Quantity, l.UnitPrice, l.UnitCost, l.Subtotal,
		); err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas. (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, true)
}

func (r *SaleRepo) get(ctx context.Context, id string, lock bool) (*entity.Sale, error) {
	query := `
		SELECT id, number, total_gross, discount, total_net, amount_tendered, change_due, amount_owed,
			payment_method, status, COALESCE(client_id, ''), client_name, created_by_id, created_by_name, created_at,
			cancelled_by_id, cancelled_by_name, cancelled_at, cancel_reason
		FROM sales WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Number, &s.TotalGross, &s.Discount, &s.TotalNet, &s.AmountTendered, &s.ChangeDue, &s.AmountOwed,
		&s.PaymentMethod, &s.Status, &s.ClientID, &s.ClientName, &s.CreatedByID, &s.CreatedByName, &s.CreatedAt,
		&s.CancelledByID, &s.CancelledByName, &s.CancelledAt, &s.CancelReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, sku, quantity, unit_price, unit_cost, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.SKU, &l.Quantity, &l.UnitPrice, &l.UnitCost, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkCancelled registra la anulación en la cabecera.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id string, by entity.Actor, at time.Time, reason string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, cancelled_by_id = $3, cancelled_by_name = $4, cancelled_at = $5, cancel_reason = $6
		WHERE id = $1`,
		id, entity.SaleStatusCancelled, by.ID, by.Name, at, reason)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
