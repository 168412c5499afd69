package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

var (
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// ClientRepo clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create inserta un cliente. Un tax_id repetido devuelve domain.ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (id, name, tax_id, phone, total_purchases, debt_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.TaxID, c.Phone, c.TotalPurchases, c.DebtBalance, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente. (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene el cliente y bloquea la fila.
func (r *ClientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Client, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *ClientRepo) get(ctx context.Context, id, suffix string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx, `
		SELECT id, name, tax_id, phone, total_purchases, debt_balance, created_at, updated_at
		FROM clients WHERE id = $1`+suffix, id).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.TotalPurchases, &c.DebtBalance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// UpdateBalances escribe los acumulados ya calculados.
func (r *ClientRepo) UpdateBalances(ctx context.Context, id string, totalPurchases, debtBalance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE clients SET total_purchases = $2, debt_balance = $3, updated_at = now() WHERE id = $1`,
		id, totalPurchases, debtBalance)
	if err != nil {
		return fmt.Errorf("update client balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create inserta un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, name, tax_id, phone, debt_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.TaxID, s.Phone, s.DebtBalance, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor. (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene el proveedor y bloquea la fila.
func (r *SupplierRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *SupplierRepo) get(ctx context.Context, id, suffix string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `
		SELECT id, name, tax_id, phone, debt_balance, created_at, updated_at
		FROM suppliers WHERE id = $1`+suffix, id).Scan(
		&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.DebtBalance, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// UpdateDebt escribe el saldo ya calculado.
func (r *SupplierRepo) UpdateDebt(ctx context.Context, id string, debtBalance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE suppliers SET debt_balance = $2, updated_at = now() WHERE id = $1`, id, debtBalance)
	if err != nil {
		return fmt.Errorf("update supplier debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
