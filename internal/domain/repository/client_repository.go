package repository

import (
	"context"

	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Client, error)
	// UpdateBalances escribe compras acumuladas y saldo de deuda ya calculados por el caller.
	UpdateBalances(ctx context.Context, id string, totalPurchases, debtBalance decimal.Decimal) error
}
