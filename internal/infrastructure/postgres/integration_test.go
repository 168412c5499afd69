package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
	"github.com/jhoicas/retail-ops/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ops/pkg/config"
)

// Requiere una base de datos desechable: RETAIL_TEST_DATABASE_URL=postgres://...
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("RETAIL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RETAIL_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func seedProduct(t *testing.T, runner ports.TxRunner, stock int64) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           "IT-" + uuid.New().String()[:8],
		Name:          "Producto integración",
		StockMinimum:  1,
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ledger := inventory.NewStockLedger(runner, nil)
	err := runner.Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if stock == 0 {
			return nil
		}
		_, err := ledger.ApplyInTx(ctx, repos, p, inventory.ApplyMovementInput{
			ProductID: p.ID, Type: entity.MovementEntry, Quantity: stock, Reason: "Stock inicial",
		}, entity.Actor{ID: "it", Name: "Integración"}, now)
		return err
	})
	require.NoError(t, err)
	return p.ID
}

func TestPostgres_MovimientosYReplay(t *testing.T) {
	pool := testPool(t)
	runner := postgres.NewTxRunner(pool, postgres.WithRetries(50, time.Millisecond))
	ledger := inventory.NewStockLedger(runner, nil)
	actor := entity.Actor{ID: "it", Name: "Integración"}
	ctx := context.Background()

	id := seedProduct(t, runner, 10)
	_, err := ledger.Apply(ctx, inventory.ApplyMovementInput{ProductID: id, Type: entity.MovementExit, Quantity: 3}, actor)
	require.NoError(t, err)
	_, err = ledger.Apply(ctx, inventory.ApplyMovementInput{ProductID: id, Type: entity.MovementAdjustment, Quantity: 4}, actor)
	require.NoError(t, err)

	_, err = ledger.Apply(ctx, inventory.ApplyMovementInput{ProductID: id, Type: entity.MovementExit, Quantity: 5}, actor)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	report, err := inventory.NewLedgerVerifier(runner).Verify(ctx, id)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, int64(4), report.StockOnHand)
	assert.Equal(t, 3, report.MovementCount)
}

func TestPostgres_SalidasConcurrentesNoSobrevenden(t *testing.T) {
	pool := testPool(t)
	runner := postgres.NewTxRunner(pool, postgres.WithRetries(100, time.Millisecond))
	ledger := inventory.NewStockLedger(runner, nil)
	actor := entity.Actor{ID: "it", Name: "Integración"}
	id := seedProduct(t, runner, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
				ProductID: id, Type: entity.MovementExit, Quantity: 1,
			}, actor)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, insufficient)
	report, err := inventory.NewLedgerVerifier(runner).Verify(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, int64(0), report.StockOnHand)
}

func TestPostgres_AuditRepo(t *testing.T) {
	pool := testPool(t)
	repo := postgres.NewAuditRepository(pool)
	ctx := context.Background()
	e := &entity.AuditEntry{ID: uuid.New().String(), Type: entity.AuditTypeStock, Action: "entry", Timestamp: time.Now()}

	require.NoError(t, repo.Append(ctx, e))
	require.NoError(t, repo.Append(ctx, e), "reentrega idempotente")

	list, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
