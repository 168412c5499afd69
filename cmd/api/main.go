package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/application/payment"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/application/purchasing"
	"github.com/jhoicas/retail-ops/internal/application/sales"
	"github.com/jhoicas/retail-ops/internal/application/usecase"
	"github.com/jhoicas/retail-ops/internal/infrastructure/audit"
	"github.com/jhoicas/retail-ops/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ops/internal/infrastructure/metrics"
	"github.com/jhoicas/retail-ops/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-ops/internal/interfaces/http"
	"github.com/jhoicas/retail-ops/pkg/config"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	m := metrics.New("retail")

	// Persistencia: PostgreSQL (serializable + reintentos) o store en memoria (OCC).
	var (
		txRunner  ports.TxRunner
		pool      *pgxpool.Pool
		auditRepo = audit.NewRepositorySink("db", memory.NewAuditLog())
	)
	switch cfg.Store.Backend {
	case "memory":
		txRunner = memory.NewStore(memory.WithMaxRetries(cfg.Tx.MaxRetries), memory.WithObserver(m))
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool,
			postgres.WithRetries(cfg.Tx.MaxRetries, cfg.Tx.BaseBackoff),
			postgres.WithTxObserver(m),
			postgres.WithLogger(log.Component("tx")),
		)
		auditRepo = audit.NewRepositorySink("db", postgres.NewAuditRepository(pool))
	}

	auditLog := log.Component("audit")
	sinks, closeSinks := buildSinks(cfg.Audit, auditRepo, auditLog, m)
	recorder := audit.NewRecorder(sinks, audit.Options{
		Buffer:       cfg.Audit.Buffer,
		WriteTimeout: cfg.Audit.WriteTimeout,
	}, auditLog, m)

	ledger := inventory.NewStockLedger(txRunner, recorder)
	deps := httpRouter.RouterDeps{
		Ledger:         ledger,
		Reconciliation: inventory.NewReconciliationEngine(txRunner, ledger, recorder, log.Component("inventory")),
		Verifier:       inventory.NewLedgerVerifier(txRunner),
		Replenishment:  inventory.NewReplenishmentUseCase(txRunner),
		Sales:          sales.NewSaleCoordinator(txRunner, ledger, recorder, log.Component("sales")),
		Purchasing: purchasing.NewOrderLifecycle(txRunner, ledger, recorder, log.Component("purchasing"), purchasing.Options{
			ReverseDebtOnCancel: cfg.Purchasing.ReverseDebtOnCancel,
			AllowDraftReception: cfg.Purchasing.AllowDraftReception,
		}),
		Payments:  payment.NewPaymentLedger(txRunner, recorder, log.Component("payments")),
		ProductUC: usecase.NewProductUseCase(txRunner, ledger),
		PartyUC:   usecase.NewPartyUseCase(txRunner),
		JWTSecret: cfg.JWT.Secret,
		Metrics:   m,
		Log:       log.Component("http"),
	}

	app := httpRouter.NewApp(cfg.App.Name, m)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail Ops API",
	}))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// La bitácora se vacía después del HTTP: no quedan operaciones en curso que registren.
	if err := recorder.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("bitácora no se vació por completo")
	}
	closeSinks()

	log.Info().Msg("aplicación detenida")
}

// buildSinks arma los destinos de la bitácora. Redis y Kafka van detrás de un circuit breaker.
// La función devuelta cierra las conexiones remotas.
func buildSinks(cfg config.AuditConfig, db audit.Sink, log *logger.Logger, m *metrics.Metrics) ([]audit.Sink, func()) {
	breaker := audit.BreakerConfig{FailureThreshold: cfg.BreakerFailures, Timeout: cfg.BreakerTimeout}
	var (
		sinks   []audit.Sink
		closers []io.Closer
	)
	if cfg.HasSink("log") {
		sinks = append(sinks, audit.NewLogSink(log))
	}
	if cfg.HasSink("db") {
		sinks = append(sinks, db)
	}
	if cfg.HasSink("redis") {
		client := audit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		redisSink := audit.NewRedisStreamSink(client, cfg.RedisStream, cfg.RedisMaxLen)
		sinks = append(sinks, audit.NewBreakerSink(redisSink, breaker, log, m))
		closers = append(closers, redisSink)
	}
	if cfg.HasSink("kafka") {
		kafkaSink := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, audit.NewBreakerSink(kafkaSink, breaker, log, m))
		closers = append(closers, kafkaSink)
	}
	return sinks, func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar destino de bitácora")
			}
		}
	}
}
