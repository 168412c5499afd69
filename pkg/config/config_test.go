package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, 10, cfg.Tx.MaxRetries)
	assert.Equal(t, 5*time.Millisecond, cfg.Tx.BaseBackoff)
	assert.False(t, cfg.Purchasing.ReverseDebtOnCancel)
	assert.True(t, cfg.Purchasing.AllowDraftReception)
	assert.Equal(t, []string{"log", "db"}, cfg.Audit.Sinks)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("TX_MAX_RETRIES", "3")
	t.Setenv("TX_BASE_BACKOFF", "20ms")
	t.Setenv("PURCHASING_REVERSE_DEBT_ON_CANCEL", "true")
	t.Setenv("PURCHASING_ALLOW_DRAFT_RECEPTION", "false")
	t.Setenv("AUDIT_SINKS", "log, redis ,kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 3, cfg.Tx.MaxRetries)
	assert.Equal(t, 20*time.Millisecond, cfg.Tx.BaseBackoff)
	assert.True(t, cfg.Purchasing.ReverseDebtOnCancel)
	assert.False(t, cfg.Purchasing.AllowDraftReception)
	assert.Equal(t, []string{"log", "redis", "kafka"}, cfg.Audit.Sinks)
	assert.True(t, cfg.Audit.HasSink("kafka"))
	assert.False(t, cfg.Audit.HasSink("db"))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Audit.KafkaBrokers)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("AUDIT_SINKS", "log,syslog")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "retail", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/retail?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
