package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/infrastructure/metrics"
)

func TestMetrics_Contadores(t *testing.T) {
	m := metrics.New("retail_test")
	m.TxRetry("memory")
	m.TxRetry("memory")
	m.TxConflict("postgres")
	m.AuditDrop()
	m.AuditError("redis")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TxRetries.WithLabelValues("memory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxConflicts.WithLabelValues("postgres")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditFailed.WithLabelValues("redis")))
}

func TestMetrics_NilNoFalla(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.TxRetry("memory")
		m.AuditDrop()
		m.HTTPObserve("GET", "/health", "200", 0.1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New("retail_test")
	m.TxRetry("memory")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `retail_test_tx_retries_total{backend="memory"} 1`)
}
