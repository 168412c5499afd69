package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"stock tipado", &domain.InsufficientStockError{ProductID: "p1", Available: 1, Requested: 3}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"envuelto", fmt.Errorf("producto p9: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"monto", domain.ErrAmountExceedsDue, http.StatusUnprocessableEntity, "AMOUNT_EXCEEDS_DUE"},
		{"credito", domain.ErrCreditRequiresClient, http.StatusBadRequest, "CREDIT_REQUIRES_CLIENT"},
		{"conflicto", fmt.Errorf("%w: 40001", domain.ErrTransactionConflict), http.StatusServiceUnavailable, "TRANSACTION_CONFLICT"},
		{"desconocido", errors.New("pool cerrado"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, logger.Nop(), tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Contains(t, string(body), `"code":"`+tc.code+`"`)
			if tc.status == http.StatusServiceUnavailable {
				assert.Equal(t, "1", resp.Header.Get("Retry-After"))
			}
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, string(body), "pool cerrado")
			}
		})
	}
}
