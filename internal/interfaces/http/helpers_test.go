package http_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/retail-ops/pkg/jwt"
)

const (
	testJWTSecret = "handlers-test-secret"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Operador de Pruebas"
)

// tokenForRole devuelve la cabecera Authorization de un operador con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, role, "retail-ops-test", 5)
	require.NoError(t, err)
	return "Bearer " + tok
}
