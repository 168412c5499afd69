package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/internal/application/apptest"
	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/pkg/jwt"
)

func TestTokenCmd(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "cli-secret")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "u-9", "--name", "Bodega", "--role", "bodeguero"})
	require.NoError(t, cmd.Execute())

	claims, err := jwt.Parse("cli-secret", string(bytes.TrimSpace(out.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.UserID)
	assert.Equal(t, "Bodega", claims.Name)
	assert.Equal(t, "bodeguero", claims.Role)
}

func TestTokenCmd_RequiereUsuario(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "cli-secret")

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"token"})
	assert.Error(t, cmd.Execute())
}

func TestRunVerify(t *testing.T) {
	env := apptest.NewEnv(t)
	a := env.Product(t, "A", 5, 10, 20)
	env.Product(t, "B", 3, 10, 20)
	verifier := inventory.NewLedgerVerifier(env.Store)

	var out bytes.Buffer
	require.NoError(t, runVerify(context.Background(), &out, verifier, ""))
	assert.Contains(t, out.String(), "2 productos verificados, 0 inconsistentes")

	out.Reset()
	require.NoError(t, runVerify(context.Background(), &out, verifier, a))
	assert.Contains(t, out.String(), "OK")

	assert.Error(t, runVerify(context.Background(), &out, verifier, "nope"))
}
