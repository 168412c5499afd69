package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ops/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "Ana Cajera", "cajero", "retail-ops", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Ana Cajera", claims.Name)
	assert.Equal(t, "cajero", claims.Role)
	assert.Equal(t, "retail-ops", claims.Issuer)
}

func TestParse_Rechaza(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "Ana", "admin", "retail-ops", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err, "firma incorrecta")

	expired, err := jwt.Generate(secret, "u-1", "Ana", "admin", "retail-ops", -1)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, expired)
	assert.Error(t, err, "token expirado")

	_, err = jwt.Parse(secret, "no-es-un-token")
	assert.Error(t, err)

	_, err = jwt.Parse("", token)
	assert.Error(t, err)
}

func TestGenerate_Validaciones(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "Ana", "admin", "x", 5)
	assert.Error(t, err)
	_, err = jwt.Generate(secret, "", "Ana", "admin", "x", 5)
	assert.Error(t, err)
}
