package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, Config{Level: "info", App: "retail-ops"}).Component("audit")

	l.Debug().Msg("descartado")
	l.Warn().Str("sink", "redis").Msg("circuito abierto")

	var got map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.Equal(t, "retail-ops", got["app"])
	assert.Equal(t, "audit", got["component"])
	assert.Equal(t, "redis", got["sink"])
	assert.Equal(t, "warn", got["level"])
}
