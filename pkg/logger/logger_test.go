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
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNew_JSONConCamposFijos(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Service: "gestion-api", Output: &buf})

	log.Info().Msg("descartado por nivel")
	assert.Zero(t, buf.Len())

	log.Component("http").Warn().Int("status", 503).Msg("sin almacenamiento")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "gestion-api", entry["service"])
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, float64(503), entry["status"])
	assert.Contains(t, entry, "time")
}
