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
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigureJSON(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Format: FormatText}) })

	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Format: FormatJSON, Service: "taallocation", Output: &buf})

	Info().Msg("dropped")
	l := Component("allocation")
	l.Warn().Str("studentID", "s1").Msg("kept")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "allocation", line["component"])
	assert.Equal(t, "taallocation", line["service"])
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
