package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected zerolog.Level
	}{
		{name: "production default", opts: Options{Env: "production"}, expected: zerolog.InfoLevel},
		{name: "development default", opts: Options{Env: "development"}, expected: zerolog.TraceLevel},
		{name: "configured level wins", opts: Options{Env: "development", Level: "warn"}, expected: zerolog.WarnLevel},
		{name: "unknown level falls back", opts: Options{Env: "production", Level: "loud"}, expected: zerolog.InfoLevel},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, level(test.opts))
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := bytes.Buffer{}
	logger := newLogger(&buf, Options{Env: "staging", Level: "info"})

	logger.Debug().Msg("dropped")
	logger.Info().Str(KeyTag, "test").Msg("kept")

	fields := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.Equal(t, "kept", fields[zerolog.MessageFieldName])
	assert.Equal(t, "staging", fields["env"])
	assert.Equal(t, "test", fields[KeyTag])
	assert.Contains(t, fields, "pid")
}
