package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDFromContext(t *testing.T) {
	c := context.Background()
	assert.Empty(t, RequestIDFromContext(c), "missing request id should be empty")

	c = AttachRequestIDToContext(c, "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(c))
}

func TestAttachTraceIdFromContext(t *testing.T) {
	buf := bytes.Buffer{}
	logger := zerolog.New(&buf).Hook(AttachTraceIdFromContext())

	c := AttachRequestIDToContext(context.Background(), "req-2")
	logger.Info().Ctx(c).Msg("hello")

	fields := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	assert.Equal(t, "req-2", fields[KeyRequestID])
	assert.NotContains(t, fields, KeyTraceID, "no span should mean no trace id")
}
