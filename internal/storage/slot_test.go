package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func (n note) Validate() error {
	if n.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func setupSlot(t *testing.T) (Slot[note], *miniredis.Miniredis, context.Context) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	return NewSlot[note](client, "test:%s:note"), mr, c
}

func TestSlot_LoadMissing(t *testing.T) {
	slot, _, c := setupSlot(t)

	value, found, err := slot.Load(c, "client-1")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, note{}, value)
}

func TestSlot_SaveThenLoad(t *testing.T) {
	slot, mr, c := setupSlot(t)

	require.NoError(t, slot.Save(c, "client-1", note{Text: "fern", Count: 2}))

	value, found, err := slot.Load(c, "client-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, note{Text: "fern", Count: 2}, value)
	assert.Zero(t, mr.TTL("test:client-1:note"), "persisted values should never expire")
}

func TestSlot_MalformedIsDiscarded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{not json"},
		{name: "unknown schema version", raw: `{"version":99,"data":{"text":"fern","count":1}}`},
		{name: "missing data", raw: `{"version":1}`},
		{name: "wrong data shape", raw: `{"version":1,"data":"fern"}`},
		{name: "violates invariant", raw: `{"version":1,"data":{"text":"fern","count":-1}}`},
		{name: "unversioned legacy blob", raw: `[{"id":"a","qty":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, mr, c := setupSlot(t)
			require.NoError(t, mr.Set("test:client-1:note", tt.raw))

			value, found, err := slot.Load(c, "client-1")

			require.NoError(t, err, "malformed data should not surface as an error")
			assert.False(t, found)
			assert.Equal(t, note{}, value)
			assert.False(t, mr.Exists("test:client-1:note"), "malformed data should be deleted")
		})
	}
}

func TestSlot_Clear(t *testing.T) {
	slot, mr, c := setupSlot(t)
	require.NoError(t, slot.Save(c, "client-1", note{Text: "fern"}))

	require.NoError(t, slot.Clear(c, "client-1"))

	assert.False(t, mr.Exists("test:client-1:note"))
}

func TestSlot_KeysAreScopedByClient(t *testing.T) {
	slot, _, c := setupSlot(t)
	require.NoError(t, slot.Save(c, "client-1", note{Text: "fern"}))

	_, found, err := slot.Load(c, "client-2")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestSlot_StorageFailureIsReturned(t *testing.T) {
	slot, mr, c := setupSlot(t)
	mr.Close()

	_, _, err := slot.Load(c, "client-1")
	assert.Error(t, err)

	err = slot.Save(c, "client-1", note{Text: "fern"})
	assert.Error(t, err)
}
