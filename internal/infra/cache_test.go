package infra

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/plantstore/internal/config"
)

func cacheConfigFor(t *testing.T, addr string) config.Cache {
	t.Helper()
	host, rawPort, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(rawPort)
	require.NoError(t, err)
	return config.Cache{Host: host, Port: uint16(port)}
}

func TestConnectCache(t *testing.T) {
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())

	t.Run("reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := ConnectCache(c, cacheConfigFor(t, mr.Addr()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, client.Set(c, "k", "v", 0).Err())
		assert.True(t, mr.Exists("k"))
	})

	t.Run("unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		client, err := ConnectCache(c, cacheConfigFor(t, addr))
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}
