package infra

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
)

var (
	cacheOnce sync.Once
	cache     *redis.Client
)

// ConnectCache opens the redis client that holds per-client state and the
// catalog cache, instruments it and checks it answers.
func ConnectCache(c context.Context, cacheConfig config.Cache) (*redis.Client, error) {
	c, span := otel.Tracer.Start(c, "infra ConnectCache")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "infra ConnectCache").
		Str(log.KeyRequestHost, cacheConfig.Host).
		Logger()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cacheConfig.Host, cacheConfig.Port),
		Password: cacheConfig.Password,
		DB:       cacheConfig.Database,
	})

	logger = logger.With().Str(log.KeyProcess, "instrumenting redis client").Logger()
	attrs := redisotel.WithAttributes(semconv.DBSystemRedis)
	if err := redisotel.InstrumentTracing(client, attrs); err != nil {
		_ = client.Close()
		err = fmt.Errorf("failed instrumenting redis tracing with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	if err := redisotel.InstrumentMetrics(client, attrs); err != nil {
		_ = client.Close()
		err = fmt.Errorf("failed instrumenting redis metrics with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	logger.Debug().Msg("instrumented redis client")

	logger = logger.With().Str(log.KeyProcess, "pinging redis").Logger()
	if err := client.Ping(c).Err(); err != nil {
		_ = client.Close()
		err = fmt.Errorf("failed pinging redis with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	logger.Info().Msg("pinged redis")

	return client, nil
}

// NewCacheClient is ConnectCache once per process. Any failure is fatal.
func NewCacheClient(c context.Context, cacheConfig config.Cache) *redis.Client {
	cacheOnce.Do(func() {
		client, err := ConnectCache(c, cacheConfig)
		if err != nil {
			zerolog.Ctx(c).Fatal().Err(err).Str(log.KeyTag, "main NewCacheClient").Msg(err.Error())
		}
		cache = client
	})
	return cache
}
