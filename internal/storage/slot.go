// Package storage persists per-client state as versioned JSON envelopes in
// redis. Values never expire; a value that cannot be decoded is discarded.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
)

const SchemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// Validator is implemented by persisted values that carry invariants of
// their own. A value failing Validate is treated as malformed.
type Validator interface {
	Validate() error
}

type Slot[T any] struct {
	cache     redis.Cmdable
	keyFormat string
	now       func() time.Time
}

func NewSlot[T any](cache redis.Cmdable, keyFormat string) Slot[T] {
	return Slot[T]{cache: cache, keyFormat: keyFormat, now: time.Now}
}

func (s Slot[T]) Key(clientID string) string {
	return fmt.Sprintf(s.keyFormat, clientID)
}

// Load returns the persisted value. Missing and malformed values both
// report found=false; malformed values are deleted.
func (s Slot[T]) Load(c context.Context, clientID string) (value T, found bool, err error) {
	c, span := otel.Tracer.Start(c, "Slot Load")
	defer span.End()

	key := s.Key(clientID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Slot Load").
		Str(log.KeyCacheKey, key).
		Logger()

	logger.Trace().Msg("getting persisted value")
	raw, err := s.cache.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Trace().Msg("persisted value not found")
		return value, false, nil
	}
	if err != nil {
		err = fmt.Errorf("failed getting key=%s with error=%w", key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return value, false, err
	}

	value, err = decode[T](raw)
	if err != nil {
		logger.Warn().Err(err).Msg("discarding malformed persisted value")
		span.AddEvent("discarding malformed persisted value")
		var zero T
		if delErr := s.cache.Del(c, key).Err(); delErr != nil {
			delErr = fmt.Errorf("failed deleting malformed key=%s with error=%w", key, delErr)
			otel.RecordError(delErr, span)
			logger.Error().Err(delErr).Msg(delErr.Error())
			return zero, false, delErr
		}
		return zero, false, nil
	}
	logger.Trace().Msg("loaded persisted value")

	return value, true, nil
}

// Save writes the value synchronously without expiry.
func (s Slot[T]) Save(c context.Context, clientID string, value T) error {
	c, span := otel.Tracer.Start(c, "Slot Save")
	defer span.End()

	key := s.Key(clientID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Slot Save").
		Str(log.KeyCacheKey, key).
		Logger()

	data, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("failed marshaling value with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, SavedAt: s.now().UTC(), Data: data})
	if err != nil {
		err = fmt.Errorf("failed marshaling envelope with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Trace().Msg("saving persisted value")
	if err = s.cache.Set(c, key, raw, 0).Err(); err != nil {
		err = fmt.Errorf("failed saving key=%s with error=%w", key, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("saved persisted value")

	return nil
}

func (s Slot[T]) Clear(c context.Context, clientID string) error {
	c, span := otel.Tracer.Start(c, "Slot Clear")
	defer span.End()

	key := s.Key(clientID)
	if err := s.cache.Del(c, key).Err(); err != nil {
		err = fmt.Errorf("failed deleting key=%s with error=%w", key, err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyCacheKey, key).Msg(err.Error())
		return err
	}
	return nil
}

func decode[T any](raw []byte) (T, error) {
	var value T

	env := envelope{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return value, errors.Join(inErrors.ErrMalformedPersisted, err)
	}
	if env.Version != SchemaVersion {
		return value, fmt.Errorf("%w: unsupported version=%d", inErrors.ErrMalformedPersisted, env.Version)
	}
	if len(env.Data) == 0 {
		return value, fmt.Errorf("%w: empty data", inErrors.ErrMalformedPersisted)
	}
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return value, errors.Join(inErrors.ErrMalformedPersisted, err)
	}
	if v, ok := any(value).(Validator); ok {
		if err := v.Validate(); err != nil {
			return value, errors.Join(inErrors.ErrMalformedPersisted, err)
		}
	}
	return value, nil
}
