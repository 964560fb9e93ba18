package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/constants"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/product/response"
)

type catalogClient interface {
	ListPlants(c context.Context) ([]response.Plant, error)
	GetPlant(c context.Context, id string) (response.Plant, error)
	CategoryAvatars(c context.Context) ([]response.CategoryAvatar, error)
}

// CatalogService reads the plant catalog through a short lived redis
// cache. The cache is best effort: a cache failure falls through to the
// backend.
type CatalogService struct {
	client catalogClient
	cache  redis.Cmdable
	ttl    time.Duration
}

func NewCatalogService(client catalogClient, cache redis.Cmdable, cfg config.Catalog) *CatalogService {
	return &CatalogService{client: client, cache: cache, ttl: cfg.CacheTTL}
}

func (svc *CatalogService) ListPlants(c context.Context) ([]response.Plant, error) {
	c, span := otel.Tracer.Start(c, "CatalogService ListPlants")
	defer span.End()

	plants, err := cached(c, svc, constants.KEY_CATALOG_PLANTS, svc.client.ListPlants)
	if err != nil {
		err = fmt.Errorf("failed listing plants with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return plants, nil
}

func (svc *CatalogService) GetPlant(c context.Context, id string) (response.Plant, error) {
	c, span := otel.Tracer.Start(c, "CatalogService GetPlant")
	defer span.End()

	key := fmt.Sprintf(constants.KEY_CATALOG_PLANT, id)
	plant, err := cached(c, svc, key, func(c context.Context) (response.Plant, error) {
		return svc.client.GetPlant(c, id)
	})
	if err != nil {
		err = fmt.Errorf("failed getting plant id=%s with error=%w", id, err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyProductID, id).Msg(err.Error())
		return response.Plant{}, err
	}
	return plant, nil
}

func (svc *CatalogService) CategoryAvatars(c context.Context) ([]response.CategoryAvatar, error) {
	c, span := otel.Tracer.Start(c, "CatalogService CategoryAvatars")
	defer span.End()

	avatars, err := cached(c, svc, constants.KEY_CATALOG_AVATARS, svc.client.CategoryAvatars)
	if err != nil {
		err = fmt.Errorf("failed listing category avatars with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return avatars, nil
}

func cached[T any](
	c context.Context,
	svc *CatalogService,
	key string,
	fetch func(context.Context) (T, error),
) (T, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService cached").
		Str(log.KeyCacheKey, key).
		Logger()

	var value T
	logger = logger.With().Str(log.KeyProcess, "finding in cache").Logger()
	raw, err := svc.cache.Get(c, key).Bytes()
	switch {
	case err == nil:
		if err = json.Unmarshal(raw, &value); err == nil {
			logger.Trace().Msg("found in cache")
			return value, nil
		}
		logger.Warn().Err(err).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		logger.Trace().Msg("not found in cache")
	default:
		logger.Warn().Err(err).Msg("failed reading cache")
	}

	logger = logger.With().Str(log.KeyProcess, "fetching from backend").Logger()
	value, err = fetch(c)
	if err != nil {
		return value, err
	}

	if svc.ttl <= 0 {
		return value, nil
	}
	logger = logger.With().Str(log.KeyProcess, "inserting to cache").Logger()
	raw, err = json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling cache entry")
		return value, nil
	}
	if err = svc.cache.Set(c, key, raw, svc.ttl).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed inserting to cache")
		return value, nil
	}
	logger.Trace().Msg("inserted to cache")

	return value, nil
}
