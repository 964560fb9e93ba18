package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/product/response"
)

type fakeCatalogClient struct {
	listCalls   int
	getCalls    int
	avatarCalls int
	plants      []response.Plant
	err         error
}

func (f *fakeCatalogClient) ListPlants(c context.Context) ([]response.Plant, error) {
	f.listCalls++
	return f.plants, f.err
}

func (f *fakeCatalogClient) GetPlant(c context.Context, id string) (response.Plant, error) {
	f.getCalls++
	if f.err != nil {
		return response.Plant{}, f.err
	}
	for _, p := range f.plants {
		if p.ID == id {
			return p, nil
		}
	}
	return response.Plant{}, errors.New("not found")
}

func (f *fakeCatalogClient) CategoryAvatars(c context.Context) ([]response.CategoryAvatar, error) {
	f.avatarCalls++
	return []response.CategoryAvatar{{ID: "c-1", Name: "Indoor", Image: "/img/indoor.png"}}, f.err
}

func setupCatalog(t *testing.T, ttl time.Duration) (*CatalogService, *fakeCatalogClient, *miniredis.Miniredis, context.Context) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	client := &fakeCatalogClient{plants: []response.Plant{
		{ID: "p-1", Name: "Monstera", Price: decimal.RequireFromString("199"), WeightGrams: 800},
		{ID: "p-2", Name: "Fern", Price: decimal.RequireFromString("99.5")},
	}}
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	return NewCatalogService(client, cache, config.Catalog{CacheTTL: ttl}), client, mr, c
}

func TestCatalogService_ListPlantsCached(t *testing.T) {
	svc, client, mr, c := setupCatalog(t, time.Minute)

	first, err := svc.ListPlants(c)
	require.NoError(t, err)
	second, err := svc.ListPlants(c)
	require.NoError(t, err)

	assert.Equal(t, 1, client.listCalls, "the second list should come from cache")
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Price.Equal(second[0].Price))
	assert.Equal(t, 800, second[0].WeightGrams)

	mr.FastForward(2 * time.Minute)
	_, err = svc.ListPlants(c)
	require.NoError(t, err)
	assert.Equal(t, 2, client.listCalls, "an expired entry should be refetched")
}

func TestCatalogService_GetPlant(t *testing.T) {
	svc, client, mr, c := setupCatalog(t, time.Minute)

	plant, err := svc.GetPlant(c, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Fern", plant.Name)
	assert.True(t, mr.Exists("catalog:plants:p-2"))

	_, err = svc.GetPlant(c, "p-2")
	require.NoError(t, err)
	assert.Equal(t, 1, client.getCalls)

	_, err = svc.GetPlant(c, "missing")
	require.Error(t, err)
	assert.False(t, mr.Exists("catalog:plants:missing"), "failures should not be cached")
}

func TestCatalogService_CacheIsBestEffort(t *testing.T) {
	tests := []struct {
		name  string
		ttl   time.Duration
		setup func(mr *miniredis.Miniredis)
		calls int
	}{
		{
			name:  "undecodable entry",
			ttl:   time.Minute,
			setup: func(mr *miniredis.Miniredis) { _ = mr.Set("catalog:category-avatars", "{not json") },
			calls: 1,
		},
		{
			name:  "cache disabled",
			ttl:   0,
			setup: func(mr *miniredis.Miniredis) {},
			calls: 2,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, client, mr, c := setupCatalog(t, test.ttl)
			test.setup(mr)

			avatars, err := svc.CategoryAvatars(c)
			require.NoError(t, err)
			_, err = svc.CategoryAvatars(c)
			require.NoError(t, err)

			assert.Equal(t, test.calls, client.avatarCalls)
			require.Len(t, avatars, 1)
			assert.Equal(t, "Indoor", avatars[0].Name)
		})
	}

	t.Run("cache down", func(t *testing.T) {
		svc, client, mr, c := setupCatalog(t, time.Minute)
		mr.Close()

		plants, err := svc.ListPlants(c)

		require.NoError(t, err)
		assert.Len(t, plants, 2)
		assert.Equal(t, 1, client.listCalls)
	})

	t.Run("backend down", func(t *testing.T) {
		svc, client, _, c := setupCatalog(t, time.Minute)
		client.err = errors.New("connection refused")

		_, err := svc.ListPlants(c)

		require.Error(t, err)
	})
}
