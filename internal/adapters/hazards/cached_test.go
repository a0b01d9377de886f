package hazards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-hazard-service/internal/adapters/cache"
	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

type stubSource struct {
	features []ports.TaggedFeature
	err      error
	calls    int
}

func (s *stubSource) FetchFeatures(ctx context.Context, box domain.BoundingBox) ([]ports.TaggedFeature, error) {
	s.calls++
	return s.features, s.err
}

func newTestFeatureCache(t *testing.T) *cache.RedisFeatureCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisFeatureCache(client, time.Hour)
}

func TestCachedSourceServesSecondFetchFromCache(t *testing.T) {
	stub := &stubSource{features: []ports.TaggedFeature{{
		ID:       42,
		Element:  "way",
		Name:     "Old Rail Bridge",
		Location: domain.GeoPoint{Lat: 51.505, Lon: -0.09},
		Tags:     map[string]string{"maxheight": "3.5"},
	}}}
	source := NewCachedSource(stub, newTestFeatureCache(t))

	first, err := source.FetchFeatures(context.Background(), testBox)
	require.NoError(t, err)
	second, err := source.FetchFeatures(context.Background(), testBox)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedSourceDistinctBoxesMiss(t *testing.T) {
	stub := &stubSource{}
	source := NewCachedSource(stub, newTestFeatureCache(t))

	_, err := source.FetchFeatures(context.Background(), testBox)
	require.NoError(t, err)
	other := domain.BoundingBox{North: 52.6, South: 52.4, East: 13.5, West: 13.3}
	_, err = source.FetchFeatures(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
}

func TestCachedSourcePropagatesFetchError(t *testing.T) {
	stub := &stubSource{err: errors.New("upstream down")}
	source := NewCachedSource(stub, newTestFeatureCache(t))

	_, err := source.FetchFeatures(context.Background(), testBox)
	assert.ErrorContains(t, err, "upstream down")
}

func TestCachedSourceDegradesWhenRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	featureCache := cache.NewRedisFeatureCache(client, time.Hour)
	mr.Close()

	stub := &stubSource{features: []ports.TaggedFeature{{ID: 7, Element: "node"}}}
	source := NewCachedSource(stub, featureCache)

	features, err := source.FetchFeatures(context.Background(), testBox)
	require.NoError(t, err)
	assert.Len(t, features, 1)
	assert.Equal(t, 1, stub.calls)
}
