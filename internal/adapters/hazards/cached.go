package hazards

import (
	"context"
	"log"

	"route-hazard-service/internal/adapters/cache"
	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// CachedSource wraps a hazard source with a Redis-backed feature cache.
// Cache failures are logged and degrade to a direct fetch, never surfaced.
type CachedSource struct {
	next  ports.HazardSource
	cache *cache.RedisFeatureCache
}

func NewCachedSource(next ports.HazardSource, featureCache *cache.RedisFeatureCache) *CachedSource {
	return &CachedSource{next: next, cache: featureCache}
}

func (c *CachedSource) FetchFeatures(ctx context.Context, box domain.BoundingBox) ([]ports.TaggedFeature, error) {
	features, ok, err := c.cache.Get(ctx, box)
	if err != nil {
		log.Printf("feature cache read failed box=%s err=%v", box.String(), err)
	}
	if ok {
		return features, nil
	}

	features, err = c.next.FetchFeatures(ctx, box)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, box, features); err != nil {
		log.Printf("feature cache write failed box=%s err=%v", box.String(), err)
	}
	return features, nil
}
