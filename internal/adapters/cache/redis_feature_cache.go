package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// RedisFeatureCache stores raw hazard feature sets keyed by the bounding
// box they were fetched for. Upstream feature queries are slow and heavily
// rate limited, and the underlying data changes rarely, so a generous TTL
// is fine.
type RedisFeatureCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisFeatureCache(client *redis.Client, ttl time.Duration) *RedisFeatureCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &RedisFeatureCache{Client: client, TTL: ttl}
}

func featureKey(box domain.BoundingBox) string {
	return "features:" + box.String()
}

// Get fetches the cached feature set for the box. The second return value
// reports whether the box was present.
func (r *RedisFeatureCache) Get(ctx context.Context, box domain.BoundingBox) ([]ports.TaggedFeature, bool, error) {
	if r.Client == nil {
		return nil, false, errors.New("feature cache: client is nil")
	}

	raw, err := r.Client.Get(ctx, featureKey(box)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get feature cache: %w", err)
	}

	var features []ports.TaggedFeature
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, false, fmt.Errorf("get feature cache: decode entry: %w", err)
	}
	return features, true, nil
}

// Put stores the feature set for the box.
func (r *RedisFeatureCache) Put(ctx context.Context, box domain.BoundingBox, features []ports.TaggedFeature) error {
	if r.Client == nil {
		return errors.New("feature cache: client is nil")
	}

	raw, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("insert feature cache: encode entry: %w", err)
	}
	if err := r.Client.Set(ctx, featureKey(box), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert feature cache: %w", err)
	}
	return nil
}
