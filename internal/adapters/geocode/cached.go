package geocode

import (
	"context"
	"log"
	"strings"

	"route-hazard-service/internal/adapters/cache"
	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// CachedGeocoder is a Geocoder decorator backed by the persistent SQL
// geocode cache. Cache problems are never fatal: a failed read falls through
// to the live lookup, a failed write is logged and dropped.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache *cache.SQLGeocodeCache
}

func NewCachedGeocoder(next ports.Geocoder, c *cache.SQLGeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: c}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	// Normalize whitespace for consistent cache keys.
	norm := strings.Join(strings.Fields(address), " ")

	if point, ok, err := g.cache.Get(ctx, norm); err != nil {
		log.Printf("geocode cache read failed: %v", err)
	} else if ok {
		return point, nil
	}

	point, err := g.next.Geocode(ctx, norm)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	if err := g.cache.Put(ctx, norm, point); err != nil {
		log.Printf("geocode cache write failed: %v", err)
	}
	return point, nil
}

// Reverse lookups are not cached; labels change too rarely to matter and a
// coordinate key would be fuzzy anyway.
func (g *CachedGeocoder) ReverseGeocode(ctx context.Context, point domain.GeoPoint) string {
	return g.next.ReverseGeocode(ctx, point)
}
