package ports

import (
	"context"
	"errors"

	"route-hazard-service/internal/domain"
)

// ErrAddressNotFound reports that an address could not be resolved to a
// coordinate, either because the lookup service found nothing or because the
// service itself failed. Callers treat both the same way.
var ErrAddressNotFound = errors.New("address not found")

// Port: resolving free-text addresses to coordinates and back.
type Geocoder interface {
	// Resolve an address to its best-match coordinate.
	// Returns ErrAddressNotFound when no usable match exists.
	Geocode(ctx context.Context, address string) (domain.GeoPoint, error)

	// Return a best-effort human-readable label for a point. Never fails:
	// on any lookup problem the formatted coordinate string is returned.
	ReverseGeocode(ctx context.Context, point domain.GeoPoint) string
}
