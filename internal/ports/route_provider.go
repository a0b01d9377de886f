package ports

import (
	"context"
	"errors"

	"route-hazard-service/internal/domain"
)

// ErrNoRoute is the uniform terminal error once every configured provider
// has been tried. Internal transport detail is logged, not surfaced.
var ErrNoRoute = errors.New("no route available between these points")

// Port: computing candidate road routes between ordered waypoints.
// Implementations return geometry, distance, duration and itinerary steps;
// hazards and safety metrics are filled in later by the analyzer.
type RouteProvider interface {
	ComputeRoutes(ctx context.Context, start, end domain.GeoPoint, waypoints []domain.GeoPoint) ([]domain.RouteOption, error)
}
