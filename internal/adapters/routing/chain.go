package routing

import (
	"context"
	"fmt"
	"log"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// Chain tries an ordered list of route providers in sequence and returns the
// first successful result. Once every provider has failed, the individual
// errors fold into the single terminal ports.ErrNoRoute; transport detail is
// logged, never surfaced to callers.
//
// Adding a provider is a wiring change in the composition root, not a code
// change here.
type Chain struct {
	providers []ports.RouteProvider
}

func NewChain(providers ...ports.RouteProvider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) ComputeRoutes(ctx context.Context, start, end domain.GeoPoint, waypoints []domain.GeoPoint) ([]domain.RouteOption, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("route provider chain is empty: %w", ports.ErrNoRoute)
	}

	for _, p := range c.providers {
		routes, err := p.ComputeRoutes(ctx, start, end, waypoints)
		if err == nil {
			return routes, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("route provider failed provider=%T err=%v", p, err)
	}

	return nil, ports.ErrNoRoute
}
