package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

type stubProvider struct {
	routes []domain.RouteOption
	err    error
	calls  int
}

func (s *stubProvider) ComputeRoutes(ctx context.Context, start, end domain.GeoPoint, waypoints []domain.GeoPoint) ([]domain.RouteOption, error) {
	s.calls++
	return s.routes, s.err
}

func TestChainUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubProvider{routes: []domain.RouteOption{{ID: "primary-0"}}}
	fallback := &stubProvider{routes: []domain.RouteOption{{ID: "fallback-0"}}}

	routes, err := NewChain(primary, fallback).ComputeRoutes(
		context.Background(), domain.GeoPoint{}, domain.GeoPoint{}, nil)

	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "primary-0", routes[0].ID)
	assert.Equal(t, 0, fallback.calls, "fallback should not be consulted")
}

func TestChainFallsBackOnPrimaryError(t *testing.T) {
	primary := &stubProvider{err: errors.New("quota exceeded")}
	fallback := &stubProvider{routes: []domain.RouteOption{{ID: "fallback-0"}}}

	routes, err := NewChain(primary, fallback).ComputeRoutes(
		context.Background(), domain.GeoPoint{}, domain.GeoPoint{}, nil)

	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "fallback-0", routes[0].ID)
	assert.Equal(t, 1, primary.calls)
}

func TestChainExhaustedReturnsErrNoRoute(t *testing.T) {
	primary := &stubProvider{err: errors.New("boom")}
	fallback := &stubProvider{err: errors.New("also boom")}

	_, err := NewChain(primary, fallback).ComputeRoutes(
		context.Background(), domain.GeoPoint{}, domain.GeoPoint{}, nil)

	require.ErrorIs(t, err, ports.ErrNoRoute)
	// The terminal error carries no transport detail from either provider.
	assert.Equal(t, ports.ErrNoRoute.Error(), err.Error())
}

func TestChainEmptyReturnsErrNoRoute(t *testing.T) {
	_, err := NewChain().ComputeRoutes(
		context.Background(), domain.GeoPoint{}, domain.GeoPoint{}, nil)
	require.ErrorIs(t, err, ports.ErrNoRoute)
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	primary := &stubProvider{err: errors.New("slow failure")}
	fallback := &stubProvider{routes: []domain.RouteOption{{ID: "fallback-0"}}}
	cancel()

	_, err := NewChain(primary, fallback).ComputeRoutes(
		ctx, domain.GeoPoint{}, domain.GeoPoint{}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fallback.calls, "cancelled analysis must not continue down the chain")
}
