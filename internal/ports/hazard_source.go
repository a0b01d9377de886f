package ports

import (
	"context"

	"route-hazard-service/internal/domain"
)

// TaggedFeature is one raw map feature returned by a spatial hazard query:
// a loosely-typed tag set plus a representative coordinate. Parsing these
// into typed hazards is the job of the services layer.
type TaggedFeature struct {
	ID       int64
	Element  string // "node" or "way"
	Name     string
	Location domain.GeoPoint
	Tags     map[string]string
}

// Port: spatial queries against an infrastructure database.
type HazardSource interface {
	// Return all tagged features of interest inside the bounding box.
	// An empty result is a valid outcome, not an error.
	FetchFeatures(ctx context.Context, box domain.BoundingBox) ([]TaggedFeature, error)
}
