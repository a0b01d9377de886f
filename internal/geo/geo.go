// Package geo provides the pure geodesic math the analysis pipeline is
// built on: great-circle distance, point-to-polyline proximity and
// bounding-box derivation. Spherical-earth approximation throughout.
package geo

import (
	"math"

	"route-hazard-service/internal/domain"
)

// Mean Earth radius in meters.
const earthRadiusM = 6371000.0

// DegreesPerMeter is the degrees of latitude per meter, used to pad
// bounding boxes and size spatial search rectangles. Longitude degrees
// shrink by cos(lat) and need scaling before use on that axis.
const DegreesPerMeter = 1.0 / 111000.0

// Distance returns the great-circle distance between two points in meters
// using the haversine formula. Symmetric; zero iff a == b.
func Distance(a, b domain.GeoPoint) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// MinDistanceToPolyline returns the minimum distance in meters from p to any
// vertex of the polyline. This is a vertex approximation rather than true
// segment projection, which is adequate at the vertex density of provider
// geometry. Returns +Inf for an empty polyline.
func MinDistanceToPolyline(p domain.GeoPoint, polyline []domain.GeoPoint) float64 {
	min := math.Inf(1)
	for _, v := range polyline {
		if d := Distance(p, v); d < min {
			min = d
		}
	}
	return min
}

// BoundingBoxOf derives the min/max bounding box of the given points,
// expanded on every side by marginMeters so hazards sitting exactly on the
// route edge are not missed. Latitude and longitude are clamped to their
// valid ranges.
func BoundingBoxOf(points []domain.GeoPoint, marginMeters float64) domain.BoundingBox {
	if len(points) == 0 {
		return domain.BoundingBox{}
	}

	box := domain.BoundingBox{
		North: points[0].Lat,
		South: points[0].Lat,
		East:  points[0].Lon,
		West:  points[0].Lon,
	}
	for _, p := range points[1:] {
		box.North = math.Max(box.North, p.Lat)
		box.South = math.Min(box.South, p.Lat)
		box.East = math.Max(box.East, p.Lon)
		box.West = math.Min(box.West, p.Lon)
	}

	margin := marginMeters * DegreesPerMeter
	box.North = math.Min(box.North+margin, 90)
	box.South = math.Max(box.South-margin, -90)
	box.East = math.Min(box.East+margin, 180)
	box.West = math.Max(box.West-margin, -180)

	return box
}
