package domain

import "fmt"

// Immutable geographic coordinate in degrees (WGS84).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Return the point as [lon, lat] for external API compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// Format the point as "lat, lon" with 5 decimal places (~1 m resolution).
// Used as the reverse-geocode fallback label.
func (p GeoPoint) Label() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
}

// Axis-aligned geographic bounding box.
type BoundingBox struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the point lies inside the box (edges inclusive).
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North &&
		p.Lon >= b.West && p.Lon <= b.East
}

// Overpass bounding-box form: "(south,west,north,east)".
func (b BoundingBox) String() string {
	return fmt.Sprintf("(%f,%f,%f,%f)", b.South, b.West, b.North, b.East)
}
