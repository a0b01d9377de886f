package services

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/geo"
)

const (
	rtreeDimensions  = 2
	rtreeMinChildren = 2
	rtreeMaxChildren = 8
	pointRectSize    = 1e-6
)

type hazardItem struct {
	hazard domain.Hazard
	rect   *rtreego.Rect
}

func (h *hazardItem) Bounds() *rtreego.Rect { return h.rect }

// hazardIndex is an R-tree over classified hazard locations, used for the
// per-step attachment pass so it stays cheap even on hazard-dense corridors.
type hazardIndex struct {
	tree *rtreego.Rtree
}

func newHazardIndex(hazards []domain.Hazard) *hazardIndex {
	tree := rtreego.NewTree(rtreeDimensions, rtreeMinChildren, rtreeMaxChildren)
	for _, h := range hazards {
		p := rtreego.Point{h.Location.Lat, h.Location.Lon}
		tree.Insert(&hazardItem{hazard: h, rect: p.ToRect(pointRectSize)})
	}
	return &hazardIndex{tree: tree}
}

// Near returns the hazards within radiusMeters of p. The rectangle search
// over-selects (degrees are not meters), so every candidate is verified with
// a great-circle distance check.
func (idx *hazardIndex) Near(p domain.GeoPoint, radiusMeters float64) []domain.Hazard {
	latDeg := radiusMeters * geo.DegreesPerMeter

	// Longitude degrees shrink by cos(lat); without this scaling the rect
	// under-selects east-west at any distance from the equator.
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDeg := latDeg / cosLat

	rect, err := rtreego.NewRect(
		rtreego.Point{p.Lat - latDeg, p.Lon - lonDeg},
		[]float64{2 * latDeg, 2 * lonDeg},
	)
	if err != nil {
		return nil
	}

	var out []domain.Hazard
	for _, res := range idx.tree.SearchIntersect(rect) {
		item, ok := res.(*hazardItem)
		if !ok {
			continue
		}
		if geo.Distance(p, item.hazard.Location) <= radiusMeters {
			out = append(out, item.hazard)
		}
	}
	return out
}
