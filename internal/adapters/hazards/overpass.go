package hazards

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// OverpassSource queries the community infrastructure database (Overpass
// API) for the tagged feature categories the engine cares about: height,
// weight and width restricted ways, tunnels with clearance tags, railway
// level crossings and power lines.
type OverpassSource struct {
	baseURL string
	session *http.Client
}

func NewOverpassSource(baseURL string) *OverpassSource {
	if baseURL == "" {
		baseURL = "https://overpass-api.de"
	}
	return &OverpassSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: &http.Client{Timeout: 30 * time.Second},
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string  `json:"type"`
	ID     int64   `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// buildQuery assembles the Overpass QL statement for one bounding box.
// "out center" collapses ways to a single representative coordinate.
//
// Tunnels and bridges are fetched through the maxheight selector: a tunnel
// or bridge way without a clearance tag carries nothing to classify against,
// so a dedicated tunnel selector would only return unusable elements.
func buildQuery(box domain.BoundingBox) string {
	bbox := box.String()
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, selector := range []string{
		`way["maxheight"]`,
		`way["maxweight"]`,
		`way["maxweight:hgv"]`,
		`way["maxwidth"]`,
		`node["railway"="level_crossing"]`,
		`way["power"="line"]`,
	} {
		b.WriteString("  " + selector + bbox + ";\n")
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

// FetchFeatures runs one spatial query over the box. An empty result set is
// a valid outcome.
func (o *OverpassSource) FetchFeatures(ctx context.Context, box domain.BoundingBox) ([]ports.TaggedFeature, error) {
	form := url.Values{}
	form.Set("data", buildQuery(box))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/api/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass status %d", resp.StatusCode)
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	features := make([]ports.TaggedFeature, 0, len(decoded.Elements))
	for _, el := range decoded.Elements {
		location, ok := elementLocation(el)
		if !ok {
			continue
		}
		features = append(features, ports.TaggedFeature{
			ID:       el.ID,
			Element:  el.Type,
			Name:     el.Tags["name"],
			Location: location,
			Tags:     el.Tags,
		})
	}
	return features, nil
}

// elementLocation picks the representative coordinate: nodes carry lat/lon
// directly, ways carry a center. Elements with neither are dropped.
func elementLocation(el overpassElement) (domain.GeoPoint, bool) {
	if el.Center != nil {
		return domain.GeoPoint{Lat: el.Center.Lat, Lon: el.Center.Lon}, true
	}
	if el.Type == "node" {
		return domain.GeoPoint{Lat: el.Lat, Lon: el.Lon}, true
	}
	return domain.GeoPoint{}, false
}
