package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"route-hazard-service/internal/domain"
)

// OSRMProvider computes candidate routes via a public OSRM instance. It
// requires no credential, which makes it the last resort of the fallback
// chain.
type OSRMProvider struct {
	baseURL string
	profile string
	session *http.Client
}

func NewOSRMProvider(baseURL string) *OSRMProvider {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
		session: &http.Client{Timeout: 20 * time.Second},
	}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry string    `json:"geometry"`
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Maneuver struct {
		Location [2]float64 `json:"location"` // lon, lat
		Type     string     `json:"type"`
		Modifier string     `json:"modifier"`
	} `json:"maneuver"`
}

func (o *OSRMProvider) ComputeRoutes(ctx context.Context, start, end domain.GeoPoint, waypoints []domain.GeoPoint) ([]domain.RouteOption, error) {
	coords := make([]string, 0, 2+len(waypoints))
	coords = append(coords, fmt.Sprintf("%f,%f", start.Lon, start.Lat))
	for _, wp := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", wp.Lon, wp.Lat))
	}
	coords = append(coords, fmt.Sprintf("%f,%f", end.Lon, end.Lat))

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, strings.Join(coords, ";"))

	q := url.Values{}
	q.Set("alternatives", "true")
	q.Set("steps", "true")
	q.Set("overview", "full")

	resp, err := doWithRetry(ctx, o.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("osrm request: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode osrm response: %w", err)
	}
	if decoded.Code != "Ok" {
		return nil, fmt.Errorf("osrm response code %q", decoded.Code)
	}
	if len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("osrm: no routes in response")
	}

	routes := make([]domain.RouteOption, 0, len(decoded.Routes))
	for i, r := range decoded.Routes {
		route, err := o.toRouteOption(i, r)
		if err != nil {
			return nil, fmt.Errorf("osrm: route %d: %w", i, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (o *OSRMProvider) toRouteOption(idx int, r osrmRoute) (domain.RouteOption, error) {
	coords, _, err := polyline.DecodeCoords([]byte(r.Geometry))
	if err != nil {
		return domain.RouteOption{}, fmt.Errorf("decode geometry: %w", err)
	}
	geometry := make([]domain.GeoPoint, len(coords))
	for i, c := range coords {
		geometry[i] = domain.GeoPoint{Lat: c[0], Lon: c[1]}
	}

	var steps []domain.ItineraryStep
	var mainRoad string
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			turn := mapOSRMManeuver(s.Maneuver.Type, s.Maneuver.Modifier)
			steps = append(steps, domain.ItineraryStep{
				Instruction:     instructionText(turn, s.Name),
				DistanceMeters:  int(math.Round(s.Distance)),
				DurationSeconds: int(math.Round(s.Duration)),
				Location: domain.GeoPoint{
					Lat: s.Maneuver.Location[1],
					Lon: s.Maneuver.Location[0],
				},
				RoadName: s.Name,
				Turn:     turn,
			})
			if mainRoad == "" && s.Name != "" {
				mainRoad = s.Name
			}
		}
	}

	name := fmt.Sprintf("Route %d", idx+1)
	if mainRoad != "" {
		name = fmt.Sprintf("Route %d via %s", idx+1, mainRoad)
	}

	return domain.RouteOption{
		ID:              fmt.Sprintf("osrm-%d", idx),
		Name:            name,
		Geometry:        geometry,
		DistanceMeters:  int(math.Round(r.Distance)),
		DurationSeconds: int(math.Round(r.Duration)),
		Steps:           steps,
	}, nil
}
