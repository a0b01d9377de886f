package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"route-hazard-service/internal/domain"
)

// googleFieldMask is required by the Routes API; requests without it are
// rejected.
const googleFieldMask = "routes.description,routes.duration,routes.distanceMeters," +
	"routes.polyline.encodedPolyline,routes.legs.steps.distanceMeters," +
	"routes.legs.steps.staticDuration,routes.legs.steps.startLocation," +
	"routes.legs.steps.navigationInstruction"

// GoogleProvider computes candidate routes via the Google Routes API v2.
// It is the primary provider and is only placed in the fallback chain when
// an API key is configured.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	session *http.Client
}

func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google routes api key is empty")
	}
	return &GoogleProvider{
		apiKey:  apiKey,
		baseURL: "https://routes.googleapis.com",
		session: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type googleWaypoint struct {
	Location struct {
		LatLng struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"latLng"`
	} `json:"location"`
}

func toGoogleWaypoint(p domain.GeoPoint) googleWaypoint {
	var w googleWaypoint
	w.Location.LatLng.Latitude = p.Lat
	w.Location.LatLng.Longitude = p.Lon
	return w
}

type googleRequest struct {
	Origin                   googleWaypoint   `json:"origin"`
	Destination              googleWaypoint   `json:"destination"`
	Intermediates            []googleWaypoint `json:"intermediates,omitempty"`
	TravelMode               string           `json:"travelMode"`
	RoutingPreference        string           `json:"routingPreference"`
	ComputeAlternativeRoutes bool             `json:"computeAlternativeRoutes"`
}

type googleResponse struct {
	Routes []googleRoute `json:"routes"`
}

type googleRoute struct {
	Description    string `json:"description"`
	Duration       string `json:"duration"`
	DistanceMeters int    `json:"distanceMeters"`
	Polyline       struct {
		EncodedPolyline string `json:"encodedPolyline"`
	} `json:"polyline"`
	Legs []googleLeg `json:"legs"`
}

type googleLeg struct {
	Steps []googleStep `json:"steps"`
}

type googleStep struct {
	DistanceMeters int    `json:"distanceMeters"`
	StaticDuration string `json:"staticDuration"`
	StartLocation  struct {
		LatLng struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"latLng"`
	} `json:"startLocation"`
	NavigationInstruction struct {
		Maneuver     string `json:"maneuver"`
		Instructions string `json:"instructions"`
	} `json:"navigationInstruction"`
}

func (g *GoogleProvider) ComputeRoutes(ctx context.Context, start, end domain.GeoPoint, waypoints []domain.GeoPoint) ([]domain.RouteOption, error) {
	body := googleRequest{
		Origin:                   toGoogleWaypoint(start),
		Destination:              toGoogleWaypoint(end),
		TravelMode:               "DRIVE",
		RoutingPreference:        "TRAFFIC_UNAWARE",
		ComputeAlternativeRoutes: len(waypoints) == 0, // API restriction: no alternatives with intermediates
	}
	for _, wp := range waypoints {
		body.Intermediates = append(body.Intermediates, toGoogleWaypoint(wp))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal google routes request: %w", err)
	}

	resp, err := doWithRetry(ctx, g.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			g.baseURL+"/directions/v2:computeRoutes", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", g.apiKey)
		req.Header.Set("X-Goog-FieldMask", googleFieldMask)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("google routes request: %w", err)
	}
	defer resp.Body.Close()

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode google routes response: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return nil, errors.New("google routes: no routes in response")
	}

	routes := make([]domain.RouteOption, 0, len(decoded.Routes))
	for i, r := range decoded.Routes {
		route, err := g.toRouteOption(i, r)
		if err != nil {
			return nil, fmt.Errorf("google routes: route %d: %w", i, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (g *GoogleProvider) toRouteOption(idx int, r googleRoute) (domain.RouteOption, error) {
	coords, _, err := polyline.DecodeCoords([]byte(r.Polyline.EncodedPolyline))
	if err != nil {
		return domain.RouteOption{}, fmt.Errorf("decode polyline: %w", err)
	}
	geometry := make([]domain.GeoPoint, len(coords))
	for i, c := range coords {
		geometry[i] = domain.GeoPoint{Lat: c[0], Lon: c[1]}
	}

	var steps []domain.ItineraryStep
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			turn := mapGoogleManeuver(s.NavigationInstruction.Maneuver)
			instruction := s.NavigationInstruction.Instructions
			if instruction == "" {
				instruction = instructionText(turn, "")
			}
			steps = append(steps, domain.ItineraryStep{
				Instruction:     instruction,
				DistanceMeters:  s.DistanceMeters,
				DurationSeconds: parseGoogleDuration(s.StaticDuration),
				Location: domain.GeoPoint{
					Lat: s.StartLocation.LatLng.Latitude,
					Lon: s.StartLocation.LatLng.Longitude,
				},
				Turn: turn,
			})
		}
	}

	name := r.Description
	if name == "" {
		name = fmt.Sprintf("Route %d", idx+1)
	}

	return domain.RouteOption{
		ID:              fmt.Sprintf("google-%d", idx),
		Name:            name,
		Geometry:        geometry,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: parseGoogleDuration(r.Duration),
		Steps:           steps,
	}, nil
}

// parseGoogleDuration parses the API's "450s" format. Unparsable values
// yield zero rather than failing the route.
func parseGoogleDuration(s string) int {
	s = strings.TrimSuffix(s, "s")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(v)
}
