package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-hazard-service/internal/api"
	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
	"route-hazard-service/internal/services"
)

type stubGeocoder struct {
	points map[string]domain.GeoPoint
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	p, ok := g.points[address]
	if !ok {
		return domain.GeoPoint{}, ports.ErrAddressNotFound
	}
	return p, nil
}

func (g *stubGeocoder) ReverseGeocode(ctx context.Context, point domain.GeoPoint) string {
	return point.Label()
}

type stubProvider struct {
	routes []domain.RouteOption
	err    error
}

func (p *stubProvider) ComputeRoutes(ctx context.Context, start, end domain.GeoPoint, waypoints []domain.GeoPoint) ([]domain.RouteOption, error) {
	return p.routes, p.err
}

type stubSource struct {
	features []ports.TaggedFeature
}

func (s *stubSource) FetchFeatures(ctx context.Context, box domain.BoundingBox) ([]ports.TaggedFeature, error) {
	return s.features, nil
}

func newTestRouter(geocoder ports.Geocoder, provider ports.RouteProvider, source ports.HazardSource) http.Handler {
	if source == nil {
		source = &stubSource{}
	}
	analyzer := services.NewAnalyzer(source, services.DefaultThresholds(), services.DefaultAnalyzerConfig())
	return api.NewRouter(geocoder, provider, analyzer)
}

func validBody() string {
	return `{
		"origin": {"address": "Hamburg"},
		"destination": {"address": "Berlin"},
		"load": {"height_m": 3.2, "width_m": 2.5, "length_m": 12, "weight_t": 30},
		"vehicle": {"total_height_m": 4.1, "axle_weight_t": 9, "axle_count": 5, "turning_radius_m": 12, "length_m": 16}
	}`
}

func defaultGeocoder() *stubGeocoder {
	return &stubGeocoder{points: map[string]domain.GeoPoint{
		"Hamburg": {Lat: 53.55, Lon: 9.99},
		"Berlin":  {Lat: 52.52, Lon: 13.40},
	}}
}

func TestAnalyzeSuccess(t *testing.T) {
	clearance := 3.8
	provider := &stubProvider{routes: []domain.RouteOption{{
		ID:              "osrm-0",
		Name:            "Route 1 via A24",
		Geometry:        []domain.GeoPoint{{Lat: 53.55, Lon: 9.99}, {Lat: 52.52, Lon: 13.40}},
		DistanceMeters:  289000,
		DurationSeconds: 10440,
	}}}
	source := &stubSource{features: []ports.TaggedFeature{{
		ID:       42,
		Element:  "way",
		Name:     "Old Rail Bridge",
		Location: domain.GeoPoint{Lat: 53.55, Lon: 9.99},
		Tags:     map[string]string{"maxheight": "3.8", "bridge": "yes"},
	}}}
	router := newTestRouter(defaultGeocoder(), provider, source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(validBody())))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Origin struct {
			Label string  `json:"label"`
			Lat   float64 `json:"lat"`
		} `json:"origin"`
		Routes []struct {
			ID              string `json:"id"`
			SafetyScore     int    `json:"safety_score"`
			OverallSeverity string `json:"overall_severity"`
			Hazards         []struct {
				Kind       string   `json:"kind"`
				Severity   string   `json:"severity"`
				ClearanceM *float64 `json:"clearance_m"`
			} `json:"hazards"`
			Geometry [][]float64 `json:"geometry"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "Hamburg", res.Origin.Label)
	assert.InDelta(t, 53.55, res.Origin.Lat, 1e-9)

	require.Len(t, res.Routes, 1)
	route := res.Routes[0]
	assert.Equal(t, "osrm-0", route.ID)

	// Clearance 3.8 against a 4.1 m vehicle is an unsafe low bridge:
	// score 100 - 20, overall severity unsafe.
	assert.Equal(t, 80, route.SafetyScore)
	assert.Equal(t, "unsafe", route.OverallSeverity)
	require.Len(t, route.Hazards, 1)
	assert.Equal(t, "low_bridge", route.Hazards[0].Kind)
	assert.Equal(t, "unsafe", route.Hazards[0].Severity)
	require.NotNil(t, route.Hazards[0].ClearanceM)
	assert.InDelta(t, clearance, *route.Hazards[0].ClearanceM, 1e-9)

	require.Len(t, route.Geometry, 2)
	assert.Equal(t, []float64{9.99, 53.55}, route.Geometry[0])
}

func TestAnalyzeCoordinatePlaces(t *testing.T) {
	provider := &stubProvider{routes: []domain.RouteOption{{ID: "osrm-0", Name: "Route 1"}}}
	router := newTestRouter(defaultGeocoder(), provider, nil)

	body := `{
		"origin": {"lat": 53.55, "lon": 9.99},
		"destination": {"address": "Berlin"},
		"load": {"weight_t": 30},
		"vehicle": {"total_height_m": 4.1}
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Origin struct {
			Label string `json:"label"`
		} `json:"origin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "53.55000, 9.99000", res.Origin.Label)
}

func TestAnalyzeAddressNotFound(t *testing.T) {
	router := newTestRouter(&stubGeocoder{}, &stubProvider{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(validBody())))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error": "address not found"}`, rec.Body.String())
}

func TestAnalyzeNoRoute(t *testing.T) {
	provider := &stubProvider{err: ports.ErrNoRoute}
	router := newTestRouter(defaultGeocoder(), provider, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(validBody())))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error": "no route available between these points"}`, rec.Body.String())
}

func TestAnalyzeEmptyRouteSet(t *testing.T) {
	router := newTestRouter(defaultGeocoder(), &stubProvider{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(validBody())))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAnalyzeValidation(t *testing.T) {
	router := newTestRouter(defaultGeocoder(), &stubProvider{}, nil)

	cases := map[string]string{
		"missing origin":    `{"destination": {"address": "Berlin"}, "load": {"weight_t": 30}, "vehicle": {"total_height_m": 4.1}}`,
		"lat without lon":   `{"origin": {"lat": 53.55}, "destination": {"address": "Berlin"}, "load": {"weight_t": 30}, "vehicle": {"total_height_m": 4.1}}`,
		"zero weight":       `{"origin": {"address": "Hamburg"}, "destination": {"address": "Berlin"}, "load": {}, "vehicle": {"total_height_m": 4.1}}`,
		"zero height":       `{"origin": {"address": "Hamburg"}, "destination": {"address": "Berlin"}, "load": {"weight_t": 30}, "vehicle": {}}`,
		"not json":          `{{`,
		"unknown field":     `{"origin": {"address": "Hamburg"}, "destination": {"address": "Berlin"}, "load": {"weight_t": 30}, "vehicle": {"total_height_m": 4.1}, "bogus": 1}`,
		"trailing document": validBody() + `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	router := newTestRouter(defaultGeocoder(), &stubProvider{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(defaultGeocoder(), &stubProvider{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
