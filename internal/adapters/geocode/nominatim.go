package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"route-hazard-service/internal/domain"
	"route-hazard-service/internal/ports"
)

// NominatimGeocoder resolves free-text addresses via a Nominatim instance.
// Lookups are best-effort: a miss and a service failure both surface as
// ports.ErrAddressNotFound, and reverse lookups never fail at all.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	session   *http.Client
}

func NewNominatim(baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Nominatim's usage policy requires an identifying agent.
		userAgent: "route-hazard-service/1.0",
		session:   &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to its best match.
func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	address = strings.Join(strings.Fields(address), " ")
	if address == "" {
		return domain.GeoPoint{}, fmt.Errorf("geocode: empty address: %w", ports.ErrAddressNotFound)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	var places []nominatimPlace
	if err := n.get(ctx, "/search", q, &places); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", address, ports.ErrAddressNotFound)
	}
	if len(places) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: no results: %w", address, ports.ErrAddressNotFound)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: bad coordinates: %w", address, ports.ErrAddressNotFound)
	}

	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// ReverseGeocode returns a display label for the point, falling back to the
// formatted coordinate string on any lookup problem.
func (n *NominatimGeocoder) ReverseGeocode(ctx context.Context, point domain.GeoPoint) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	q.Set("format", "jsonv2")

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", q, &place); err != nil {
		return point.Label()
	}
	if place.DisplayName == "" {
		return point.Label()
	}
	return place.DisplayName
}

func (n *NominatimGeocoder) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.session.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
