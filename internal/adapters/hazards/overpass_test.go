package hazards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-hazard-service/internal/domain"
)

var testBox = domain.BoundingBox{North: 51.52, South: 51.50, East: -0.08, West: -0.11}

func TestOverpassSourceFetchFeatures(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/interpreter", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("data")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"elements": [
				{
					"type": "way", "id": 42,
					"center": {"lat": 51.505, "lon": -0.09},
					"tags": {"maxheight": "3.5", "name": "Old Rail Bridge"}
				},
				{
					"type": "node", "id": 7,
					"lat": 51.51, "lon": -0.10,
					"tags": {"railway": "level_crossing"}
				},
				{
					"type": "way", "id": 99,
					"tags": {"maxwidth": "2.5"}
				}
			]
		}`))
	}))
	defer server.Close()

	source := NewOverpassSource(server.URL)
	features, err := source.FetchFeatures(context.Background(), testBox)
	require.NoError(t, err)

	// The way without a center has no usable location and is dropped.
	require.Len(t, features, 2)

	assert.Equal(t, int64(42), features[0].ID)
	assert.Equal(t, "way", features[0].Element)
	assert.Equal(t, "Old Rail Bridge", features[0].Name)
	assert.Equal(t, domain.GeoPoint{Lat: 51.505, Lon: -0.09}, features[0].Location)
	assert.Equal(t, "3.5", features[0].Tags["maxheight"])

	assert.Equal(t, int64(7), features[1].ID)
	assert.Equal(t, "node", features[1].Element)
	assert.Equal(t, domain.GeoPoint{Lat: 51.51, Lon: -0.10}, features[1].Location)

	assert.Contains(t, gotQuery, `way["maxheight"]`+testBox.String())
	assert.Contains(t, gotQuery, `way["maxweight:hgv"]`+testBox.String())
	assert.Contains(t, gotQuery, `node["railway"="level_crossing"]`+testBox.String())
	assert.Contains(t, gotQuery, `way["power"="line"]`+testBox.String())
	assert.Contains(t, gotQuery, "out center;")
}

func TestOverpassSourceEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer server.Close()

	source := NewOverpassSource(server.URL)
	features, err := source.FetchFeatures(context.Background(), testBox)
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestOverpassSourceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer server.Close()

	source := NewOverpassSource(server.URL)
	_, err := source.FetchFeatures(context.Background(), testBox)
	assert.ErrorContains(t, err, "overpass status 504")
}
