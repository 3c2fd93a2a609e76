package station

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fuelradar/backend-go/internal/models"
	"github.com/fuelradar/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFinder(t *testing.T, handler http.HandlerFunc) (*OverpassFinder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := client.New(client.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	return NewOverpassFinder(httpClient, "fuel"), srv
}

func TestOverpassFinder_FindNearby(t *testing.T) {
	var gotQuery string

	finder, _ := newTestFinder(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/interpreter", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostFormValue("data")

		response := overpassResponse{
			Elements: []overpassElement{
				{
					Type: "node",
					ID:   101,
					Lat:  floatPtr(12.9701),
					Lon:  floatPtr(77.5905),
					Tags: map[string]string{
						"name":             "Indian Oil",
						"brand":            "IndianOil",
						"addr:street":      "MG Road",
						"addr:housenumber": "42",
						"addr:city":        "Bengaluru",
					},
				},
				{
					Type:   "way",
					ID:     202,
					Center: &overpassCenter{Lat: 12.9745, Lon: 77.5952},
					Tags:   map[string]string{"brand": "Shell"},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	})

	stations, err := finder.FindNearby(context.Background(), models.Coordinate{Lat: 12.97, Lon: 77.59}, 2000)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	// The query asks for all three geometry kinds around the origin.
	assert.Contains(t, gotQuery, "[out:json][timeout:25];")
	assert.Contains(t, gotQuery, `node["amenity"="fuel"](around:2000,`)
	assert.Contains(t, gotQuery, `way["amenity"="fuel"](around:2000,`)
	assert.Contains(t, gotQuery, `relation["amenity"="fuel"](around:2000,`)
	assert.Contains(t, gotQuery, "out center;")

	node := stations[0]
	assert.Equal(t, "node/101", node.ID)
	require.NotNil(t, node.Name)
	assert.Equal(t, "Indian Oil", *node.Name)
	require.NotNil(t, node.Brand)
	assert.Equal(t, "IndianOil", *node.Brand)
	assert.Equal(t, "MG Road 42 Bengaluru", node.Address)
	assert.Equal(t, 12.9701, node.Latitude)
	assert.Zero(t, node.DistanceMeters, "finder results carry no distances")

	way := stations[1]
	assert.Equal(t, "way/202", way.ID)
	assert.Nil(t, way.Name, "absent name stays unset, not defaulted")
	assert.Equal(t, "", way.Address)
	assert.Equal(t, 12.9745, way.Latitude)
	assert.Equal(t, 77.5952, way.Longitude)
}

func TestOverpassFinder_SkipsElementsWithoutCoordinate(t *testing.T) {
	finder, _ := newTestFinder(t, func(w http.ResponseWriter, _ *http.Request) {
		response := overpassResponse{
			Elements: []overpassElement{
				{Type: "way", ID: 1, Tags: map[string]string{"name": "no geometry"}},
				{Type: "node", ID: 2, Lat: floatPtr(1), Lon: floatPtr(2)},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	})

	stations, err := finder.FindNearby(context.Background(), models.Coordinate{}, 2000)
	require.NoError(t, err)
	require.Len(t, stations, 1, "malformed element is skipped, not fatal")
	assert.Equal(t, "node/2", stations[0].ID)
}

func TestOverpassFinder_EmptyResponseIsNotAnError(t *testing.T) {
	finder, _ := newTestFinder(t, func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(overpassResponse{}))
	})

	stations, err := finder.FindNearby(context.Background(), models.Coordinate{}, 2000)
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestOverpassFinder_NonSuccessStatus(t *testing.T) {
	finder, _ := newTestFinder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	stations, err := finder.FindNearby(context.Background(), models.Coordinate{}, 2000)
	require.Error(t, err)
	assert.Nil(t, stations)

	var apiErr *OverpassAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestOverpassFinder_MalformedBody(t *testing.T) {
	finder, _ := newTestFinder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := finder.FindNearby(context.Background(), models.Coordinate{}, 2000)
	var apiErr *OverpassAPIError
	require.ErrorAs(t, err, &apiErr)
}

func floatPtr(f float64) *float64 {
	return &f
}
