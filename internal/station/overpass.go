package station

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fuelradar/backend-go/internal/models"
	"github.com/fuelradar/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const DefaultAmenityTag = "fuel"

// OverpassFinder queries the Overpass (OpenStreetMap) API for POIs carrying
// the configured amenity tag.
type OverpassFinder struct {
	httpClient *client.Client
	amenity    string
}

func NewOverpassFinder(httpClient *client.Client, amenity string) *OverpassFinder {
	if amenity == "" {
		amenity = DefaultAmenityTag
	}
	return &OverpassFinder{
		httpClient: httpClient,
		amenity:    amenity,
	}
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// overpassElement is one raw result. Nodes carry their own lat/lon; ways and
// relations report a computed center instead.
type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FindNearby issues a single bounded query for node, way and relation
// geometries around the origin and normalizes the response. An empty result
// set is not an error. Elements without a usable coordinate are skipped.
func (f *OverpassFinder) FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]models.Station, error) {
	query := buildQuery(f.amenity, radiusMeters, origin)

	resp, err := f.httpClient.PostForm(ctx, "/api/interpreter", url.Values{"data": {query}})
	if err != nil {
		return nil, NewOverpassAPIError("fetching stations", 0, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewOverpassAPIError("fetching stations", resp.StatusCode, nil)
	}

	var parsed overpassResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, NewOverpassAPIError("decoding response", 0, err)
	}

	stations := make([]models.Station, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		st, ok := normalizeElement(el)
		if !ok {
			log.Debug().Str("type", el.Type).Int64("id", el.ID).Msg("skipping element without coordinate")
			continue
		}
		stations = append(stations, st)
	}

	log.Debug().Int("station_count", len(stations)).
		Float64("lat", origin.Lat).Float64("lon", origin.Lon).
		Msg("normalized overpass response")

	return stations, nil
}

// buildQuery renders the Overpass QL body. The 25s timeout is a server-side
// hint; the HTTP client's own timeout gives it slack on top.
func buildQuery(amenity string, radiusMeters int, origin models.Coordinate) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusMeters, origin.Lat, origin.Lon)
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];(")
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&b, "%s[\"amenity\"=%q]%s;", kind, amenity, around)
	}
	b.WriteString(");out center;")
	return b.String()
}

func normalizeElement(el overpassElement) (models.Station, bool) {
	var lat, lon float64
	switch {
	case el.Lat != nil && el.Lon != nil:
		lat, lon = *el.Lat, *el.Lon
	case el.Center != nil:
		lat, lon = el.Center.Lat, el.Center.Lon
	default:
		return models.Station{}, false
	}

	st := models.Station{
		ID:        fmt.Sprintf("%s/%d", el.Type, el.ID),
		Latitude:  lat,
		Longitude: lon,
		Address:   buildAddress(el.Tags),
	}
	if name, ok := el.Tags["name"]; ok && name != "" {
		st.Name = &name
	}
	if brand, ok := el.Tags["brand"]; ok && brand != "" {
		st.Brand = &brand
	}
	return st, true
}

// buildAddress joins whatever street, house number and city tags are present
// with single spaces. Missing parts are simply omitted.
func buildAddress(tags map[string]string) string {
	parts := make([]string, 0, 3)
	for _, key := range []string{"addr:street", "addr:housenumber", "addr:city"} {
		if v := tags[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
