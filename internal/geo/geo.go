package geo

import (
	"fmt"
	"math"

	"github.com/fuelradar/backend-go/internal/models"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between a and b using the
// haversine formula. The atan2 form stays numerically stable for antipodal
// points where the asin form loses precision.
func DistanceMeters(a, b models.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// FormatDistance renders a distance for display: meters rounded to the
// nearest integer below 1 km, otherwise kilometers with two decimals.
// NaN yields an empty string. Formatting is fixed, never locale-sensitive.
// The branch is chosen on the rounded value so 999.5 m renders as
// "1.00 km", never "1000 m".
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) {
		return ""
	}
	if rounded := math.Round(meters); rounded < 1000 {
		return fmt.Sprintf("%d m", int(rounded))
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
