package ranking

import (
	"sort"

	"github.com/fuelradar/backend-go/internal/geo"
	"github.com/fuelradar/backend-go/internal/models"
)

// Rank computes the distance from origin to every station and returns a new
// slice sorted ascending by that distance. The sort is stable: equal
// distances keep their response order. The input slice is never mutated, so
// a result can replace the previous one atomically.
func Rank(origin models.Coordinate, stations []models.Station) []models.Station {
	ranked := make([]models.Station, len(stations))
	copy(ranked, stations)

	for i := range ranked {
		ranked[i].DistanceMeters = geo.DistanceMeters(origin, ranked[i].Coordinate())
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})

	return ranked
}
