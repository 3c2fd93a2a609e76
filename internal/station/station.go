package station

import (
	"context"

	"github.com/fuelradar/backend-go/internal/models"
)

// Finder locates fuel stations around an origin. Results carry no distances;
// ranking is a separate pass against the coordinate that triggered the query.
type Finder interface {
	FindNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]models.Station, error)
}
