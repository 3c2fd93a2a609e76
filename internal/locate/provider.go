package locate

import (
	"context"

	"github.com/fuelradar/backend-go/internal/models"
)

// FixedProvider reports a preconfigured position. Used for kiosk-style
// deployments where the terminal location is known, and in tests.
type FixedProvider struct {
	Coord models.Coordinate
}

func (p FixedProvider) CurrentPosition(_ context.Context, _ Options) (models.Coordinate, error) {
	return p.Coord, nil
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, opts Options) (models.Coordinate, error)

func (f ProviderFunc) CurrentPosition(ctx context.Context, opts Options) (models.Coordinate, error) {
	return f(ctx, opts)
}
