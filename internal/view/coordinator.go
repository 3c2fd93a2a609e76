package view

import (
	"context"
	"sync"

	"github.com/fuelradar/backend-go/internal/locate"
	"github.com/fuelradar/backend-go/internal/models"
	"github.com/fuelradar/backend-go/internal/ranking"
	"github.com/fuelradar/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

// Snapshot is the read-only view handed to the presentation layer. Stations
// is the current ranking; index 0 drives the route overlay.
type Snapshot struct {
	MapCenter         *models.Coordinate  `json:"mapCenter,omitempty"`
	Stations          []models.Station    `json:"stations"`
	SelectedStationID string              `json:"selectedStationId,omitempty"`
	RouteOverlay      []models.Coordinate `json:"routeOverlay,omitempty"`
	ResolverState     string              `json:"resolverState"`
	LoadingLabel      string              `json:"loadingLabel,omitempty"`
	ErrorMessage      string              `json:"errorMessage,omitempty"`
	Stale             bool                `json:"stale,omitempty"`
}

// Coordinator glues the location resolver, the station finder and the
// ranking pass together. It owns the (coordinate, ranking, selection) triple
// and keeps it mutually consistent: a ranking is only ever published together
// with the coordinate that produced it.
//
// Station fetches cannot be cancelled once issued, so supersession uses the
// same generation-counter pattern as the resolver: a completion whose
// generation is stale is dropped.
type Coordinator struct {
	mu       sync.Mutex
	resolver *locate.Resolver
	finder   station.Finder
	radius   int

	resolverSnap locate.Snapshot
	resolverGen  uint64             // newest snapshot generation applied
	coord        *models.Coordinate // current confirmed user coordinate
	rankedFor    *models.Coordinate // coordinate the ranking was computed against
	ranked       []models.Station
	selectedID   string
	fetchGen     uint64
	fetching     bool
	fetchErr     bool
	stale        bool

	// centerArmed implements the edge-triggered one-shot "center on user"
	// signal: armed initially and re-armed by Idle/Failed, consumed by the
	// first resolution after arming.
	centerArmed   bool
	centerPending bool

	ctx context.Context
}

func NewCoordinator(ctx context.Context, resolver *locate.Resolver, finder station.Finder, radiusMeters int) *Coordinator {
	c := &Coordinator{
		resolver:    resolver,
		finder:      finder,
		radius:      radiusMeters,
		centerArmed: true,
		ctx:         ctx,
	}
	resolver.OnChange(c.onResolverChange)
	return c
}

// Start kicks off the initial device-location attempt.
func (c *Coordinator) Start() {
	c.resolver.Start(c.ctx)
}

func (c *Coordinator) onResolverChange(snap locate.Snapshot) {
	c.mu.Lock()
	// Snapshots are emitted outside the resolver's lock and can arrive out
	// of order; one from a superseded generation must never displace the
	// coordinate the user confirmed afterwards.
	if snap.Gen < c.resolverGen {
		c.mu.Unlock()
		log.Debug().Uint64("gen", snap.Gen).Msg("discarding superseded resolver snapshot")
		return
	}
	c.resolverGen = snap.Gen
	c.resolverSnap = snap

	switch snap.State {
	case locate.StateResolved:
		coord := snap.Coordinate
		c.coord = &coord
		if c.centerArmed {
			c.centerArmed = false
			c.centerPending = true
		}
		// A new coordinate invalidates the current ranking pairing; the
		// previous list stays visible but is stale until the fetch lands.
		c.stale = len(c.ranked) > 0
		c.fetchGen++
		gen := c.fetchGen
		c.fetching = true
		c.fetchErr = false
		c.mu.Unlock()
		go c.fetch(coord, gen)
		return
	case locate.StateIdle, locate.StateFailed:
		c.centerArmed = true
	}
	c.mu.Unlock()
}

func (c *Coordinator) fetch(coord models.Coordinate, gen uint64) {
	stations, err := c.finder.FindNearby(c.ctx, coord, c.radius)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.fetchGen {
		log.Debug().Uint64("gen", gen).Msg("discarding superseded station fetch")
		return
	}
	c.fetching = false

	if err != nil {
		// Keep the last good ranking on a soft failure; just flag it stale.
		log.Warn().Err(err).Msg("station fetch failed")
		c.fetchErr = true
		c.stale = len(c.ranked) > 0
		return
	}

	c.fetchErr = false
	c.stale = false
	c.ranked = ranking.Rank(coord, stations)
	c.rankedFor = &coord
	if c.selectedID != "" && !containsID(c.ranked, c.selectedID) {
		c.selectedID = ""
	}
	log.Info().Int("station_count", len(c.ranked)).Msg("ranking updated")
}

// SelectStation marks a station as selected. An id not present in the
// current ranking is a no-op, not an error.
func (c *Coordinator) SelectStation(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !containsID(c.ranked, id) {
		return
	}
	c.selectedID = id
}

// RetryLocate re-issues the device-location request. Coalescing in the
// resolver makes concurrent retries safe.
func (c *Coordinator) RetryLocate() {
	c.resolver.Retry(c.ctx)
}

func (c *Coordinator) RequestManualEntry() {
	c.resolver.RequestManualEntry()
}

// SubmitManualCoordinate validates and applies a hand-entered position.
// Validation failures stay local: the resolver state is unchanged and no
// station fetch is triggered.
func (c *Coordinator) SubmitManualCoordinate(lat, lon float64) error {
	return c.resolver.SubmitManual(lat, lon)
}

func (c *Coordinator) CancelManualEntry() {
	c.resolver.CancelManualEntry()
}

// TakeCenterOnUser consumes the one-shot centering signal. It fires on the
// first resolution only; re-arming requires passing through Idle or Failed.
func (c *Coordinator) TakeCenterOnUser() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	fired := c.centerPending
	c.centerPending = false
	return fired
}

// Snapshot derives the presentation view from the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Stations:          c.ranked,
		SelectedStationID: c.selectedID,
		ResolverState:     c.resolverSnap.State.String(),
		Stale:             c.stale,
	}
	if snap.Stations == nil {
		snap.Stations = []models.Station{}
	}

	if c.coord != nil {
		center := *c.coord
		snap.MapCenter = &center
		// The overlay pairs a ranking with the coordinate that produced it;
		// while a re-resolution's fetch is still in flight the old line is
		// withheld rather than drawn from the wrong origin.
		if len(c.ranked) > 0 && c.rankedFor != nil && *c.rankedFor == center {
			snap.RouteOverlay = []models.Coordinate{center, c.ranked[0].Coordinate()}
		}
	}

	switch {
	case c.resolverSnap.State == locate.StateLocating:
		snap.LoadingLabel = labelLocating
	case c.fetching:
		snap.LoadingLabel = labelFetching
	}

	switch {
	case c.resolverSnap.State == locate.StateFailed:
		snap.ErrorMessage = geoErrorMessage(c.resolverSnap.ErrKind)
	case c.fetchErr:
		snap.ErrorMessage = msgFetchFailed
	}

	return snap
}
