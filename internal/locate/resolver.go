package locate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fuelradar/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// State is the resolver's explicit machine state. No state is terminal: the
// user can retry or switch to manual entry any number of times.
type State int

const (
	StateIdle State = iota
	StateLocating
	StateResolved
	StateFailed
	StateManualEntryPending
)

func (s State) String() string {
	switch s {
	case StateLocating:
		return "Locating"
	case StateResolved:
		return "Resolved"
	case StateFailed:
		return "Failed"
	case StateManualEntryPending:
		return "ManualEntryPending"
	default:
		return "Idle"
	}
}

// Options mirror the device geolocation request configuration.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxCachedAge time.Duration
}

func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      30 * time.Second,
		MaxCachedAge: 60 * time.Second,
	}
}

// Provider abstracts the device geolocation capability. Implementations
// should return a *models.GeoError for classified failures; anything else is
// treated as GeoUnknown.
type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (models.Coordinate, error)
}

type ValidationErrorKind int

const (
	ValidationOutOfRange ValidationErrorKind = iota
	ValidationNotANumber
)

// ValidationError rejects a manual coordinate submission. It never escapes
// the resolver: the state is left unchanged and no fetch is triggered.
type ValidationError struct {
	Kind  ValidationErrorKind
	Field string
}

func (e *ValidationError) Error() string {
	if e.Kind == ValidationNotANumber {
		return fmt.Sprintf("%s is not a number", e.Field)
	}
	return fmt.Sprintf("%s is out of range", e.Field)
}

// Snapshot is an immutable view of the resolver at one point in time.
// Coordinate is only meaningful when State is StateResolved. Gen is the
// request generation the snapshot belongs to: listeners receive snapshots
// outside the resolver's lock, so delivery order is not guaranteed, and a
// listener must ignore any snapshot whose Gen is older than the newest one
// it has applied.
type Snapshot struct {
	State      State
	Coordinate models.Coordinate
	ErrKind    models.GeoErrorKind
	Gen        uint64
}

// Resolver produces a confirmed user coordinate, either from the device
// geolocation provider or from manual entry. In-flight device requests
// cannot be cancelled, so supersession is handled with a generation counter:
// a completion whose generation no longer matches is discarded.
type Resolver struct {
	mu       sync.Mutex
	provider Provider
	opts     Options
	state    State
	coord    models.Coordinate
	errKind  models.GeoErrorKind
	prev     State // state to restore when manual entry is cancelled
	gen      uint64
	onChange func(Snapshot)
}

// New creates a resolver in StateIdle. A nil provider models a platform
// without any geolocation capability: Start transitions straight to
// Failed(Unsupported) without issuing a request.
func New(provider Provider, opts Options) *Resolver {
	return &Resolver{provider: provider, opts: opts}
}

// OnChange registers the single listener notified after every transition.
// The callback runs outside the resolver's lock.
func (r *Resolver) OnChange(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Resolver) snapshotLocked() Snapshot {
	return Snapshot{State: r.state, Coordinate: r.coord, ErrKind: r.errKind, Gen: r.gen}
}

// Start begins a device-location attempt. Concurrent starts are coalesced:
// a call while already Locating is a no-op, so only one request of this kind
// is ever in flight.
func (r *Resolver) Start(ctx context.Context) {
	r.mu.Lock()
	if r.state == StateLocating {
		r.mu.Unlock()
		log.Debug().Msg("locate already in flight, coalescing")
		return
	}
	if r.provider == nil {
		r.state = StateFailed
		r.errKind = models.GeoUnsupported
		snap := r.snapshotLocked()
		r.mu.Unlock()
		log.Warn().Msg("no geolocation capability, entering Failed(Unsupported)")
		r.notify(snap)
		return
	}
	r.state = StateLocating
	r.gen++
	gen := r.gen
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)

	go r.locate(ctx, gen)
}

// Retry is Start under another name; the coalescing above gives it the
// idempotence the retry button needs.
func (r *Resolver) Retry(ctx context.Context) {
	r.Start(ctx)
}

func (r *Resolver) locate(ctx context.Context, gen uint64) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	coord, err := r.provider.CurrentPosition(ctx, r.opts)

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		log.Debug().Uint64("gen", gen).Msg("discarding superseded location result")
		return
	}
	if err != nil {
		r.state = StateFailed
		r.errKind = classify(err)
		snap := r.snapshotLocked()
		r.mu.Unlock()
		log.Warn().Err(err).Str("kind", snap.ErrKind.String()).Msg("device location failed")
		r.notify(snap)
		return
	}
	r.state = StateResolved
	r.coord = coord
	r.errKind = models.GeoUnknown
	snap := r.snapshotLocked()
	r.mu.Unlock()
	log.Info().Float64("lat", coord.Lat).Float64("lon", coord.Lon).Msg("location resolved")
	r.notify(snap)
}

// RequestManualEntry moves to ManualEntryPending from any state, remembering
// where to return on cancel. It supersedes any in-flight device request.
func (r *Resolver) RequestManualEntry() {
	r.mu.Lock()
	if r.state == StateManualEntryPending {
		r.mu.Unlock()
		return
	}
	r.prev = r.state
	if r.prev == StateLocating {
		// A cancelled manual entry should not leave the UI claiming a
		// request is still underway.
		r.prev = StateIdle
	}
	r.state = StateManualEntryPending
	r.gen++
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

// SubmitManual validates and applies a manually entered coordinate. On a
// validation error the state is unchanged and the error is returned to the
// caller; nothing downstream observes the attempt.
func (r *Resolver) SubmitManual(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return &ValidationError{Kind: ValidationNotANumber, Field: "lat"}
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return &ValidationError{Kind: ValidationNotANumber, Field: "lon"}
	}
	if lat < -90 || lat > 90 {
		return &ValidationError{Kind: ValidationOutOfRange, Field: "lat"}
	}
	if lon < -180 || lon > 180 {
		return &ValidationError{Kind: ValidationOutOfRange, Field: "lon"}
	}

	r.mu.Lock()
	r.state = StateResolved
	r.coord = models.Coordinate{Lat: lat, Lon: lon}
	r.errKind = models.GeoUnknown
	r.gen++
	snap := r.snapshotLocked()
	r.mu.Unlock()
	log.Info().Float64("lat", lat).Float64("lon", lon).Msg("manual coordinate accepted")
	r.notify(snap)
	return nil
}

// CancelManualEntry returns to the state manual entry was requested from.
func (r *Resolver) CancelManualEntry() {
	r.mu.Lock()
	if r.state != StateManualEntryPending {
		r.mu.Unlock()
		return
	}
	r.state = r.prev
	snap := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snap)
}

func (r *Resolver) notify(snap Snapshot) {
	r.mu.Lock()
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func classify(err error) models.GeoErrorKind {
	var geoErr *models.GeoError
	if errors.As(err, &geoErr) {
		return geoErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.GeoTimeout
	}
	return models.GeoUnknown
}
