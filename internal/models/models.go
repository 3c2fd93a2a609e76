package models

import "fmt"

// Coordinate is a latitude/longitude pair. It is replaced wholesale on
// re-resolution, never mutated in place.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Station struct {
	ID             string  `json:"id"`
	Name           *string `json:"name,omitempty"`
	Brand          *string `json:"brand,omitempty"`
	Address        string  `json:"address,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters float64 `json:"distanceMeters"`
}

func (s Station) Coordinate() Coordinate {
	return Coordinate{Lat: s.Latitude, Lon: s.Longitude}
}

type GeoErrorKind int

const (
	GeoUnknown GeoErrorKind = iota
	GeoPermissionDenied
	GeoPositionUnavailable
	GeoTimeout
	GeoUnsupported
)

func (k GeoErrorKind) String() string {
	switch k {
	case GeoPermissionDenied:
		return "PermissionDenied"
	case GeoPositionUnavailable:
		return "PositionUnavailable"
	case GeoTimeout:
		return "Timeout"
	case GeoUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// GeoError classifies a failed device-location attempt.
type GeoError struct {
	Kind GeoErrorKind
	Err  error
}

func (e *GeoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation error (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("geolocation error (%s)", e.Kind)
}

func (e *GeoError) Unwrap() error {
	return e.Err
}

func NewGeoError(kind GeoErrorKind, err error) *GeoError {
	return &GeoError{Kind: kind, Err: err}
}
