package view

import "github.com/fuelradar/backend-go/internal/models"

const (
	labelLocating = "Determining your location..."
	labelFetching = "Searching for nearby fuel stations..."

	msgFetchFailed = "Could not load nearby stations. Please try again."
)

// geoErrorMessage maps each classified geolocation failure to its
// user-facing message.
func geoErrorMessage(kind models.GeoErrorKind) string {
	switch kind {
	case models.GeoPermissionDenied:
		return "Location access was denied. Allow access or enter coordinates manually."
	case models.GeoPositionUnavailable:
		return "Your position could not be determined. Enter coordinates manually."
	case models.GeoTimeout:
		return "Locating you took too long. Retry or enter coordinates manually."
	case models.GeoUnsupported:
		return "This device does not support geolocation. Enter coordinates manually."
	default:
		return "Something went wrong while locating you. Retry or enter coordinates manually."
	}
}
