package station

import "fmt"

// OverpassAPIError represents a failed fetch against the Overpass API.
type OverpassAPIError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *OverpassAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("overpass API error: %s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("overpass API error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("overpass API error: %s", e.Message)
}

func (e *OverpassAPIError) Unwrap() error {
	return e.Err
}

func NewOverpassAPIError(message string, statusCode int, err error) *OverpassAPIError {
	return &OverpassAPIError{
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}
