package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned when a latitude or longitude is outside its valid range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"lat"`  // Latitude of the point, -90..90.
	Longitude float64 `json:"long"` // Longitude of the point, -180..180.
}

// Validate reports whether the point lies on the globe.
func (c Coordinates) Validate() error {
	const (
		maxLat = 90
		maxLon = 180
	)

	if math.IsNaN(c.Latitude) || c.Latitude < -maxLat || c.Latitude > maxLat {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinates, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -maxLon || c.Longitude > maxLon {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinates, c.Longitude)
	}

	return nil
}
