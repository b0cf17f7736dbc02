// Package geocoding resolves free-text addresses to coordinates so a station
// search can start from a place name instead of a lat/long pair.
package geocoding

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/boreas/internal/models"
)

// Provider is an interface that defines a method for geocoding an address.
// The Geocode method takes a context and an address string as input,
// and returns the corresponding coordinates and an error if any occurs.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// Errors shared by all providers.
var (
	ErrEmptyAddress  = errors.New("address is empty")
	ErrNoMatch       = errors.New("address did not match any location")
	ErrInvalidCoords = errors.New("geocoder returned invalid coordinates")
	// ErrUnavailable wraps transport failures, error statuses and unreadable answers of the geocoding service.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// checkCoords rejects results that do not lie on the globe.
func checkCoords(coords *models.Coordinates) (*models.Coordinates, error) {
	if err := coords.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCoords, err)
	}
	return coords, nil
}
