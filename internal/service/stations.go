package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/boreas/internal/ashrae"
	"github.com/UnknownOlympus/boreas/internal/export"
	"github.com/UnknownOlympus/boreas/internal/geocoding"
	"github.com/UnknownOlympus/boreas/internal/metrics"
	"github.com/UnknownOlympus/boreas/internal/models"
)

// Endpoint labels used for upstream metrics.
const (
	endpointPlaces     = "places"
	endpointParameters = "parameters"
)

// ErrAddressLookupDisabled is returned by NearestToAddress when no geocoder is configured.
var ErrAddressLookupDisabled = errors.New("address lookup is not configured")

// StationSource is the upstream that ranks stations and serves their design
// conditions. *ashrae.Client implements it.
type StationSource interface {
	NearestStations(ctx context.Context, coords models.Coordinates) ([]models.StationCandidate, error)
	StationData(ctx context.Context, wmo string, units models.UnitSystem) (*models.StationRecord, error)
}

// StationService runs the lookup pipeline: optional address resolution,
// nearest-station search, station data fetch and export. It holds no state
// between calls and never caches upstream responses.
type StationService struct {
	log          *slog.Logger       // Logger for logging service activities
	source       StationSource      // Upstream station data
	geocoder     geocoding.Provider // Address resolver, nil disables address lookups
	geocoderName string             // Name of the geocoder for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking upstream calls
}

// NewStationService creates a new instance of StationService. geocoder may be nil.
func NewStationService(
	log *slog.Logger,
	source StationSource,
	geocoder geocoding.Provider,
	geocoderName string,
	metrics *metrics.Metrics,
) *StationService {
	return &StationService{
		log:          log,
		source:       source,
		geocoder:     geocoder,
		geocoderName: geocoderName,
		metrics:      metrics,
	}
}

// Nearest returns the stations closest to coords, nearest first.
func (s *StationService) Nearest(ctx context.Context, coords models.Coordinates) ([]models.StationCandidate, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	s.metrics.InFlightLookups.Inc()
	defer s.metrics.InFlightLookups.Dec()

	startTime := time.Now()
	stations, err := s.source.NearestStations(ctx, coords)
	s.observe(endpointPlaces, startTime, err)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find nearest stations",
			"lat", coords.Latitude, "long", coords.Longitude, "error", err)
		return nil, err
	}

	return stations, nil
}

// NearestToAddress geocodes address and returns the resolved point together
// with the stations closest to it.
func (s *StationService) NearestToAddress(
	ctx context.Context,
	address string,
) (*models.Coordinates, []models.StationCandidate, error) {
	if s.geocoder == nil {
		return nil, nil, ErrAddressLookupDisabled
	}

	coords, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.metrics.GeocodingRequests.WithLabelValues(s.geocoderName, "failure").Inc()
		s.log.WarnContext(ctx, "Failed to geocode address", "address", address, "error", err)
		return nil, nil, fmt.Errorf("failed to resolve address: %w", err)
	}
	s.metrics.GeocodingRequests.WithLabelValues(s.geocoderName, "success").Inc()

	stations, err := s.Nearest(ctx, *coords)
	if err != nil {
		return nil, nil, err
	}

	return coords, stations, nil
}

// Station returns the design conditions of one station. The record's unit
// system always equals units.
func (s *StationService) Station(
	ctx context.Context,
	wmo string,
	units models.UnitSystem,
) (*models.StationRecord, error) {
	s.metrics.InFlightLookups.Inc()
	defer s.metrics.InFlightLookups.Dec()

	startTime := time.Now()
	record, err := s.source.StationData(ctx, wmo, units)
	s.observe(endpointParameters, startTime, err)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load station data", "wmo", wmo, "units", units, "error", err)
		return nil, err
	}

	if record.Units != units {
		return nil, fmt.Errorf("%w: requested %s, got %s", ashrae.ErrUpstream, units, record.Units)
	}

	return record, nil
}

// Overview fetches a station and lays it out as overview rows.
func (s *StationService) Overview(
	ctx context.Context,
	wmo string,
	units models.UnitSystem,
) (*models.StationRecord, []export.Row, error) {
	record, err := s.Station(ctx, wmo, units)
	if err != nil {
		return nil, nil, err
	}

	return record, export.Overview(record), nil
}

// ExportCSV fetches a station and renders its overview as BOM-prefixed CSV.
// Nothing is returned unless the whole document was produced.
func (s *StationService) ExportCSV(ctx context.Context, wmo string, units models.UnitSystem) ([]byte, error) {
	record, rows, err := s.Overview(ctx, wmo, units)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = export.WriteCSV(&buf, rows); err != nil {
		return nil, fmt.Errorf("failed to export station %s: %w", record.WMO, err)
	}

	s.metrics.Exports.Inc()
	s.log.InfoContext(ctx, "Station exported", "wmo", record.WMO, "units", units, "rows", len(rows))

	return buf.Bytes(), nil
}

// observe records the duration and outcome of one upstream call.
func (s *StationService) observe(endpoint string, startTime time.Time, err error) {
	s.metrics.RequestSeconds.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	s.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ashrae.ErrNetwork):
		return "network_error"
	case errors.Is(err, ashrae.ErrUpstream):
		return "upstream_error"
	case errors.Is(err, ashrae.ErrEmptyResult):
		return "empty"
	case errors.Is(err, ashrae.ErrInvalidStation):
		return "invalid"
	default:
		return "error"
	}
}
