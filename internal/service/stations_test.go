package service_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/UnknownOlympus/boreas/internal/ashrae"
	"github.com/UnknownOlympus/boreas/internal/export"
	"github.com/UnknownOlympus/boreas/internal/geocoding"
	"github.com/UnknownOlympus/boreas/internal/metrics"
	"github.com/UnknownOlympus/boreas/internal/models"
	"github.com/UnknownOlympus/boreas/internal/service"
	"github.com/UnknownOlympus/boreas/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	source   *mocks.StationSource
	geocoder *mocks.Provider
	metrics  *metrics.Metrics
	service  *service.StationService
}

func newFixture(t *testing.T, withGeocoder bool) *fixture {
	t.Helper()

	f := &fixture{
		source:  mocks.NewStationSource(t),
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var geocoder geocoding.Provider
	if withGeocoder {
		f.geocoder = mocks.NewProvider(t)
		geocoder = f.geocoder
	}

	f.service = service.NewStationService(logger, f.source, geocoder, "nominatim", f.metrics)
	return f
}

func candidates(n int) []models.StationCandidate {
	out := make([]models.StationCandidate, 0, n)
	for i := range n {
		out = append(out, models.StationCandidate{
			WMO:         fmt.Sprintf("7250%02d", i),
			Name:        fmt.Sprintf("STATION %d", i),
			Rank:        i + 1,
			DistanceRad: 0.001 * float64(i+1),
		})
	}
	return out
}

func TestStationService_Nearest(t *testing.T) {
	ctx := t.Context()
	newYork := models.Coordinates{Latitude: 40.7, Longitude: -74.0}

	t.Run("successful lookup", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("NearestStations", ctx, newYork).Return(candidates(10), nil).Once()

		stations, err := f.service.Nearest(ctx, newYork)

		require.NoError(t, err)
		assert.Len(t, stations, 10)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.UpstreamRequests.WithLabelValues("places", "success")), 0)
		assert.InDelta(t, 0, testutil.ToFloat64(f.metrics.InFlightLookups), 0)
	})

	t.Run("invalid coordinates never reach upstream", func(t *testing.T) {
		f := newFixture(t, false)

		stations, err := f.service.Nearest(ctx, models.Coordinates{Latitude: 95, Longitude: 0})

		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
		assert.Nil(t, stations)
		f.source.AssertNotCalled(t, "NearestStations")
	})

	t.Run("network error is passed through", func(t *testing.T) {
		f := newFixture(t, false)
		upstreamErr := fmt.Errorf("%w: timeout", ashrae.ErrNetwork)
		f.source.On("NearestStations", ctx, newYork).Return(nil, upstreamErr).Once()

		stations, err := f.service.Nearest(ctx, newYork)

		require.ErrorIs(t, err, ashrae.ErrNetwork)
		assert.Nil(t, stations)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.UpstreamRequests.WithLabelValues("places", "network_error")), 0)
	})

	t.Run("empty result", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("NearestStations", ctx, newYork).Return(nil, ashrae.ErrEmptyResult).Once()

		_, err := f.service.Nearest(ctx, newYork)

		require.ErrorIs(t, err, ashrae.ErrEmptyResult)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.UpstreamRequests.WithLabelValues("places", "empty")), 0)
	})
}

func TestStationService_NearestToAddress(t *testing.T) {
	ctx := t.Context()

	t.Run("geocoder disabled", func(t *testing.T) {
		f := newFixture(t, false)

		coords, stations, err := f.service.NearestToAddress(ctx, "New York")

		require.ErrorIs(t, err, service.ErrAddressLookupDisabled)
		assert.Nil(t, coords)
		assert.Nil(t, stations)
	})

	t.Run("address resolved and searched", func(t *testing.T) {
		f := newFixture(t, true)
		resolved := &models.Coordinates{Latitude: 40.7128, Longitude: -74.006}
		f.geocoder.On("Geocode", ctx, "New York").Return(resolved, nil).Once()
		f.source.On("NearestStations", ctx, *resolved).Return(candidates(3), nil).Once()

		coords, stations, err := f.service.NearestToAddress(ctx, "New York")

		require.NoError(t, err)
		assert.Equal(t, resolved, coords)
		assert.Len(t, stations, 3)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GeocodingRequests.WithLabelValues("nominatim", "success")), 0)
	})

	t.Run("geocoder finds nothing", func(t *testing.T) {
		f := newFixture(t, true)
		f.geocoder.On("Geocode", ctx, "Atlantis").Return(nil, geocoding.ErrNoMatch).Once()

		_, stations, err := f.service.NearestToAddress(ctx, "Atlantis")

		require.ErrorIs(t, err, geocoding.ErrNoMatch)
		assert.Nil(t, stations)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GeocodingRequests.WithLabelValues("nominatim", "failure")), 0)
	})

	t.Run("station search fails after geocoding", func(t *testing.T) {
		f := newFixture(t, true)
		resolved := &models.Coordinates{Latitude: 1, Longitude: 2}
		f.geocoder.On("Geocode", ctx, "Somewhere").Return(resolved, nil).Once()
		f.source.On("NearestStations", ctx, *resolved).Return(nil, ashrae.ErrUpstream).Once()

		coords, stations, err := f.service.NearestToAddress(ctx, "Somewhere")

		require.ErrorIs(t, err, ashrae.ErrUpstream)
		assert.Nil(t, coords)
		assert.Nil(t, stations)
	})
}

func jfk(units models.UnitSystem) *models.StationRecord {
	return &models.StationRecord{
		WMO:   "744860",
		Name:  "NEW YORK JFK INTL AP",
		Units: units,
		Fields: map[string]string{
			"heating_DB_99.6": "-10.7",
			"elev":            "3",
		},
	}
}

func TestStationService_Station(t *testing.T) {
	ctx := t.Context()

	t.Run("record keeps requested units", func(t *testing.T) {
		for _, units := range []models.UnitSystem{models.UnitsSI, models.UnitsIP} {
			f := newFixture(t, false)
			f.source.On("StationData", ctx, "744860", units).Return(jfk(units), nil).Once()

			record, err := f.service.Station(ctx, "744860", units)

			require.NoError(t, err)
			assert.Equal(t, units, record.Units)
		}
	})

	t.Run("mismatched units are rejected", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("StationData", ctx, "744860", models.UnitsIP).Return(jfk(models.UnitsSI), nil).Once()

		record, err := f.service.Station(ctx, "744860", models.UnitsIP)

		require.ErrorIs(t, err, ashrae.ErrUpstream)
		assert.Nil(t, record)
	})

	t.Run("upstream error yields no record", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("StationData", ctx, "744860", models.UnitsSI).Return(nil, ashrae.ErrUpstream).Once()

		record, err := f.service.Station(ctx, "744860", models.UnitsSI)

		require.ErrorIs(t, err, ashrae.ErrUpstream)
		assert.Nil(t, record)
		assert.InDelta(t, 1,
			testutil.ToFloat64(f.metrics.UpstreamRequests.WithLabelValues("parameters", "upstream_error")), 0)
	})
}

func TestStationService_Export(t *testing.T) {
	ctx := t.Context()

	t.Run("overview rows", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("StationData", ctx, "744860", models.UnitsSI).Return(jfk(models.UnitsSI), nil).Once()

		record, rows, err := f.service.Overview(ctx, "744860", models.UnitsSI)

		require.NoError(t, err)
		assert.Equal(t, "744860", record.WMO)
		assert.Equal(t, export.Overview(record), rows)
	})

	t.Run("csv export", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("StationData", ctx, "744860", models.UnitsSI).Return(jfk(models.UnitsSI), nil).Once()

		data, err := f.service.ExportCSV(ctx, "744860", models.UnitsSI)

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, export.UTF8BOM))
		assert.Contains(t, string(data), "99.6% Heating Dry Bulb (°C),-10.7")
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Exports), 0)
	})

	t.Run("failed fetch exports nothing", func(t *testing.T) {
		f := newFixture(t, false)
		f.source.On("StationData", ctx, "744860", models.UnitsSI).Return(nil, ashrae.ErrNetwork).Once()

		data, err := f.service.ExportCSV(ctx, "744860", models.UnitsSI)

		require.ErrorIs(t, err, ashrae.ErrNetwork)
		assert.Nil(t, data)
		assert.InDelta(t, 0, testutil.ToFloat64(f.metrics.Exports), 0)
	})
}
