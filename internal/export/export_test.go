package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/UnknownOlympus/boreas/internal/export"
	"github.com/UnknownOlympus/boreas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jfkRecord(units models.UnitSystem) *models.StationRecord {
	return &models.StationRecord{
		WMO:   "744860",
		Name:  "NEW YORK JFK INTL AP",
		Units: units,
		Fields: map[string]string{
			"wmo":                    "744860",
			"place":                  "NEW YORK JFK INTL AP",
			"elev":                   "3",
			"period":                 "1994-2019",
			"lat":                    "40.661",
			"long":                   "-73.804",
			"country":                "USA",
			"state":                  "NY",
			"time_zone":              "-5",
			"climate_zone":           "4A",
			"stdp":                   "101.29",
			"warm_humid_location":    "0",
			"cooling_DB_MCWB_0.4_DB": "32.7",
			"heating_DB_99.6":        "-10.7",

			"extreme_annual_DB_mean_min":                       "-13.9",
			"n-year_return_period_values_of_extreme_DB_50_max": "40.6",

			"dbavg_jan":  "0.9",
			"tavg_feb":   "1.8",
			"0.4_DB_jul": "33.9",
			"2_DB_dec":   "13.4",
		},
	}
}

func rowsByLabel(rows []export.Row) map[string]export.Row {
	byLabel := make(map[string]export.Row, len(rows))
	for _, row := range rows {
		byLabel[row.Label] = row
	}
	return byLabel
}

func TestOverview(t *testing.T) {
	t.Parallel()

	rows := export.Overview(jfkRecord(models.UnitsSI))
	byLabel := rowsByLabel(rows)

	require.Len(t, byLabel, len(rows), "labels must be unique")

	assert.Equal(t, export.Row{Section: export.SectionStation, Label: "Station Name", Value: "NEW YORK JFK INTL AP"}, rows[0])
	assert.Equal(t, "744860", byLabel["WMO Code"].Value)
	assert.Equal(t, "9 ft (3 m)", byLabel["Elevation"].Value)
	assert.Equal(t, "1994-2019", byLabel["Data Period"].Value)
	assert.Equal(t, "40.661°", byLabel["Latitude"].Value)
	assert.Equal(t, "UTC-5", byLabel["Time Zone"].Value)
	assert.Equal(t, "101.29 kPa", byLabel["Standard Pressure"].Value)
	assert.Equal(t, "No", byLabel["Warm Humid Location"].Value)
	assert.Equal(t, export.NotAvailable, byLabel["WBAN Code"].Value)
	assert.Equal(t, "32.7", byLabel["0.4% Cooling Dry Bulb (°C)"].Value)
	assert.Equal(t, export.NotAvailable, byLabel["2% Cooling Dry Bulb (°C)"].Value)
	assert.Equal(t, "-10.7", byLabel["99.6% Heating Dry Bulb (°C)"].Value)
	assert.Equal(t, export.SectionHeating, byLabel["99.6% Heating Dry Bulb (°C)"].Section)
	assert.Equal(t, "-13.9", byLabel["Extreme Annual Mean Minimum (°C)"].Value)
	assert.Equal(t, "40.6", byLabel["50-year Return Period Maximum (°C)"].Value)
	assert.Equal(t, "0.9", byLabel["Jan Average Temperature (°C)"].Value)
	assert.Equal(t, "1.8", byLabel["Feb Average Temperature (°C)"].Value, "falls back to tavg_*")
	assert.Equal(t, "33.9", byLabel["Jul 0.4% Design Dry Bulb (°C)"].Value)
	assert.Equal(t, "13.4", byLabel["Dec 2% Design Dry Bulb (°C)"].Value)

	for _, row := range rows {
		assert.NotEqual(t, export.SectionSolar, row.Section, "no solar rows without optical depths")
	}
}

func TestOverview_SolarAndIP(t *testing.T) {
	t.Parallel()

	record := jfkRecord(models.UnitsIP)
	record.Fields["taub_jan"] = "0.334"
	record.Fields["ebn_noon_jun"] = "887"
	record.Fields["time_zone"] = "9.5"
	record.Fields["warm_humid_location"] = "1"

	rows := export.Overview(record)
	byLabel := rowsByLabel(rows)

	assert.Equal(t, "0.334", byLabel["Jan Beam Optical Depth (τb)"].Value)
	assert.Equal(t, export.SectionSolar, byLabel["Jan Beam Optical Depth (τb)"].Section)
	assert.Equal(t, "887", byLabel["Jun Beam Normal Irradiance (W/m²)"].Value)
	assert.Equal(t, export.NotAvailable, byLabel["Dec Diffuse Horizontal Irradiance (W/m²)"].Value)
	assert.Equal(t, "UTC+9.5", byLabel["Time Zone"].Value)
	assert.Equal(t, "Yes", byLabel["Warm Humid Location"].Value)
	assert.Equal(t, "101.29 psi", byLabel["Standard Pressure"].Value)
	assert.Contains(t, byLabel, "99.6% Heating Dry Bulb (°F)")
	assert.NotContains(t, byLabel, "99.6% Heating Dry Bulb (°C)")
}

func TestOverview_EmptyRecord(t *testing.T) {
	t.Parallel()

	rows := export.Overview(&models.StationRecord{Units: models.UnitsSI})
	byLabel := rowsByLabel(rows)

	assert.Equal(t, export.NotAvailable, byLabel["Station Name"].Value)
	assert.Equal(t, export.NotAvailable, byLabel["Elevation"].Value)
	assert.Equal(t, export.NotAvailable, byLabel["Time Zone"].Value)
	assert.Equal(t, export.NotAvailable, byLabel["Latitude"].Value)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	rows := export.Overview(jfkRecord(models.UnitsSI))
	rows = append(rows, export.Row{Label: `quoted "label", with comma`, Value: "line\nbreak"})

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, rows))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, export.UTF8BOM), "csv must start with a byte order mark")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, export.UTF8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, export.Header, records[0])

	for i, row := range rows {
		assert.Equal(t, []string{row.Label, row.Value}, records[i+1])
	}
}

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, assert.AnError
}

func TestWriteCSV_WriterError(t *testing.T) {
	t.Parallel()

	err := export.WriteCSV(failingWriter{}, nil)

	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "byte order mark")
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ashrae_station_744860_data.csv", export.FileName("744860"))
	assert.Equal(t, "ashrae_station__etc_data.csv", export.FileName("../etc"))
	assert.False(t, strings.ContainsAny(export.FileName(`a"b/c`), `"/`))
}
