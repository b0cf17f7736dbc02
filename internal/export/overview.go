// Package export reshapes a station record into the overview table and
// serializes it as CSV for spreadsheets.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/boreas/internal/models"
)

// NotAvailable is rendered for every field the upstream did not return.
const NotAvailable = "N/A"

const feetPerMeter = 3.28084

// Section titles, in output order.
const (
	SectionStation  = "Station Information"
	SectionLocation = "Location & Basic Information"
	SectionCooling  = "Cooling Dry Bulb Values"
	SectionHeating  = "Heating Dry Bulb Values"
	SectionExtremes = "Extreme Temperatures (Dry Bulb)"
	SectionMonthly  = "Monthly Average Temperatures"
	SectionDesign04 = "Monthly Design Dry Bulb Temperatures 0.4%"
	SectionDesign2  = "Monthly Design Dry Bulb Temperatures 2%"
	SectionSolar    = "Solar Conditions"
)

// Row is one line of the overview. Labels are unique within an overview.
type Row struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

var months = [12]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// returnPeriods are the N-year return periods the API reports extremes for.
var returnPeriods = [4]int{5, 10, 20, 50}

type builder struct {
	record  *models.StationRecord
	section string
	rows    []Row
}

func (b *builder) add(label, value string) {
	b.rows = append(b.rows, Row{Section: b.section, Label: label, Value: value})
}

// field adds the first present key out of keys, or N/A.
func (b *builder) field(label string, keys ...string) {
	for _, key := range keys {
		if v, ok := b.record.Value(key); ok {
			b.add(label, v)
			return
		}
	}
	b.add(label, NotAvailable)
}

func (b *builder) fieldWithSuffix(label, key, suffix string) {
	v, ok := b.record.Value(key)
	if !ok {
		b.add(label, NotAvailable)
		return
	}
	b.add(label, v+suffix)
}

// Overview lays a record out the way the station summary sheet does. The
// solar block is only present when the record carries optical depths.
func Overview(record *models.StationRecord) []Row {
	const rowsPerRecord = 128

	b := &builder{record: record, rows: make([]Row, 0, rowsPerRecord)}
	temp := " (" + record.Units.TemperatureUnit() + ")"

	b.section = SectionStation
	b.add("Station Name", valueOr(record.Name))
	b.add("WMO Code", valueOr(record.WMO))
	b.add("Elevation", elevation(record))
	b.field("Data Period", "period")

	b.section = SectionLocation
	b.fieldWithSuffix("Latitude", "lat", "°")
	b.fieldWithSuffix("Longitude", "long", "°")
	b.field("Country", "country")
	b.field("State/Region", "state")
	b.add("Time Zone", timeZone(record))
	b.field("Climate Zone", "climate_zone")
	b.field("Coldest Month", "coldest_month")
	b.field("Hottest Month", "hottest_month")
	b.fieldWithSuffix("Standard Pressure", "stdp", " "+record.Units.PressureUnit())
	b.field("WBAN Code", "wban")
	b.add("Warm Humid Location", yesNo(record.Fields["warm_humid_location"] == "1"))

	b.section = SectionCooling
	b.field("0.4% Cooling Dry Bulb"+temp, "cooling_DB_MCWB_0.4_DB")
	b.field("2% Cooling Dry Bulb"+temp, "cooling_DB_MCWB_2_DB")

	b.section = SectionHeating
	b.field("99.6% Heating Dry Bulb"+temp, "heating_DB_99.6")
	b.field("99% Heating Dry Bulb"+temp, "heating_DB_99")

	b.section = SectionExtremes
	b.field("Extreme Annual Mean Minimum"+temp, "extreme_annual_DB_mean_min")
	b.field("Extreme Annual Mean Maximum"+temp, "extreme_annual_DB_mean_max")
	for _, n := range returnPeriods {
		key := "n-year_return_period_values_of_extreme_DB_" + strconv.Itoa(n)
		b.field(fmt.Sprintf("%d-year Return Period Minimum%s", n, temp), key+"_min")
		b.field(fmt.Sprintf("%d-year Return Period Maximum%s", n, temp), key+"_max")
	}

	b.section = SectionMonthly
	for _, m := range months {
		b.field(monthLabel(m)+" Average Temperature"+temp, "dbavg_"+m, "tavg_"+m)
		b.field(monthLabel(m)+" Standard Deviation"+temp, "dbstd_"+m, "sd_"+m)
	}
	b.field("Annual Average Temperature"+temp, "dbavg_annual", "tavg_annual")

	b.section = SectionDesign04
	for _, m := range months {
		b.field(monthLabel(m)+" 0.4% Design Dry Bulb"+temp, "0.4_DB_"+m)
	}

	b.section = SectionDesign2
	for _, m := range months {
		b.field(monthLabel(m)+" 2% Design Dry Bulb"+temp, "2_DB_"+m)
	}

	if _, ok := record.Value("taub_jan"); ok {
		b.section = SectionSolar
		for _, m := range months {
			b.field(monthLabel(m)+" Beam Optical Depth (τb)", "taub_"+m)
			b.field(monthLabel(m)+" Diffuse Optical Depth (τd)", "taud_"+m)
			b.field(monthLabel(m)+" Beam Normal Irradiance (W/m²)", "ebn_noon_"+m)
			b.field(monthLabel(m)+" Diffuse Horizontal Irradiance (W/m²)", "edn_noon_"+m)
		}
	}

	return b.rows
}

func monthLabel(m string) string {
	return strings.ToUpper(m[:1]) + m[1:]
}

func valueOr(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// elevation renders "<ft> ft (<m> m)". The API reports elevation in metres;
// feet are truncated, not rounded, so the figure matches the station sheet.
func elevation(record *models.StationRecord) string {
	raw, ok := record.Value("elev")
	if !ok {
		return NotAvailable
	}
	meters, ok := record.Float("elev")
	if !ok {
		return raw + " m"
	}
	return fmt.Sprintf("%d ft (%s m)", int(meters*feetPerMeter), raw)
}

func timeZone(record *models.StationRecord) string {
	tz, ok := record.Value("time_zone")
	if !ok {
		return NotAvailable
	}
	tz = strings.TrimSpace(tz)
	if tz[0] != '-' && tz[0] != '+' {
		tz = "+" + tz
	}
	return "UTC" + tz
}
