package models

import (
	"strconv"
	"strings"
)

// StationCandidate is one entry of the nearest-stations list, in upstream order.
type StationCandidate struct {
	WMO           string   `json:"wmo"`
	Name          string   `json:"name"`
	Latitude      *float64 `json:"lat"`  // nil when the API sent no usable value
	Longitude     *float64 `json:"long"` // nil when the API sent no usable value
	ElevationM    *float64 `json:"elevation_m"`
	ElevationFt   *int     `json:"elevation_ft"`
	Rank          int      `json:"rank"`
	DistanceRad   float64  `json:"distance_rad"`
	DistanceMiles float64  `json:"distance_miles"`
	DistanceKm    float64  `json:"distance_km"`
}

// StationRecord holds the design conditions of a single station as a flat
// field map. Units always matches the unit system the record was requested in.
type StationRecord struct {
	WMO    string            `json:"wmo"`
	Name   string            `json:"name"`
	Units  UnitSystem        `json:"units"`
	Fields map[string]string `json:"fields"`
}

// Value returns the raw value of a field. Blank values count as missing.
func (r *StationRecord) Value(key string) (string, bool) {
	v, ok := r.Fields[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Float returns a field parsed as a number.
func (r *StationRecord) Float(key string) (float64, bool) {
	v, ok := r.Value(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
