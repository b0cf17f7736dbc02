package models

import (
	"errors"
	"fmt"
	"strings"
)

// UnitSystem selects the units the upstream reports values in.
type UnitSystem string

const (
	// UnitsSI is the metric system (°C, m, kPa).
	UnitsSI UnitSystem = "SI"
	// UnitsIP is the inch-pound system (°F, ft, psi).
	UnitsIP UnitSystem = "IP"
)

// ErrInvalidUnits is returned for anything other than SI or IP.
var ErrInvalidUnits = errors.New("invalid unit system")

// ParseUnitSystem accepts "SI" or "IP" in any case. An empty value defaults to SI.
func ParseUnitSystem(raw string) (UnitSystem, error) {
	switch UnitSystem(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", UnitsSI:
		return UnitsSI, nil
	case UnitsIP:
		return UnitsIP, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: SI, IP)", ErrInvalidUnits, raw)
	}
}

// TemperatureUnit returns the temperature symbol for the unit system.
func (u UnitSystem) TemperatureUnit() string {
	if u == UnitsIP {
		return "°F"
	}
	return "°C"
}

// PressureUnit returns the pressure symbol for the unit system.
func (u UnitSystem) PressureUnit() string {
	if u == UnitsIP {
		return "psi"
	}
	return "kPa"
}
