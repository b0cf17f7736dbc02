package ashrae

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/boreas/internal/models"
)

const (
	earthRadiusMiles = 3958.8
	earthRadiusKm    = 6371.0
	feetPerMeter     = 3.28084
)

// placeEntry is one element of the request_places_get.php response.
type placeEntry struct {
	WMO      flexString `json:"wmo"`
	Place    string     `json:"place"`
	Lat      flexString `json:"lat"`
	Long     flexString `json:"long"`
	Elev     flexString `json:"elev"`
	Distance flexString `json:"tt"` // great-circle distance in radians
}

// NearestStations returns up to StationCount stations closest to coords,
// in the order the API ranked them. Distances are taken from the API and
// never recomputed.
func (c *Client) NearestStations(ctx context.Context, coords models.Coordinates) ([]models.StationCandidate, error) {
	c.log.DebugContext(ctx, "Looking up nearest stations", "lat", coords.Latitude, "long", coords.Longitude)

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("long", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("number", strconv.Itoa(StationCount))

	body, err := c.get(ctx, placesPath, query)
	if err != nil {
		return nil, err
	}

	entries, err := unwrapStations(body, false)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to parse places response", "error", err, "body", truncate(body))
		return nil, fmt.Errorf("%w: failed to decode places response: %w", ErrUpstream, err)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyResult
	}
	if len(entries) > StationCount {
		entries = entries[:StationCount]
	}

	candidates := make([]models.StationCandidate, 0, len(entries))
	for idx, raw := range entries {
		candidate, errParse := parseCandidate(raw)
		if errParse != nil {
			return nil, fmt.Errorf("%w: station #%d: %w", ErrUpstream, idx+1, errParse)
		}
		candidate.Rank = idx + 1
		candidates = append(candidates, candidate)
	}

	c.log.InfoContext(ctx, "Nearest stations found",
		"lat", coords.Latitude,
		"long", coords.Longitude,
		"count", len(candidates),
		"nearest", candidates[0].WMO)

	return candidates, nil
}

func parseCandidate(raw json.RawMessage) (models.StationCandidate, error) {
	var entry placeEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.StationCandidate{}, err
	}

	if entry.WMO == "" {
		return models.StationCandidate{}, errors.New("missing wmo code")
	}

	candidate := models.StationCandidate{
		WMO:  string(entry.WMO),
		Name: strings.TrimSpace(entry.Place),
	}

	// A station with unusable coordinates stays in the list; its position is just unknown.
	if lat, errLat := entry.Lat.float(); errLat == nil {
		candidate.Latitude = &lat
	}
	if lon, errLon := entry.Long.float(); errLon == nil {
		candidate.Longitude = &lon
	}

	if dist, errDist := entry.Distance.float(); errDist == nil {
		candidate.DistanceRad = dist
		candidate.DistanceMiles = round2(dist * earthRadiusMiles)
		candidate.DistanceKm = round2(dist * earthRadiusKm)
	}

	if elev, ok := parseElevation(string(entry.Elev)); ok {
		feet := int(elev * feetPerMeter)
		candidate.ElevationM = &elev
		candidate.ElevationFt = &feet
	}

	return candidate, nil
}

// parseElevation reads an elevation in metres. The API sometimes decorates
// the value (units, stray characters), so everything but the sign, digits
// and the decimal point is discarded first.
func parseElevation(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "N/A") {
		return 0, false
	}

	var clean strings.Builder
	for i, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || (r == '-' && i == 0) {
			clean.WriteRune(r)
		}
	}

	elev, err := strconv.ParseFloat(clean.String(), 64)
	if err != nil {
		return 0, false
	}
	return elev, true
}

func round2(v float64) float64 {
	const scale = 100
	return math.Round(v*scale) / scale
}
