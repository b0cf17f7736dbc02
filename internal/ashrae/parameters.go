package ashrae

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/boreas/internal/models"
)

// StationData fetches the design conditions of one station in the given
// unit system. The returned record is tagged with exactly that unit system;
// values are never converted locally.
func (c *Client) StationData(
	ctx context.Context,
	wmo string,
	units models.UnitSystem,
) (*models.StationRecord, error) {
	wmo = strings.TrimSpace(wmo)
	if wmo == "" {
		return nil, ErrInvalidStation
	}

	c.log.DebugContext(ctx, "Fetching station data", "wmo", wmo, "units", units)

	query := url.Values{}
	query.Set("wmo", wmo)
	query.Set("si_ip", string(units))

	body, err := c.get(ctx, parametersPath, query)
	if err != nil {
		return nil, err
	}

	entries, err := unwrapStations(body, true)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to parse station data", "wmo", wmo, "error", err, "body", truncate(body))
		return nil, fmt.Errorf("%w: failed to decode station data: %w", ErrUpstream, err)
	}

	if len(entries) == 0 {
		c.log.WarnContext(ctx, "No data found for station", "wmo", wmo)
		return nil, fmt.Errorf("%w: wmo %s", ErrEmptyResult, wmo)
	}

	fields, err := flattenFields(entries[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode station fields: %w", ErrUpstream, err)
	}

	// Error objects such as {"error":"..."} and {} decode fine but describe no station.
	if fields["wmo"] == "" && fields["place"] == "" {
		c.log.WarnContext(ctx, "No data found for station", "wmo", wmo, "body", truncate(body))
		return nil, fmt.Errorf("%w: wmo %s: response carries no station", ErrEmptyResult, wmo)
	}

	record := &models.StationRecord{
		WMO:    wmo,
		Name:   fields["place"],
		Units:  units,
		Fields: fields,
	}
	if code := fields["wmo"]; code != "" {
		record.WMO = code
	}

	c.log.InfoContext(ctx, "Station data loaded", "wmo", record.WMO, "units", units, "fields", len(fields))

	return record, nil
}
