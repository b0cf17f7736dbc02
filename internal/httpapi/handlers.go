package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/boreas/internal/export"
	"github.com/UnknownOlympus/boreas/internal/models"
	"github.com/go-chi/chi/v5"
)

type nearestResponse struct {
	Coordinates models.Coordinates        `json:"coordinates"`
	Stations    []models.StationCandidate `json:"stations"`
}

type overviewResponse struct {
	WMO   string            `json:"wmo"`
	Name  string            `json:"name"`
	Units models.UnitSystem `json:"units"`
	Rows  []export.Row      `json:"rows"`
}

// handleNearest serves ?lat=&long= and ?address= lookups. An address takes precedence.
func (h *Handler) handleNearest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Has("address") {
		coords, stations, err := h.finder.NearestToAddress(r.Context(), query.Get("address"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, nearestResponse{Coordinates: *coords, Stations: stations})
		return
	}

	coords, err := parseCoordinates(query.Get("lat"), query.Get("long"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	stations, err := h.finder.Nearest(r.Context(), coords)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, nearestResponse{Coordinates: coords, Stations: stations})
}

func (h *Handler) handleStation(w http.ResponseWriter, r *http.Request) {
	units, err := models.ParseUnitSystem(r.URL.Query().Get("units"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	record, err := h.finder.Station(r.Context(), chi.URLParam(r, "wmo"), units)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	units, err := models.ParseUnitSystem(r.URL.Query().Get("units"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	record, rows, err := h.finder.Overview(r.Context(), chi.URLParam(r, "wmo"), units)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		WMO:   record.WMO,
		Name:  record.Name,
		Units: record.Units,
		Rows:  rows,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	units, err := models.ParseUnitSystem(r.URL.Query().Get("units"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	wmo := chi.URLParam(r, "wmo")
	data, err := h.finder.ExportCSV(r.Context(), wmo, units)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(wmo)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(data); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write export", "wmo", wmo, "error", err)
	}
}

func parseCoordinates(rawLat, rawLong string) (models.Coordinates, error) {
	rawLat, rawLong = strings.TrimSpace(rawLat), strings.TrimSpace(rawLong)
	if rawLat == "" || rawLong == "" {
		return models.Coordinates{}, fmt.Errorf("%w: lat and long, or address, are required", errBadRequest)
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: invalid lat %q", errBadRequest, rawLat)
	}
	long, err := strconv.ParseFloat(rawLong, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: invalid long %q", errBadRequest, rawLong)
	}

	return models.Coordinates{Latitude: lat, Longitude: long}, nil
}
