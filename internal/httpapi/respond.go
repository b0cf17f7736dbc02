package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/boreas/internal/ashrae"
	"github.com/UnknownOlympus/boreas/internal/geocoding"
	"github.com/UnknownOlympus/boreas/internal/models"
	"github.com/UnknownOlympus/boreas/internal/service"
)

// errBadRequest marks query parameters that could not be parsed.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}

// statusFor maps a pipeline error to the HTTP status reported to the caller.
func statusFor(err error) int {
	switch {
	// a geocoder result out of range also wraps models.ErrInvalidCoordinates
	case errors.Is(err, geocoding.ErrInvalidCoords), errors.Is(err, geocoding.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrInvalidCoordinates),
		errors.Is(err, models.ErrInvalidUnits),
		errors.Is(err, ashrae.ErrInvalidStation),
		errors.Is(err, geocoding.ErrEmptyAddress):
		return http.StatusBadRequest
	case errors.Is(err, ashrae.ErrEmptyResult), errors.Is(err, geocoding.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, ashrae.ErrNetwork):
		return http.StatusGatewayTimeout
	case errors.Is(err, ashrae.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrAddressLookupDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes the matching error response. Internal errors are not echoed back.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		h.log.WarnContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	writeError(w, status, msg)
}
