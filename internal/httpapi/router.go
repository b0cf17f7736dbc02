// Package httpapi exposes the station finder over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/boreas/internal/export"
	"github.com/UnknownOlympus/boreas/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StationFinder is the lookup pipeline behind the API. *service.StationService implements it.
type StationFinder interface {
	Nearest(ctx context.Context, coords models.Coordinates) ([]models.StationCandidate, error)
	NearestToAddress(ctx context.Context, address string) (*models.Coordinates, []models.StationCandidate, error)
	Station(ctx context.Context, wmo string, units models.UnitSystem) (*models.StationRecord, error)
	Overview(ctx context.Context, wmo string, units models.UnitSystem) (*models.StationRecord, []export.Row, error)
	ExportCSV(ctx context.Context, wmo string, units models.UnitSystem) ([]byte, error)
}

// Handler serves the public API.
type Handler struct {
	log    *slog.Logger
	finder StationFinder
}

// NewRouter builds the chi router with the full middleware chain.
// requestTimeout bounds every request, upstream calls included.
func NewRouter(log *slog.Logger, finder StationFinder, requestTimeout time.Duration) http.Handler {
	h := &Handler{log: log, finder: finder}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1/stations", func(r chi.Router) {
		r.Get("/", h.handleNearest)
		r.Route("/{wmo}", func(r chi.Router) {
			r.Get("/", h.handleStation)
			r.Get("/overview", h.handleOverview)
			r.Get("/export.csv", h.handleExport)
		})
	})

	return r
}
