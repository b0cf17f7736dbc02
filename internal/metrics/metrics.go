package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamRequests  *prometheus.CounterVec
	RequestSeconds    *prometheus.HistogramVec
	GeocodingRequests *prometheus.CounterVec
	InFlightLookups   prometheus.Gauge
	Exports           prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "boreas_upstream_requests_total",
			Help: "Total number of requests sent to the ASHRAE meteo API, by endpoint and outcome.",
		}, []string{"endpoint", "status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boreas_upstream_request_duration_seconds",
			Help:    "Duration of requests to the ASHRAE meteo API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		GeocodingRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "boreas_geocoding_requests_total",
			Help: "Total number of address lookups, by provider and outcome.",
		}, []string{"provider", "status"}),
		InFlightLookups: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "boreas_inflight_lookups",
			Help: "Current number of station lookups waiting on the upstream API.",
		}),
		Exports: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "boreas_exports_total",
			Help: "Total number of CSV exports produced.",
		}),
	}
}
