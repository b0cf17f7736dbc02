package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the station finder.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port for the public HTTP API.
// - HealthPort: The port for the monitoring server (/healthz, /metrics).
// - RequestTimeout: Upper bound for one API request, upstream calls included.
// - API: Settings of the ASHRAE meteo upstream.
// - Geocoder: Settings of the optional address geocoder.
type Config struct {
	Env            string         // Env is the current environment: local, development, production.
	HTTPPort       int            // HTTPPort is the public API port.
	HealthPort     int            // HealthPort is the monitoring server port.
	RequestTimeout time.Duration  // RequestTimeout bounds a single API request.
	API            APIConfig      // API holds the upstream configuration.
	Geocoder       GeocoderConfig // Geocoder holds the address lookup configuration.
}

// APIConfig describes how the upstream meteo API is reached.
type APIConfig struct {
	BaseURL   string        // Base URL without trailing slash.
	Timeout   time.Duration // HTTP client timeout for one upstream call.
	RateLimit int           // Requests per second, 0 disables limiting.
}

// GeocoderConfig selects the address geocoder. An empty Type disables address lookups.
type GeocoderConfig struct {
	Type   string // google, nominatim or empty
	APIKey string // required for google
}

// MustLoad loads the configuration from the environment (and an optional .env file)
// and returns a Config struct. It panics on values that cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	httpPort, err := strconv.Atoi(setDefaultEnv("BOREAS_HTTP_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	healthPort, err := strconv.Atoi(setDefaultEnv("BOREAS_HEALTH_PORT", "8081"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	requestTimeout, err := time.ParseDuration(setDefaultEnv("BOREAS_REQUEST_TIMEOUT", "60s"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	apiTimeout, err := time.ParseDuration(setDefaultEnv("BOREAS_API_TIMEOUT", "30s"))
	if err != nil {
		panic("failed to parse api timeout from configuration")
	}

	rateLimit, err := strconv.Atoi(setDefaultEnv("BOREAS_API_RATE_LIMIT", "5"))
	if err != nil || rateLimit < 0 {
		panic("failed to parse api rate limit from configuration, must be a non-negative integer")
	}

	return &Config{
		Env:            setDefaultEnv("BOREAS_ENV", "production"),
		HTTPPort:       httpPort,
		HealthPort:     healthPort,
		RequestTimeout: requestTimeout,
		API: APIConfig{
			BaseURL:   setDefaultEnv("BOREAS_API_URL", "https://ashrae-meteo.info/v3.0"),
			Timeout:   apiTimeout,
			RateLimit: rateLimit,
		},
		Geocoder: GeocoderConfig{
			Type:   os.Getenv("BOREAS_GEOCODER_TYPE"),
			APIKey: os.Getenv("BOREAS_GEOCODER_KEY"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
