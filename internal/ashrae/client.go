// Package ashrae is a client for the ASHRAE meteo API (ashrae-meteo.info).
// Nearest-station ranking and all climate statistics are computed upstream;
// this package only issues the requests and normalizes the responses.
package ashrae

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public v3.0 endpoint of the ASHRAE meteo API.
	DefaultBaseURL = "https://ashrae-meteo.info/v3.0"
	// DataVersion is the ASHRAE Handbook edition every request is pinned to.
	DataVersion = 2021
	// StationCount is the number of nearest stations requested and returned.
	StationCount = 10

	placesPath     = "/request_places_get.php"
	parametersPath = "/request_meteo_parametres_get.php"

	// maxLoggedBody caps how much of an upstream body ends up in the logs.
	maxLoggedBody = 512
)

// Error kinds surfaced by the client. Every failure wraps exactly one of them.
var (
	// ErrNetwork covers connection failures, timeouts and cancelled requests.
	ErrNetwork = errors.New("ashrae API unreachable")
	// ErrUpstream covers non-2xx responses and payloads that cannot be parsed.
	ErrUpstream = errors.New("ashrae API returned an invalid response")
	// ErrEmptyResult is returned when the API answers with zero stations.
	ErrEmptyResult = errors.New("ashrae API returned no stations")
	// ErrInvalidStation is returned for a blank WMO code, before any request is sent.
	ErrInvalidStation = errors.New("invalid station identifier")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the two ASHRAE meteo endpoints. It keeps no state between
// calls apart from the rate limiter, so it is safe for concurrent use.
type Client struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL, without trailing slash
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Client-side limit on outgoing requests
}

// NewClient creates a client with its own http.Client.
// A rateLimit of zero or less disables client-side limiting.
func NewClient(baseURL string, timeout time.Duration, rateLimit int, log *slog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}

	return NewClientWithHTTP(&http.Client{Timeout: timeout}, baseURL, limiter, log)
}

// NewClientWithHTTP allows injecting a custom HTTP client and limiter.
func NewClientWithHTTP(client HTTPClient, baseURL string, limiter *rate.Limiter, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		limiter: limiter,
	}
}

// get performs one GET against path and returns the body with any UTF-8 BOM removed.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrNetwork, err)
	}

	query.Set("ashrae_version", strconv.Itoa(DataVersion))
	reqURL := c.baseURL + path + "?" + query.Encode()

	c.log.DebugContext(ctx, "ASHRAE request", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.ErrorContext(ctx, "ASHRAE API error", "status", resp.StatusCode, "body", truncate(body))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(body))
	}

	c.log.DebugContext(ctx, "ASHRAE raw response", "bytes", len(body), "body", truncate(body))

	return bytes.TrimPrefix(body, utf8BOM), nil
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
