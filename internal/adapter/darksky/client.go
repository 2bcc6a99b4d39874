package darksky

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"github.com/couchcryptid/forecast-client/internal/observability"
)

// DefaultBaseURL is the forecast endpoint of the original Dark Sky API.
const DefaultBaseURL = "https://api.darksky.net/forecast"

const (
	maxResponseBytes = 16 << 20
	maxErrorBytes    = 4 << 10
)

// APIError is returned when the API answers with a non-2xx status. The body is
// never passed to the decoder.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forecast API error: status %d: %s", e.StatusCode, e.Body)
}

// Client implements domain.ForecastSource using a Dark Sky compatible API.
type Client struct {
	key        string
	opts       Options
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a forecast API client. An empty baseURL selects DefaultBaseURL.
func NewClient(key, baseURL string, opts Options, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		key:  key,
		opts: opts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// URL builds the request URL for a coordinate pair:
// {base}/{key}/{lat},{lon}?lang=..&units=..[&exclude=..][&extend=hourly].
func (c *Client) URL(lat, lon float64) string {
	loc := domain.Location{Lat: lat, Lon: lon}
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, url.PathEscape(c.key), loc.Key(), c.opts.query().Encode())
}

// Forecast fetches and decodes the forecast for a coordinate pair.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	body, err := c.Fetch(ctx, lat, lon)
	if err != nil {
		return domain.Forecast{}, err
	}

	f, err := domain.DecodeForecast(body)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("decode_error").Inc()
		c.metrics.DecodeErrors.WithLabelValues(decodeErrorKind(err)).Inc()
		return domain.Forecast{}, fmt.Errorf("decode forecast: %w", err)
	}
	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	return f, nil
}

// Fetch returns the raw response body for a coordinate pair. Transport
// failures and non-2xx responses are errors; the body is not validated.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(lat, lon), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.FetchRequests.WithLabelValues("api_error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("forecast fetched", "lat", lat, "lon", lon, "bytes", len(body), "status", resp.StatusCode)
	return body, nil
}

func decodeErrorKind(err error) string {
	var missing *domain.MissingFieldError
	switch {
	case errors.As(err, &missing):
		return "missing_field"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed"
	default:
		return "other"
	}
}
