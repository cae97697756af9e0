package openweathermap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// API Docs: https://openweathermap.org/current
// Sample request: https://api.openweathermap.org/data/2.5/weather?q=London&appid={key}&units=metric
const (
	baseURL      = "https://api.openweathermap.org/data/2.5/weather"
	defaultUnits = "metric"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	units      string
	validate   *validator.Validate
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return NewClientWithBaseURL(baseURL, apiKey, defaultUnits, &http.Client{}, logger)
}

// NewClientWithBaseURL creates a client against another endpoint root.
// This is useful for tests and for self-hosted API proxies. Empty base and units fall back to the defaults.
func NewClientWithBaseURL(base, apiKey, units string, httpClient *http.Client, logger *slog.Logger) *Client {
	if base == "" {
		base = baseURL
	}
	if units == "" {
		units = defaultUnits
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		apiKey:     apiKey,
		units:      units,
		validate:   validator.New(),
		tracer:     otel.Tracer("openweathermap-client"),
		logger:     logger.With("component", "openweathermap-client"),
	}
}

// GetCurrentWeatherByCity fetches current conditions for a city name
func (c *Client) GetCurrentWeatherByCity(ctx context.Context, city string) (*CurrentWeatherAPIResponse, error) {
	q := url.Values{}
	q.Set("q", city)
	return c.getCurrentWeather(ctx, q, attribute.String("weather.city", city))
}

// GetCurrentWeatherByCoordinates fetches current conditions for a coordinate pair
func (c *Client) GetCurrentWeatherByCoordinates(ctx context.Context, latitude, longitude float64) (*CurrentWeatherAPIResponse, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	return c.getCurrentWeather(ctx, q,
		attribute.Float64("weather.latitude", latitude),
		attribute.Float64("weather.longitude", longitude),
	)
}

func (c *Client) getCurrentWeather(ctx context.Context, params url.Values, attrs ...attribute.KeyValue) (*CurrentWeatherAPIResponse, error) {
	ctx, span := c.tracer.Start(ctx, "openweathermap.current", trace.WithAttributes(attrs...))
	defer span.End()

	resp, err := c.do(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, params url.Values) (*CurrentWeatherAPIResponse, error) {
	// Build URL with query parameters
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	// Logged before the key is added
	c.logger.Debug("fetching current weather", "query", params.Encode())

	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Make the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch current weather", "query", params.Encode(), "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil {
			statusErr.Message = apiErr.Message
		}
		c.logger.Error("current weather API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, statusErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	// Parse the JSON response
	var apiResp CurrentWeatherAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}
	if err := c.validate.Struct(&apiResp); err != nil {
		return nil, &DecodeError{Body: body, Err: err}
	}

	return &apiResp, nil
}
