package openstreetmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Reverse/
// Sample request: https://nominatim.openstreetmap.org/reverse?lat=51.5&lon=-0.12&format=json&zoom=10
const (
	baseURL = "https://nominatim.openstreetmap.org/reverse"
	// Nominatim rejects requests without an identifying User-Agent
	userAgent = "TyumenevIF-Weather/0.1"
	// zoom 10 resolves to city level
	cityZoom = "10"
)

// ErrNoPlace is returned when there is nothing to name at the coordinates, e.g. open sea
var ErrNoPlace = errors.New("no place found at coordinates")

type Client struct {
	httpClient *http.Client
	baseURL    string
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return NewClientWithBaseURL(baseURL, &http.Client{}, logger)
}

func NewClientWithBaseURL(base string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		tracer:     otel.Tracer("openstreetmap-client"),
		logger:     logger.With("component", "openstreetmap-client"),
	}
}

// ReverseGeocode names the place at the given coordinates
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*ReverseAPIResponse, error) {
	ctx, span := c.tracer.Start(ctx, "openstreetmap.reverse",
		trace.WithAttributes(
			attribute.Float64("location.latitude", latitude),
			attribute.Float64("location.longitude", longitude),
		),
	)
	defer span.End()

	resp, err := c.reverseGeocode(ctx, latitude, longitude)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("location.place", resp.Name))
	return resp, nil
}

func (c *Client) reverseGeocode(ctx context.Context, latitude, longitude float64) (*ReverseAPIResponse, error) {
	// Build URL with query parameters
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("zoom", cityZoom)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	// Make the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("nominatim API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse the JSON response
	var apiResp ReverseAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPlace, apiResp.Error)
	}

	return &apiResp, nil
}
