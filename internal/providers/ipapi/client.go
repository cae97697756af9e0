package ipapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// API Docs: https://ip-api.com/docs/api:json
// Sample request: http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone,query
const (
	baseURL = "http://ip-api.com/json/"
	fields  = "status,message,lat,lon,city,country,timezone,query"
)

// ErrLookupFailed is returned when the service answers with status "fail"
var ErrLookupFailed = errors.New("ip geolocation lookup failed")

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
		tracer:     otel.Tracer("ipapi-client"),
		logger:     logger.With("component", "ipapi-client"),
	}
}

// Lookup geolocates the public address the request comes from
func (c *Client) Lookup(ctx context.Context) (*LookupAPIResponse, error) {
	ctx, span := c.tracer.Start(ctx, "ipapi.lookup")
	defer span.End()

	resp, err := c.lookup(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("location.city", resp.City))
	return resp, nil
}

func (c *Client) lookup(ctx context.Context) (*LookupAPIResponse, error) {
	// Build URL with query parameters
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("fields", fields)
	u.RawQuery = q.Encode()

	c.logger.Debug("looking up device location", "url", u.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Make the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch device location", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("ip geolocation API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse the JSON response
	var apiResp LookupAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrLookupFailed, apiResp.Message)
	}

	return &apiResp, nil
}
