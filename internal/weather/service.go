package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/TyumenevIF/Weather/internal/config"
	"github.com/TyumenevIF/Weather/internal/providers/openweathermap"
)

type CurrentWeatherProvider interface {
	GetCurrentWeatherByCity(ctx context.Context, city string) (*openweathermap.CurrentWeatherAPIResponse, error)
	GetCurrentWeatherByCoordinates(ctx context.Context, latitude, longitude float64) (*openweathermap.CurrentWeatherAPIResponse, error)
}

// Service fetches current weather. Each call issues exactly one upstream request
// and is independent of every other call.
type Service interface {
	Fetch(ctx context.Context, query Query) (*Record, error)
	FetchCity(ctx context.Context, name string) (*Record, error)
	FetchCoordinates(ctx context.Context, latitude, longitude float64) (*Record, error)
	// FetchAsync returns the request id at once and delivers the result to done
	// from a worker goroutine. Callers marshal onto their own goroutine.
	FetchAsync(ctx context.Context, query Query, done Continuation) uint64
}

type weatherService struct {
	provider CurrentWeatherProvider
	nextID   atomic.Uint64
	logger   *slog.Logger
}

func NewWeatherService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	apiKey, err := cfg.APIKeySecret()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve weather API key: %w", err)
	}

	client := openweathermap.NewClientWithBaseURL(
		cfg.Weather.BaseURL,
		apiKey,
		strings.ToLower(cfg.Weather.Units),
		&http.Client{},
		logger,
	)
	return NewWeatherServiceWithProvider(client, logger), nil
}

func NewWeatherServiceWithProvider(provider CurrentWeatherProvider, logger *slog.Logger) Service {
	return &weatherService{
		provider: provider,
		logger:   logger.With("component", "weather-service"),
	}
}

func (s *weatherService) FetchCity(ctx context.Context, name string) (*Record, error) {
	return s.Fetch(ctx, ByCity(name))
}

func (s *weatherService) FetchCoordinates(ctx context.Context, latitude, longitude float64) (*Record, error) {
	return s.Fetch(ctx, ByCoordinates(latitude, longitude))
}

func (s *weatherService) Fetch(ctx context.Context, query Query) (*Record, error) {
	return s.fetch(ctx, s.nextID.Add(1), query)
}

func (s *weatherService) FetchAsync(ctx context.Context, query Query, done Continuation) uint64 {
	id := s.nextID.Add(1)
	go func() {
		record, err := s.fetch(ctx, id, query)
		done(Result{
			RequestID: id,
			Query:     query,
			Record:    record,
			Err:       err,
		})
	}()
	return id
}

func (s *weatherService) fetch(ctx context.Context, id uint64, query Query) (*Record, error) {
	logger := s.logger.With("request_id", id, "query_kind", query.Kind().String())
	logger.Debug("fetching current weather", "query", query.String())

	var (
		apiResponse *openweathermap.CurrentWeatherAPIResponse
		err         error
	)
	switch query.Kind() {
	case QueryByCity:
		apiResponse, err = s.provider.GetCurrentWeatherByCity(ctx, query.City())
	case QueryByCoordinates:
		coords := query.Coords()
		apiResponse, err = s.provider.GetCurrentWeatherByCoordinates(ctx, coords.Latitude, coords.Longitude)
	default:
		logger.Error("refusing to fetch an empty query")
		return nil, &Error{Kind: ErrInvalidQuery, RequestID: id, Query: query, Err: errors.New("query has no city or coordinates")}
	}

	if err != nil {
		var decodeErr *openweathermap.DecodeError
		if errors.As(err, &decodeErr) {
			logger.Error("failed to decode current weather response",
				"error", decodeErr.Err,
				"response_body", string(decodeErr.Body),
			)
			return nil, &Error{Kind: ErrDecodeFailure, RequestID: id, Query: query, Body: decodeErr.Body, Err: err}
		}

		logger.Error("failed to get current weather from provider", "error", err)
		return nil, &Error{Kind: ErrTransportFailure, RequestID: id, Query: query, Err: err}
	}

	record, err := mapCurrentWeatherAPIResponseToRecord(apiResponse)
	if err != nil {
		logger.Warn("provider returned an unusable response", "error", err)
		return nil, &Error{Kind: ErrInvalidResponse, RequestID: id, Query: query, Err: err}
	}

	logger.Debug("fetched current weather",
		"city", record.CityName,
		"condition_id", record.ConditionID,
		"temperature_celsius", record.TemperatureCelsius,
	)
	return record, nil
}

func mapCurrentWeatherAPIResponseToRecord(resp *openweathermap.CurrentWeatherAPIResponse) (*Record, error) {
	if resp == nil {
		return nil, errors.New("current weather response is nil")
	}
	if len(resp.Weather) == 0 {
		return nil, errors.New("current weather response contains no conditions")
	}
	if resp.Name == nil || resp.Main == nil || resp.Main.Temp == nil || resp.Weather[0].Id == nil {
		return nil, errors.New("current weather response is missing required fields")
	}

	return &Record{
		CityName:           *resp.Name,
		ConditionID:        *resp.Weather[0].Id,
		TemperatureCelsius: *resp.Main.Temp,
	}, nil
}
