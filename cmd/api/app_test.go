package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/TyumenevIF/Weather/internal/config"
	"github.com/TyumenevIF/Weather/internal/location"
	"github.com/TyumenevIF/Weather/internal/types"
	"github.com/TyumenevIF/Weather/internal/weather"
)

// Mock services for testing

type mockWeatherService struct {
	record *weather.Record
	err    error

	gotCity   string
	gotCoords types.Coords
	calls     int
}

func (m *mockWeatherService) Fetch(ctx context.Context, query weather.Query) (*weather.Record, error) {
	m.calls++
	switch query.Kind() {
	case weather.QueryByCity:
		m.gotCity = query.City()
	case weather.QueryByCoordinates:
		m.gotCoords = query.Coords()
	}
	return m.record, m.err
}

func (m *mockWeatherService) FetchCity(ctx context.Context, name string) (*weather.Record, error) {
	return m.Fetch(ctx, weather.ByCity(name))
}

func (m *mockWeatherService) FetchCoordinates(ctx context.Context, latitude, longitude float64) (*weather.Record, error) {
	return m.Fetch(ctx, weather.ByCoordinates(latitude, longitude))
}

func (m *mockWeatherService) FetchAsync(ctx context.Context, query weather.Query, done weather.Continuation) uint64 {
	record, err := m.Fetch(ctx, query)
	done(weather.Result{RequestID: 1, Query: query, Record: record, Err: err})
	return 1
}

type mockLocationService struct {
	fix location.Fix
	err error
}

func (m *mockLocationService) RequestLocation(ctx context.Context, done func(location.Fix, error)) {
	done(m.fix, m.err)
}

func (m *mockLocationService) Locate(ctx context.Context) (location.Fix, error) {
	return m.fix, m.err
}

func newTestApp(ws weather.Service, ls location.Service) *App {
	cfg := &config.Config{Server: config.ServerConfig{GinMode: gin.TestMode}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAppWithServices(cfg, logger, ws, ls)
}

func serve(app *App, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

var londonRecord = &weather.Record{
	CityName:           "London",
	ConditionID:        803,
	TemperatureCelsius: 11.2,
}

func TestHandlePing(t *testing.T) {
	app := newTestApp(&mockWeatherService{}, &mockLocationService{})

	rec := serve(app, "/ping", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got PingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Message != "pong" {
		t.Errorf("Message = %q, want %q", got.Message, "pong")
	}
}

func TestHandleGetWeatherByCity(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		service    *mockWeatherService
		wantStatus int
		wantCode   string
		wantCity   string
		wantCalls  int
		want       *WeatherResponse
	}{
		{
			name:       "successful lookup",
			target:     "/weather?city=London",
			service:    &mockWeatherService{record: londonRecord},
			wantStatus: http.StatusOK,
			wantCity:   "London",
			wantCalls:  1,
			want: &WeatherResponse{
				City:               "London",
				ConditionID:        803,
				Condition:          "Clouds",
				Icon:               "cloudy",
				TemperatureCelsius: 11.2,
				Temperature:        "11°",
			},
		},
		{
			name:       "city is trimmed",
			target:     "/weather?city=%20%20Paris%20",
			service:    &mockWeatherService{record: &weather.Record{CityName: "Paris", ConditionID: 800, TemperatureCelsius: -0.4}},
			wantStatus: http.StatusOK,
			wantCity:   "Paris",
			wantCalls:  1,
			want: &WeatherResponse{
				City:               "Paris",
				ConditionID:        800,
				Condition:          "Clear",
				Icon:               "clear",
				TemperatureCelsius: -0.4,
				Temperature:        "0°",
			},
		},
		{
			name:       "missing city",
			target:     "/weather",
			service:    &mockWeatherService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeBadRequest,
		},
		{
			name:       "blank city never reaches the service",
			target:     "/weather?city=%20%20",
			service:    &mockWeatherService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeBadRequest,
		},
		{
			name:       "transport failure",
			target:     "/weather?city=London",
			service:    &mockWeatherService{err: &weather.Error{Kind: weather.ErrTransportFailure, Err: errors.New("connection refused")}},
			wantStatus: http.StatusBadGateway,
			wantCode:   codeTransportFailure,
			wantCity:   "London",
			wantCalls:  1,
		},
		{
			name:       "decode failure",
			target:     "/weather?city=London",
			service:    &mockWeatherService{err: &weather.Error{Kind: weather.ErrDecodeFailure, Err: errors.New("unexpected end of JSON input")}},
			wantStatus: http.StatusBadGateway,
			wantCode:   codeDecodeFailure,
			wantCity:   "London",
			wantCalls:  1,
		},
		{
			name:       "invalid response",
			target:     "/weather?city=London",
			service:    &mockWeatherService{err: &weather.Error{Kind: weather.ErrInvalidResponse, Err: errors.New("no conditions")}},
			wantStatus: http.StatusBadGateway,
			wantCode:   codeInvalidResponse,
			wantCity:   "London",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.service, &mockLocationService{})

			rec := serve(app, tt.target, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.service.calls != tt.wantCalls {
				t.Errorf("service calls = %d, want %d", tt.service.calls, tt.wantCalls)
			}
			if tt.service.gotCity != tt.wantCity {
				t.Errorf("service city = %q, want %q", tt.service.gotCity, tt.wantCity)
			}

			if tt.wantCode != "" {
				var got ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if got.Code != tt.wantCode {
					t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
				}
				if got.RequestID == "" {
					t.Error("RequestID is empty")
				}
				return
			}

			var got WeatherResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if diff := cmp.Diff(*tt.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleGetWeatherByCoordinates(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantCoords  types.Coords
		errContains string
	}{
		{
			name:       "valid coordinates",
			target:     "/weather/coordinates?latitude=51.5&longitude=-0.12",
			wantStatus: http.StatusOK,
			wantCoords: types.NewCoords(51.5, -0.12),
		},
		{
			name:       "zero coordinates are valid",
			target:     "/weather/coordinates?latitude=0&longitude=0",
			wantStatus: http.StatusOK,
			wantCoords: types.NewCoords(0, 0),
		},
		{
			name:       "missing longitude",
			target:     "/weather/coordinates?latitude=51.5",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric latitude",
			target:     "/weather/coordinates?latitude=north&longitude=0",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "latitude NaN",
			target:      "/weather/coordinates?latitude=NaN&longitude=NaN",
			wantStatus:  http.StatusBadRequest,
			errContains: "latitude",
		},
		{
			name:        "longitude infinite",
			target:      "/weather/coordinates?latitude=0&longitude=Inf",
			wantStatus:  http.StatusBadRequest,
			errContains: "longitude",
		},
		{
			name:        "latitude out of range",
			target:      "/weather/coordinates?latitude=91&longitude=0",
			wantStatus:  http.StatusBadRequest,
			errContains: "latitude",
		},
		{
			name:        "longitude out of range",
			target:      "/weather/coordinates?latitude=0&longitude=-181",
			wantStatus:  http.StatusBadRequest,
			errContains: "longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockWeatherService{record: londonRecord}
			app := newTestApp(service, &mockLocationService{})

			rec := serve(app, tt.target, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if service.calls != 0 {
					t.Errorf("service called %d times for a rejected request", service.calls)
				}
				if !strings.Contains(rec.Body.String(), tt.errContains) {
					t.Errorf("body = %s, want it to contain %q", rec.Body.String(), tt.errContains)
				}
				return
			}
			if service.gotCoords != tt.wantCoords {
				t.Errorf("service coords = %v, want %v", service.gotCoords, tt.wantCoords)
			}
		})
	}
}

func TestHandleGetWeatherHere(t *testing.T) {
	londonFix := location.Fix{Coords: types.NewCoords(51.5, -0.12), Timezone: "Europe/London"}

	tests := []struct {
		name       string
		location   *mockLocationService
		weather    *mockWeatherService
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "fix then fetch",
			location:   &mockLocationService{fix: londonFix},
			weather:    &mockWeatherService{record: londonRecord},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "permission denied",
			location:   &mockLocationService{err: &location.Error{Reason: location.ErrPermissionDenied}},
			weather:    &mockWeatherService{record: londonRecord},
			wantStatus: http.StatusForbidden,
			wantCode:   codePermissionDenied,
		},
		{
			name:       "fix unavailable",
			location:   &mockLocationService{err: &location.Error{Reason: location.ErrFixUnavailable, Err: errors.New("no network")}},
			weather:    &mockWeatherService{record: londonRecord},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeFixUnavailable,
		},
		{
			name:       "weather failure after fix",
			location:   &mockLocationService{fix: londonFix},
			weather:    &mockWeatherService{err: &weather.Error{Kind: weather.ErrTransportFailure, Err: errors.New("timeout")}},
			wantStatus: http.StatusBadGateway,
			wantCode:   codeTransportFailure,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.weather, tt.location)

			rec := serve(app, "/weather/here", nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.weather.calls != tt.wantCalls {
				t.Errorf("weather calls = %d, want %d", tt.weather.calls, tt.wantCalls)
			}

			if tt.wantCode != "" {
				var got ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if got.Code != tt.wantCode {
					t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
				}
				return
			}

			var got WeatherHereResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if got.Location != londonFix {
				t.Errorf("Location = %+v, want %+v", got.Location, londonFix)
			}
			if tt.weather.gotCoords != londonFix.Coords {
				t.Errorf("weather coords = %v, want %v", tt.weather.gotCoords, londonFix.Coords)
			}
			if got.Weather.Icon != "cloudy" {
				t.Errorf("Weather.Icon = %q, want %q", got.Weather.Icon, "cloudy")
			}
		})
	}
}

func TestHandleGetLocation(t *testing.T) {
	fix := location.Fix{Coords: types.NewCoords(35.6762, 139.6503), Timezone: "Asia/Tokyo"}
	app := newTestApp(&mockWeatherService{}, &mockLocationService{fix: fix})

	rec := serve(app, "/location", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got location.Fix
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got != fix {
		t.Errorf("fix = %+v, want %+v", got, fix)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newTestApp(&mockWeatherService{}, &mockLocationService{})

	t.Run("generates an id", func(t *testing.T) {
		rec := serve(app, "/ping", nil)
		if rec.Header().Get(requestIDHeader) == "" {
			t.Errorf("%s header not set", requestIDHeader)
		}
	})

	t.Run("echoes the caller's id", func(t *testing.T) {
		header := http.Header{}
		header.Set(requestIDHeader, "caller-id")
		rec := serve(app, "/ping", header)
		if got := rec.Header().Get(requestIDHeader); got != "caller-id" {
			t.Errorf("%s = %q, want %q", requestIDHeader, got, "caller-id")
		}
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty city", weather.ErrEmptyCityName, http.StatusBadRequest, codeBadRequest},
		{"empty query", &weather.Error{Kind: weather.ErrInvalidQuery}, http.StatusBadRequest, codeBadRequest},
		{"transport", &weather.Error{Kind: weather.ErrTransportFailure}, http.StatusBadGateway, codeTransportFailure},
		{"decode", &weather.Error{Kind: weather.ErrDecodeFailure}, http.StatusBadGateway, codeDecodeFailure},
		{"invalid", &weather.Error{Kind: weather.ErrInvalidResponse}, http.StatusBadGateway, codeInvalidResponse},
		{"permission", &location.Error{Reason: location.ErrPermissionDenied}, http.StatusForbidden, codePermissionDenied},
		{"fix", &location.Error{Reason: location.ErrFixUnavailable}, http.StatusServiceUnavailable, codeFixUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusForError(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("statusForError() = (%d, %q), want (%d, %q)", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
