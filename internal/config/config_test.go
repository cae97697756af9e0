package config

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Weather: WeatherConfig{
			APIKey: "secret",
			Units:  UnitsMetric,
		},
		Location: LocationConfig{
			Enabled:  true,
			Provider: LocationProviderIPAPI,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid ipapi config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid static config",
			mutate: func(c *Config) {
				c.Location.Provider = "Static"
				c.Location.Latitude = 51.5
				c.Location.Longitude = -0.12
			},
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Weather.APIKey = "  " },
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "imperial units rejected",
			mutate:  func(c *Config) { c.Weather.Units = "imperial" },
			wantErr: ErrUnsupportedUnits,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Location.Provider = "gps" },
			wantErr: ErrUnknownLocationProvider,
		},
		{
			name: "static latitude out of range",
			mutate: func(c *Config) {
				c.Location.Provider = LocationProviderStatic
				c.Location.Latitude = 91
			},
			wantErr: ErrInvalidStaticLocation,
		},
		{
			name: "static longitude NaN",
			mutate: func(c *Config) {
				c.Location.Provider = LocationProviderStatic
				c.Location.Longitude = math.NaN()
			},
			wantErr: ErrInvalidStaticLocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_APIKeySecret_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apikey")
	if err := os.WriteFile(path, []byte("  file-secret\n"), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	cfg := validConfig()
	cfg.Weather.APIKey = ""
	cfg.Weather.APIKeyFile = path

	got, err := cfg.APIKeySecret()
	if err != nil {
		t.Fatalf("APIKeySecret() unexpected error = %v", err)
	}
	if got != "file-secret" {
		t.Errorf("APIKeySecret() = %q, want %q", got, "file-secret")
	}
}

func TestConfig_APIKeySecret_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apikey")
	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	cfg := validConfig()
	cfg.Weather.APIKey = ""
	cfg.Weather.APIKeyFile = path

	if _, err := cfg.APIKeySecret(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("APIKeySecret() error = %v, want %v", err, ErrMissingAPIKey)
	}
}

func TestLoad_DefaultsAndEnvironment(t *testing.T) {
	// Run from an empty directory so no config.yaml is picked up
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() unexpected error = %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir() unexpected error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEATHER_WEATHER_APIKEY", "env-secret")
	t.Setenv("WEATHER_SERVER_PORT", "9090")
	t.Setenv("WEATHER_LOCATION_PROVIDER", "static")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Weather.APIKey != "env-secret" {
		t.Errorf("Weather.APIKey = %q, want %q", cfg.Weather.APIKey, "env-secret")
	}
	if cfg.GetServerAddr() != ":9090" {
		t.Errorf("GetServerAddr() = %q, want %q", cfg.GetServerAddr(), ":9090")
	}
	if cfg.Location.Provider != LocationProviderStatic {
		t.Errorf("Location.Provider = %q, want %q", cfg.Location.Provider, LocationProviderStatic)
	}
	if cfg.Weather.Units != UnitsMetric {
		t.Errorf("Weather.Units = %q, want %q", cfg.Weather.Units, UnitsMetric)
	}
	if !strings.Contains(cfg.Weather.BaseURL, "openweathermap.org") {
		t.Errorf("Weather.BaseURL = %q, want the openweathermap default", cfg.Weather.BaseURL)
	}
	if !cfg.Location.Enabled {
		t.Error("Location.Enabled = false, want true by default")
	}
}

func TestConfig_NewLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}

	logger := cfg.NewLoggerWithWriter(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "city", "London")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"city":"London"`) {
		t.Errorf("warn record missing or not JSON: %s", out)
	}
}
