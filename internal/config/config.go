package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/TyumenevIF/Weather/internal/types"
)

// Location provider names
const (
	LocationProviderIPAPI  = "ipapi"
	LocationProviderStatic = "static"
)

// UnitsMetric is the only unit system the weather display understands
const UnitsMetric = "metric"

var (
	ErrMissingAPIKey           = errors.New("weather API key is not configured")
	ErrUnsupportedUnits        = errors.New("unsupported units")
	ErrUnknownLocationProvider = errors.New("unknown location provider")
	ErrInvalidStaticLocation   = errors.New("static location coordinates out of range")
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Weather  WeatherConfig
	Location LocationConfig
	Tracing  TracingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// WeatherConfig configures the current-weather endpoint.
// APIKey is a secret and is only ever supplied through the environment
// (WEATHER_WEATHER_APIKEY) or a file referenced by APIKeyFile.
type WeatherConfig struct {
	APIKey     string
	APIKeyFile string
	BaseURL    string
	Units      string
}

// LocationConfig configures where device coordinates come from
type LocationConfig struct {
	Enabled        bool // permission to read the device location
	Provider       string
	BaseURL        string
	Latitude       float64
	Longitude      float64
	ReverseGeocode bool // name the place of each fix through Nominatim
	GeocoderURL    string
}

// TracingConfig holds OpenTelemetry exporter settings. Tracing is off when ZipkinURL is empty.
type TracingConfig struct {
	ZipkinURL   string
	ServiceName string
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.weather")

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("weather.apikey", "")
	v.SetDefault("weather.apikeyfile", "")
	v.SetDefault("weather.baseurl", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("weather.units", UnitsMetric)
	v.SetDefault("location.enabled", true)
	v.SetDefault("location.provider", LocationProviderIPAPI)
	v.SetDefault("location.baseurl", "http://ip-api.com/json/")
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("location.reversegeocode", true)
	v.SetDefault("location.geocoderurl", "https://nominatim.openstreetmap.org/reverse")
	v.SetDefault("tracing.zipkinurl", "")
	v.SetDefault("tracing.servicename", "weather")

	// Read from environment variables, e.g. WEATHER_WEATHER_APIKEY
	v.SetEnvPrefix("WEATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the weather and location components cannot run without
func (c *Config) Validate() error {
	if _, err := c.APIKeySecret(); err != nil {
		return err
	}

	if !strings.EqualFold(c.Weather.Units, UnitsMetric) {
		return fmt.Errorf("%w: %q", ErrUnsupportedUnits, c.Weather.Units)
	}

	switch strings.ToLower(c.Location.Provider) {
	case LocationProviderIPAPI:
	case LocationProviderStatic:
		if err := types.NewCoords(c.Location.Latitude, c.Location.Longitude).Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStaticLocation, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLocationProvider, c.Location.Provider)
	}

	return nil
}

// APIKeySecret resolves the weather API key. An inline value wins over the key file.
func (c *Config) APIKeySecret() (string, error) {
	if key := strings.TrimSpace(c.Weather.APIKey); key != "" {
		return key, nil
	}

	if c.Weather.APIKeyFile == "" {
		return "", ErrMissingAPIKey
	}

	data, err := os.ReadFile(c.Weather.APIKeyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingAPIKey, c.Weather.APIKeyFile)
	}
	return key, nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger writing to stdout
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter creates a new slog.Logger based on the configuration
func (c *Config) NewLoggerWithWriter(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
