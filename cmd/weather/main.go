// Command weather is an interactive terminal for current weather lookups.
//
// Type a city name to look it up, "@" or "/here" for the device location, "/quit" to exit.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TyumenevIF/Weather/internal/config"
	"github.com/TyumenevIF/Weather/internal/location"
	"github.com/TyumenevIF/Weather/internal/telemetry"
	"github.com/TyumenevIF/Weather/internal/weather"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Logs go to stderr so they do not interleave with the display
	logger := cfg.NewLoggerWithWriter(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(cfg.Tracing, logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shut down tracer", "error", err)
		}
	}()

	weatherSvc, err := weather.NewWeatherService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create weather service: %v", err)
	}
	locationSvc, err := location.NewLocationService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create location service: %v", err)
	}

	s := newScreen(os.Stdout, weatherSvc, locationSvc, logger)
	if err := s.run(ctx, os.Stdin); err != nil {
		logger.Error("terminal failed", "error", err)
		os.Exit(1)
	}
}
