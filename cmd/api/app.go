package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TyumenevIF/Weather/internal/config"
	"github.com/TyumenevIF/Weather/internal/location"
	"github.com/TyumenevIF/Weather/internal/weather"

	"github.com/gin-gonic/gin"

	_ "github.com/TyumenevIF/Weather/docs" // Ensure docs are imported
)

const shutdownTimeout = 10 * time.Second

// App encapsulates application dependencies
type App struct {
	router          *gin.Engine
	logger          *slog.Logger
	weatherService  weather.Service
	locationService location.Service
	cfg             *config.Config
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize weather service
	weatherSvc, err := weather.NewWeatherService(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize location service
	locationSvc, err := location.NewLocationService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create location service: %w", err)
	}

	return newAppWithServices(cfg, logger, weatherSvc, locationSvc), nil
}

func newAppWithServices(cfg *config.Config, logger *slog.Logger, weatherSvc weather.Service, locationSvc location.Service) *App {
	// Set Gin mode from configuration
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(tracingMiddleware())
	router.Use(requestLoggerMiddleware(logger))

	app := &App{
		router:          router,
		logger:          logger.With("component", "api"),
		weatherService:  weatherSvc,
		locationService: locationSvc,
		cfg:             cfg,
	}

	// Register routes
	app.registerRoutes()

	return app
}

// Run starts the HTTP server and shuts it down gracefully when ctx is cancelled
func (app *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		app.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
