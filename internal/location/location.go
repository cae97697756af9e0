package location

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/TyumenevIF/Weather/internal/config"
	"github.com/TyumenevIF/Weather/internal/providers/ipapi"
	"github.com/TyumenevIF/Weather/internal/providers/openstreetmap"
	"github.com/TyumenevIF/Weather/internal/timezone"
	"github.com/TyumenevIF/Weather/internal/types"
)

// Fix is a single resolved device location
type Fix struct {
	Coords types.Coords `json:"coords"`

	// Timezone is the IANA name of the zone at Coords, empty when unknown
	Timezone string `json:"timezone,omitempty"`

	// Place names the settlement at Coords, nil when it could not be resolved
	Place *types.Place `json:"place,omitempty"`
}

// Service supplies one-shot device locations
type Service interface {
	// RequestLocation asks for one fix and calls done exactly once from another goroutine.
	// A newer call cancels an outstanding one; the older call receives ErrSuperseded.
	RequestLocation(ctx context.Context, done func(Fix, error))
	// Locate blocks until one fix is available. It is independent of RequestLocation.
	Locate(ctx context.Context) (Fix, error)
}

// locationService implements the Service interface
type locationService struct {
	provider   Provider
	authorizer Authorizer
	timezones  timezone.Service
	places     PlaceResolver
	logger     *slog.Logger

	mu         sync.Mutex
	granted    bool
	generation uint64
	cancel     context.CancelFunc
}

// NewLocationService creates a location service from configuration
func NewLocationService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	provider, err := newProvider(cfg.Location, func() IPLookupProvider {
		if cfg.Location.BaseURL != "" {
			return ipapi.NewClientWithBaseURL(cfg.Location.BaseURL, &http.Client{}, logger)
		}
		return ipapi.NewClient(logger)
	})
	if err != nil {
		return nil, err
	}

	tzSvc, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create timezone service: %w", err)
	}

	var places PlaceResolver
	if cfg.Location.ReverseGeocode {
		if cfg.Location.GeocoderURL != "" {
			places = NewGeocodingResolver(openstreetmap.NewClientWithBaseURL(cfg.Location.GeocoderURL, &http.Client{}, logger))
		} else {
			places = NewGeocodingResolver(openstreetmap.NewClient(logger))
		}
	}

	return NewLocationServiceWithProviders(provider, SwitchAuthorizer{Enabled: cfg.Location.Enabled}, tzSvc, places, logger), nil
}

// NewLocationServiceWithProviders creates a new location service with custom providers.
// timezones and places may be nil, in which case fixes carry no timezone or place.
func NewLocationServiceWithProviders(
	provider Provider,
	authorizer Authorizer,
	timezones timezone.Service,
	places PlaceResolver,
	logger *slog.Logger,
) Service {
	return &locationService{
		provider:   provider,
		authorizer: authorizer,
		timezones:  timezones,
		places:     places,
		logger:     logger.With("component", "location-service"),
	}
}

func (s *locationService) RequestLocation(ctx context.Context, done func(Fix, error)) {
	reqCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.logger.Debug("cancelling outstanding location request", "generation", s.generation)
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()

		fix, err := s.locate(reqCtx)

		s.mu.Lock()
		current := gen == s.generation
		if current {
			s.cancel = nil
		}
		s.mu.Unlock()

		if !current {
			done(Fix{}, &Error{Reason: ErrSuperseded})
			return
		}
		done(fix, err)
	}()
}

func (s *locationService) Locate(ctx context.Context) (Fix, error) {
	return s.locate(ctx)
}

func (s *locationService) locate(ctx context.Context) (Fix, error) {
	if err := s.authorize(ctx); err != nil {
		s.logger.Warn("location permission denied", "error", err)
		return Fix{}, &Error{Reason: ErrPermissionDenied, Err: err}
	}

	coords, err := s.provider.Locate(ctx)
	if err != nil {
		s.logger.Error("failed to get location fix", "error", err)
		return Fix{}, &Error{Reason: ErrFixUnavailable, Err: err}
	}

	if err := coords.Validate(); err != nil {
		s.logger.Error("provider returned invalid coordinates", "coords", coords.String(), "error", err)
		return Fix{}, &Error{Reason: ErrFixUnavailable, Err: err}
	}

	fix := Fix{Coords: coords}
	if s.timezones != nil {
		tz, err := s.timezones.Lookup(coords)
		if err != nil {
			s.logger.Debug("no timezone for fix", "coords", coords.String(), "error", err)
		} else {
			fix.Timezone = tz
		}
	}

	if s.places != nil {
		place, err := s.places.Resolve(ctx, coords)
		if err != nil {
			s.logger.Debug("no place for fix", "coords", coords.String(), "error", err)
		} else {
			fix.Place = &place
		}
	}

	s.logger.Debug("resolved location fix",
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
		"timezone", fix.Timezone,
		"place", fix.Place != nil,
	)
	return fix, nil
}

// authorize asks the authorizer once; a grant is remembered for the life of the service
func (s *locationService) authorize(ctx context.Context) error {
	s.mu.Lock()
	granted := s.granted
	s.mu.Unlock()
	if granted {
		return nil
	}

	if err := s.authorizer.Authorize(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.granted = true
	s.mu.Unlock()
	return nil
}
