package timezone

import (
	"errors"
	"fmt"
	"sync"

	"github.com/TyumenevIF/Weather/internal/types"
	"github.com/ringsaturn/tzf"
)

var ErrTimezoneNotFound = errors.New("no timezone for coordinates")

// Service resolves the IANA timezone of a location fix
type Service interface {
	Lookup(coords types.Coords) (string, error)
}

// service implements timezone lookup using tzf
type service struct {
	finder tzf.F
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService creates or returns the shared timezone service.
// tzf loads its polygon data into memory, so the finder is built once per process.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// Lookup returns names like "Europe/London" for the given coordinates
func (s *service) Lookup(coords types.Coords) (string, error) {
	// tzf takes longitude first
	name := s.finder.GetTimezoneName(coords.Longitude, coords.Latitude)
	if name == "" {
		return "", fmt.Errorf("%w %s", ErrTimezoneNotFound, coords)
	}
	return name, nil
}
