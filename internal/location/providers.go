package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TyumenevIF/Weather/internal/config"
	"github.com/TyumenevIF/Weather/internal/providers/ipapi"
	"github.com/TyumenevIF/Weather/internal/providers/openstreetmap"
	"github.com/TyumenevIF/Weather/internal/types"
)

// Provider produces a single coordinate reading
type Provider interface {
	Locate(ctx context.Context) (types.Coords, error)
}

// Authorizer decides whether the device location may be read
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// IPLookupProvider is the subset of the ip-api client the location source uses
type IPLookupProvider interface {
	Lookup(ctx context.Context) (*ipapi.LookupAPIResponse, error)
}

// ipProvider adapts an IP geolocation lookup to a Provider
type ipProvider struct {
	lookup IPLookupProvider
}

func NewIPProvider(lookup IPLookupProvider) Provider {
	return &ipProvider{lookup: lookup}
}

func (p *ipProvider) Locate(ctx context.Context) (types.Coords, error) {
	resp, err := p.lookup.Lookup(ctx)
	if err != nil {
		return types.Coords{}, fmt.Errorf("failed to get location: %w", err)
	}
	return translateLookup(resp)
}

// translateLookup converts an ip-api response to domain Coords
func translateLookup(resp *ipapi.LookupAPIResponse) (types.Coords, error) {
	if resp == nil {
		return types.Coords{}, errors.New("lookup response is nil")
	}
	return types.NewCoords(resp.Lat, resp.Lon), nil
}

// PlaceResolver names the place at a coordinate pair
type PlaceResolver interface {
	Resolve(ctx context.Context, coords types.Coords) (types.Place, error)
}

// ReverseGeocoder is the subset of the Nominatim client the location source uses
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*openstreetmap.ReverseAPIResponse, error)
}

// geocodingResolver adapts a reverse geocoder to a PlaceResolver
type geocodingResolver struct {
	geocoder ReverseGeocoder
}

func NewGeocodingResolver(geocoder ReverseGeocoder) PlaceResolver {
	return &geocodingResolver{geocoder: geocoder}
}

func (r *geocodingResolver) Resolve(ctx context.Context, coords types.Coords) (types.Place, error) {
	resp, err := r.geocoder.ReverseGeocode(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		return types.Place{}, fmt.Errorf("failed to get place: %w", err)
	}
	return translateReverse(resp)
}

// translateReverse converts a Nominatim response to a domain Place
func translateReverse(resp *openstreetmap.ReverseAPIResponse) (types.Place, error) {
	if resp == nil {
		return types.Place{}, errors.New("reverse geocode response is nil")
	}

	name := resp.Address.Locality()
	if name == "" {
		name = resp.Name
	}
	return types.Place{
		Name:        name,
		State:       resp.Address.State,
		Country:     resp.Address.Country,
		CountryCode: strings.ToUpper(resp.Address.CountryCode),
	}, nil
}

// StaticProvider always reports the same coordinates
type StaticProvider struct {
	Coords types.Coords
}

func (p StaticProvider) Locate(ctx context.Context) (types.Coords, error) {
	if err := ctx.Err(); err != nil {
		return types.Coords{}, err
	}
	return p.Coords, nil
}

// SwitchAuthorizer grants access when Enabled is set
type SwitchAuthorizer struct {
	Enabled bool
}

func (a SwitchAuthorizer) Authorize(ctx context.Context) error {
	if !a.Enabled {
		return errors.New("location access is disabled in configuration")
	}
	return nil
}

func newProvider(cfg config.LocationConfig, ipClient func() IPLookupProvider) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.LocationProviderIPAPI:
		return NewIPProvider(ipClient()), nil
	case config.LocationProviderStatic:
		return StaticProvider{Coords: types.NewCoords(cfg.Latitude, cfg.Longitude)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownLocationProvider, cfg.Provider)
	}
}
