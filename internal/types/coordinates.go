package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

type Coords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewCoords(latitude, longitude float64) Coords {
	return Coords{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// Validate reports whether the coordinates lie on the globe. NaN and infinities are rejected.
func (c Coords) Validate() error {
	if !inRange(c.Latitude, 90) {
		return fmt.Errorf("%w: got %f", ErrInvalidLatitude, c.Latitude)
	}
	if !inRange(c.Longitude, 180) {
		return fmt.Errorf("%w: got %f", ErrInvalidLongitude, c.Longitude)
	}
	return nil
}

// inRange is false for NaN since every comparison with NaN is false
func inRange(v, limit float64) bool {
	return v >= -limit && v <= limit
}

func (c Coords) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}
