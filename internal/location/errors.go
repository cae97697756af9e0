package location

import (
	"errors"
	"fmt"
)

// Failure reasons. Match them with errors.Is.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrFixUnavailable   = errors.New("location fix unavailable")
	ErrSuperseded       = errors.New("location request superseded by a newer request")
)

// Error is delivered when no fix could be produced
type Error struct {
	Reason error
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%v: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Reason
}
