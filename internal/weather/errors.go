package weather

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrTransportFailure = errors.New("transport failure")
	ErrDecodeFailure    = errors.New("decode failure")
	ErrInvalidResponse  = errors.New("invalid response")
	// ErrInvalidQuery means no request was sent because the query was neither a city nor coordinates
	ErrInvalidQuery = errors.New("invalid query")
)

// Error describes a failed fetch
type Error struct {
	Kind      error
	RequestID uint64
	Query     Query
	// Body is the raw response for decode failures
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("request %d for %s: %v", e.RequestID, e.Query, e.Kind)
	}
	return fmt.Sprintf("request %d for %s: %v: %v", e.RequestID, e.Query, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}
