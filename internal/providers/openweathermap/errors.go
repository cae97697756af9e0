package openweathermap

import (
	"errors"
	"fmt"
)

// ErrEmptyBody is returned when a 2xx response carries no body
var ErrEmptyBody = errors.New("response body is empty")

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("fetch returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch returned status %d: %s", e.StatusCode, e.Body)
}

// DecodeError is returned when the body is not valid JSON of the expected schema.
// Body holds the raw payload for diagnosis.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
