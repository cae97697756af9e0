package main

import (
	"errors"
	"net/http"

	"github.com/TyumenevIF/Weather/internal/location"
	"github.com/TyumenevIF/Weather/internal/weather"

	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorResponse.Code
const (
	codeBadRequest       = "bad_request"
	codeTransportFailure = "transport_failure"
	codeDecodeFailure    = "decode_failure"
	codeInvalidResponse  = "invalid_response"
	codePermissionDenied = "permission_denied"
	codeFixUnavailable   = "fix_unavailable"
	codeInternal         = "internal_error"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error" example:"weather request failed"`
	Code      string `json:"code" example:"transport_failure"`
	RequestID string `json:"request_id,omitempty" example:"9b2d1c7e-6a53-4a5f-9a0e-0f2b1f3c4d5e"`
}

func (app *App) abortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: c.GetString(requestIDKey),
	})
}

// statusForError maps weather and location failures to an HTTP status and error code
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, weather.ErrEmptyCityName), errors.Is(err, weather.ErrInvalidQuery):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, weather.ErrTransportFailure):
		return http.StatusBadGateway, codeTransportFailure
	case errors.Is(err, weather.ErrDecodeFailure):
		return http.StatusBadGateway, codeDecodeFailure
	case errors.Is(err, weather.ErrInvalidResponse):
		return http.StatusBadGateway, codeInvalidResponse
	case errors.Is(err, location.ErrPermissionDenied):
		return http.StatusForbidden, codePermissionDenied
	case errors.Is(err, location.ErrFixUnavailable):
		return http.StatusServiceUnavailable, codeFixUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
