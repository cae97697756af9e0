package main

import (
	"errors"
	"net/http"

	"github.com/TyumenevIF/Weather/internal/location"
	"github.com/TyumenevIF/Weather/internal/types"
	"github.com/TyumenevIF/Weather/internal/weather"

	"github.com/gin-gonic/gin"
)

// WeatherResponse is the current weather for one lookup
type WeatherResponse struct {
	City               string  `json:"city" example:"London"`
	ConditionID        int     `json:"condition_id" example:"803"`
	Condition          string  `json:"condition" example:"Clouds"`
	Icon               string  `json:"icon" example:"cloudy"`
	TemperatureCelsius float64 `json:"temperature_celsius" example:"11.2"`
	Temperature        string  `json:"temperature" example:"11°"`
}

// WeatherHereResponse is the current weather at the device location
type WeatherHereResponse struct {
	Location location.Fix    `json:"location"`
	Weather  WeatherResponse `json:"weather"`
}

// GetWeatherByCoordinatesInput defines the query parameters for the coordinates endpoint
type GetWeatherByCoordinatesInput struct {
	Latitude  *float64 `form:"latitude" binding:"required"`  // Latitude in decimal degrees
	Longitude *float64 `form:"longitude" binding:"required"` // Longitude in decimal degrees
}

func newWeatherResponse(record *weather.Record) WeatherResponse {
	return WeatherResponse{
		City:               record.CityName,
		ConditionID:        record.ConditionID,
		Condition:          record.ConditionDescription(),
		Icon:               record.ConditionIconName(),
		TemperatureCelsius: record.TemperatureCelsius,
		Temperature:        record.TemperatureString(),
	}
}

// handleGetWeatherByCity godoc
// @Summary Get current weather for a city
// @Description Look up the current weather by city name. Surrounding whitespace is ignored.
// @Tags weather
// @Produce json
// @Param city query string true "City name" example(London)
// @Success 200 {object} WeatherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /weather [get]
func (app *App) handleGetWeatherByCity(c *gin.Context) {
	city, err := weather.NormalizeCity(c.Query("city"))
	if err != nil {
		app.abortWithError(c, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	record, err := app.weatherService.FetchCity(c.Request.Context(), city)
	if err != nil {
		app.writeFailure(c, "failed to get weather by city", err, "city", city)
		return
	}

	c.JSON(http.StatusOK, newWeatherResponse(record))
}

// handleGetWeatherByCoordinates godoc
// @Summary Get current weather for coordinates
// @Description Look up the current weather for a latitude and longitude
// @Tags weather
// @Produce json
// @Param latitude query number true "Latitude in decimal degrees" minimum(-90) maximum(90) example(51.5)
// @Param longitude query number true "Longitude in decimal degrees" minimum(-180) maximum(180) example(-0.12)
// @Success 200 {object} WeatherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /weather/coordinates [get]
func (app *App) handleGetWeatherByCoordinates(c *gin.Context) {
	var input GetWeatherByCoordinatesInput

	// Bind and validate query parameters
	if err := c.ShouldBindQuery(&input); err != nil {
		app.abortWithError(c, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	coords := types.NewCoords(*input.Latitude, *input.Longitude)
	if err := coords.Validate(); err != nil {
		app.abortWithError(c, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	record, err := app.weatherService.FetchCoordinates(c.Request.Context(), coords.Latitude, coords.Longitude)
	if err != nil {
		app.writeFailure(c, "failed to get weather by coordinates", err,
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
		)
		return
	}

	c.JSON(http.StatusOK, newWeatherResponse(record))
}

// handleGetWeatherHere godoc
// @Summary Get current weather at the device location
// @Description Resolve one location fix, then look up the current weather for it
// @Tags weather
// @Produce json
// @Success 200 {object} WeatherHereResponse
// @Failure 403 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /weather/here [get]
func (app *App) handleGetWeatherHere(c *gin.Context) {
	fix, err := app.locationService.Locate(c.Request.Context())
	if err != nil {
		app.writeFailure(c, "failed to get device location", err)
		return
	}

	record, err := app.weatherService.FetchCoordinates(c.Request.Context(), fix.Coords.Latitude, fix.Coords.Longitude)
	if err != nil {
		app.writeFailure(c, "failed to get weather for device location", err, "coords", fix.Coords.String())
		return
	}

	c.JSON(http.StatusOK, WeatherHereResponse{
		Location: fix,
		Weather:  newWeatherResponse(record),
	})
}

// writeFailure logs a service failure and writes the mapped error response
func (app *App) writeFailure(c *gin.Context, msg string, err error, args ...any) {
	status, code := statusForError(err)

	attrs := append([]any{"error", err, "code", code, requestIDKey, c.GetString(requestIDKey)}, args...)
	var weatherErr *weather.Error
	if errors.As(err, &weatherErr) {
		attrs = append(attrs, "weather_request_id", weatherErr.RequestID)
	}

	if status >= http.StatusInternalServerError {
		app.logger.Error(msg, attrs...)
	} else {
		app.logger.Warn(msg, attrs...)
	}
	app.abortWithError(c, status, code, err)
}
