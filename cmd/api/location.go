package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetLocation godoc
// @Summary Get the device location
// @Description Resolve one location fix with its IANA timezone
// @Tags location
// @Produce json
// @Success 200 {object} location.Fix
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /location [get]
func (app *App) handleGetLocation(c *gin.Context) {
	fix, err := app.locationService.Locate(c.Request.Context())
	if err != nil {
		app.writeFailure(c, "failed to get device location", err)
		return
	}

	c.JSON(http.StatusOK, fix)
}
