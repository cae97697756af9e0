package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	app.router.GET("/ping", app.handlePing)

	// Weather endpoints
	app.router.GET("/weather", app.handleGetWeatherByCity)
	app.router.GET("/weather/coordinates", app.handleGetWeatherByCoordinates)
	app.router.GET("/weather/here", app.handleGetWeatherHere)

	// Location endpoints
	app.router.GET("/location", app.handleGetLocation)

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}
