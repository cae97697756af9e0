package main

// @title Weather API
// @version 1.0
// @description Current weather by city name, by coordinates or for the device location.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /
// @schemes http
