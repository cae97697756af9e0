package openweathermap

// CurrentWeatherAPIResponse is the subset of the current weather payload the app reads.
// Required fields are pointers so that a missing field can be told apart from a zero value.
type CurrentWeatherAPIResponse struct {
	Name    *string     `json:"name" validate:"required"`
	Weather []Condition `json:"weather" validate:"required,dive"`
	Main    *Main       `json:"main" validate:"required"`
}

type Condition struct {
	Id          *int   `json:"id" validate:"required"`
	Description string `json:"description"`
}

type Main struct {
	Temp *float64 `json:"temp" validate:"required"`
}

// APIError is the body returned alongside non-2xx statuses.
// cod is a number on some endpoints and a string on others.
type APIError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}
