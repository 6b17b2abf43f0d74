package request_models

type WeatherRequest struct {
	City string `json:"city" binding:"required"`
	// YYYY-MM-DD, empty means today
	StartDate string `json:"startDate"`
}
