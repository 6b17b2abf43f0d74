package response_models

const (
	WeatherReasonTooFar      = "Date too far"
	WeatherReasonCityUnknown = "City not found"
	WeatherReasonUnavailable = "Forecast unavailable"
)

type DailyForecast struct {
	Dates        []string  `json:"dates"`
	WeatherCodes []int     `json:"weatherCodes"`
	TempsMax     []float64 `json:"tempsMax"`
	TempsMin     []float64 `json:"tempsMin"`
	Timezone     string    `json:"timezone,omitempty"`
}

// WeatherResponse has a nil Daily whenever no forecast can be given; Reason says why.
type WeatherResponse struct {
	City   string         `json:"city"`
	Daily  *DailyForecast `json:"daily"`
	Reason string         `json:"reason,omitempty"`
}
